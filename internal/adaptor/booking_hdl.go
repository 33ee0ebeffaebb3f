package adaptor

import (
	"net/http"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking request submitted", booking)
}

// CheckAvailability handles GET /api/bookings/availability?date=&start_time=&end_time=
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.AvailabilityRequest{
		EventDate: query.Get("date"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	}

	availability, err := h.service.CheckAvailability(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "Availability retrieved", availability)
}

// ListBookings handles GET /api/admin/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := query.Get("limit")
	if limit == "" {
		limit = query.Get("per_page")
	}

	req := &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(limit, request.DefaultPerPage),
		},
		Status:         query.Get("status"),
		DateFrom:       query.Get("date_from"),
		DateTo:         query.Get("date_to"),
		CustomerEmail:  query.Get("customer_email"),
		FunctionTypeID: query.Get("function_type_id"),
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved", bookings)
}

// GetBooking handles GET /api/admin/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved", booking)
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/{id}
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

// ReopenBooking handles POST /api/admin/bookings/{id}/reopen
func (h *BookingHandler) ReopenBooking(w http.ResponseWriter, r *http.Request) {
	var req request.ReopenBookingRequest
	// the body is optional
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.ReopenBooking(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reopen booking")
		return
	}

	utils.ResponseSuccess(w, "Booking moved back to pending", booking)
}

// DeleteBooking handles DELETE /api/admin/bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}
