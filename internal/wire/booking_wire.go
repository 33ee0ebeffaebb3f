package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/bookings", bookingHandler.CreateBooking)
	r.Get("/api/bookings/availability", bookingHandler.CheckAvailability)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Patch("/{id}", bookingHandler.UpdateBookingStatus)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
		r.Post("/{id}/reopen", bookingHandler.ReopenBooking)
	})
}
