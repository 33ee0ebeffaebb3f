package response

import (
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/timeutil"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	CustomerName       string               `json:"customer_name"`
	CustomerEmail      string               `json:"customer_email"`
	CustomerPhone      string               `json:"customer_phone"`
	FunctionTypeID     *string              `json:"function_type_id"`
	FunctionTypeCustom *string              `json:"function_type_custom"`
	FunctionTypeLabel  string               `json:"function_type_label"`
	EventDate          string               `json:"event_date"`
	StartTime          string               `json:"start_time"`
	EndTime            string               `json:"end_time"`
	DurationHours      float64              `json:"duration_hours"`
	AdditionalNotes    *string              `json:"additional_notes,omitempty"`
	AdminNote          *string              `json:"admin_note,omitempty"`
	Status             entity.BookingStatus `json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ConflictingBooking identifies an accepted booking that overlaps a request.
type ConflictingBooking struct {
	ID                string `json:"id"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	FunctionTypeLabel string `json:"function_type_label"`
}

type ConflictDetails struct {
	EventDate string               `json:"event_date"`
	Conflicts []ConflictingBooking `json:"conflicts"`
}

type AvailabilityResponse struct {
	EventDate string               `json:"event_date"`
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	Available bool                 `json:"available"`
	Conflicts []ConflictingBooking `json:"conflicts"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID.String(),
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		FunctionTypeCustom: b.FunctionTypeCustom,
		FunctionTypeLabel:  b.FunctionTypeLabel,
		EventDate:          b.EventDate.Format(timeutil.DateFormat),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationHours:      timeutil.DurationHours(timeutil.ClockFromMinutes(b.StartMinute), timeutil.ClockFromMinutes(b.EndMinute)),
		AdditionalNotes:    b.AdditionalNotes,
		AdminNote:          b.AdminNote,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.FunctionTypeID != nil {
		id := b.FunctionTypeID.String()
		resp.FunctionTypeID = &id
	}

	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}

func ToConflictingBookings(bookings []*entity.Booking) []ConflictingBooking {
	out := make([]ConflictingBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ConflictingBooking{
			ID:                b.ID.String(),
			StartTime:         b.StartTime,
			EndTime:           b.EndTime,
			FunctionTypeLabel: b.FunctionTypeLabel,
		})
	}
	return out
}
