package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusAccepted BookingStatus = "ACCEPTED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusRejected:
		return true
	}
	return false
}

// Booking is a reservation request for the venue. Exactly one of
// FunctionTypeID and FunctionTypeCustom is set at creation; the catalog
// reference may later be cleared when its function type is deleted.
type Booking struct {
	BaseNoDelete
	CustomerName       string        `db:"customer_name"`
	CustomerEmail      string        `db:"customer_email"`
	CustomerPhone      string        `db:"customer_phone"`
	FunctionTypeID     *uuid.UUID    `db:"function_type_id"`
	FunctionTypeCustom *string       `db:"function_type_custom"`
	FunctionTypeLabel  string        `db:"function_type_label"`
	EventDate          time.Time     `db:"event_date"`
	StartTime          string        `db:"start_time"`
	EndTime            string        `db:"end_time"`
	StartMinute        int           `db:"start_minute"`
	EndMinute          int           `db:"end_minute"`
	AdditionalNotes    *string       `db:"additional_notes"`
	AdminNote          *string       `db:"admin_note"`
	Status             BookingStatus `db:"status"`
}

// BookingFilter narrows admin listings. Zero values mean "any".
type BookingFilter struct {
	Status         *BookingStatus
	DateFrom       *time.Time
	DateTo         *time.Time
	CustomerEmail  string
	FunctionTypeID *uuid.UUID
	Limit          int
	Offset         int
}

// BookingCounts breaks the bookings of one function type down by status.
type BookingCounts struct {
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// Active is the number of bookings that block catalog changes.
func (c BookingCounts) Active() int64 {
	return c.Pending + c.Accepted
}
