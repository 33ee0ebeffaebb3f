package usecase

import (
	"fmt"
	"time"

	"venue-booking/pkg/apperror"
	"venue-booking/pkg/timeutil"
	"venue-booking/pkg/utils"
)

// BookingRules holds the admission policy every booking must satisfy before
// it is compared against the accepted schedule.
type BookingRules struct {
	MinDurationMinutes int
	MaxDurationMinutes int
	WorkingStart       timeutil.Clock
	WorkingEnd         timeutil.Clock
	AdvanceDays        int
	Location           *time.Location
}

// DefaultBookingRules is the reference venue policy: 2 to 12 hours between
// 08:00 and 22:00, any future date.
func DefaultBookingRules() BookingRules {
	return BookingRules{
		MinDurationMinutes: 2 * 60,
		MaxDurationMinutes: 12 * 60,
		WorkingStart:       timeutil.MustParseClock("08:00"),
		WorkingEnd:         timeutil.MustParseClock("22:00"),
		Location:           time.UTC,
	}
}

func NewBookingRules(cfg utils.BookingConfig, loc *time.Location) (BookingRules, error) {
	start, err := timeutil.ParseClock(cfg.WorkingStart)
	if err != nil {
		return BookingRules{}, fmt.Errorf("working start: %w", err)
	}
	end, err := timeutil.ParseClock(cfg.WorkingEnd)
	if err != nil {
		return BookingRules{}, fmt.Errorf("working end: %w", err)
	}
	if end.Minutes() <= start.Minutes() {
		return BookingRules{}, fmt.Errorf("working hours %s-%s are empty", start, end)
	}
	if cfg.MinDurationHours <= 0 || cfg.MaxDurationHours < cfg.MinDurationHours {
		return BookingRules{}, fmt.Errorf("invalid duration bounds %d-%d hours", cfg.MinDurationHours, cfg.MaxDurationHours)
	}
	if loc == nil {
		loc = time.UTC
	}

	return BookingRules{
		MinDurationMinutes: cfg.MinDurationHours * 60,
		MaxDurationMinutes: cfg.MaxDurationHours * 60,
		WorkingStart:       start,
		WorkingEnd:         end,
		AdvanceDays:        max(cfg.AdvanceDays, 0),
		Location:           loc,
	}, nil
}

// ParseEventDate reads a calendar date in the venue timezone.
func (r BookingRules) ParseEventDate(s string) (time.Time, error) {
	date, err := timeutil.ParseDate(s, r.Location)
	if err != nil {
		return time.Time{}, apperror.Validation(apperror.CodeInvalidDate,
			"Event date must be a date in YYYY-MM-DD format")
	}
	return date, nil
}

// ValidateEventDate requires the event date to lie strictly after now, and at
// least AdvanceDays ahead when that is configured.
func (r BookingRules) ValidateEventDate(date, now time.Time) error {
	if !date.After(now) {
		return apperror.Validation(apperror.CodeInvalidDate, "Event date must be in the future")
	}

	if r.AdvanceDays > 0 {
		earliest := timeutil.DateOnly(now, r.Location).AddDate(0, 0, r.AdvanceDays)
		if date.Before(earliest) {
			return apperror.Validation(apperror.CodeInvalidDate,
				fmt.Sprintf("Bookings must be made at least %d day(s) in advance", r.AdvanceDays))
		}
	}

	return nil
}

// ValidateTimeRange parses both endpoints and checks order and duration.
func (r BookingRules) ValidateTimeRange(startStr, endStr string) (timeutil.Clock, timeutil.Clock, error) {
	start, err := timeutil.ParseClock(startStr)
	if err != nil {
		return timeutil.Clock{}, timeutil.Clock{}, apperror.Validation(apperror.CodeInvalidTimeFormat,
			"Start time must be in HH:MM format")
	}
	end, err := timeutil.ParseClock(endStr)
	if err != nil {
		return timeutil.Clock{}, timeutil.Clock{}, apperror.Validation(apperror.CodeInvalidTimeFormat,
			"End time must be in HH:MM format")
	}

	if end.Minutes() <= start.Minutes() {
		return timeutil.Clock{}, timeutil.Clock{}, apperror.Validation(apperror.CodeInvalidTimeRange,
			"End time must be after start time")
	}

	duration := end.Minutes() - start.Minutes()
	if duration < r.MinDurationMinutes || duration > r.MaxDurationMinutes {
		return timeutil.Clock{}, timeutil.Clock{}, apperror.Validation(apperror.CodeInvalidDuration,
			fmt.Sprintf("Booking duration must be between %s and %s hours",
				formatHours(r.MinDurationMinutes), formatHours(r.MaxDurationMinutes)))
	}

	return start, end, nil
}

func (r BookingRules) ValidateWorkingHours(start, end timeutil.Clock) error {
	if !timeutil.IsInRange(start, r.WorkingStart, r.WorkingEnd) ||
		!timeutil.IsInRange(end, r.WorkingStart, r.WorkingEnd) {
		return apperror.Validation(apperror.CodeOutsideWorkingHours,
			fmt.Sprintf("Bookings must be between %s and %s", r.WorkingStart, r.WorkingEnd))
	}
	return nil
}

// slot is a validated booking window.
type slot struct {
	Date  time.Time
	Start timeutil.Clock
	End   timeutil.Clock
}

// Validate runs the date, time range and working hours checks in that order.
func (r BookingRules) Validate(dateStr, startStr, endStr string, now time.Time) (slot, error) {
	date, err := r.ParseEventDate(dateStr)
	if err != nil {
		return slot{}, err
	}
	if err := r.ValidateEventDate(date, now); err != nil {
		return slot{}, err
	}

	start, end, err := r.ValidateTimeRange(startStr, endStr)
	if err != nil {
		return slot{}, err
	}
	if err := r.ValidateWorkingHours(start, end); err != nil {
		return slot{}, err
	}

	return slot{Date: date, Start: start, End: end}, nil
}

func formatHours(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%d", minutes/60)
	}
	return fmt.Sprintf("%.2f", float64(minutes)/60)
}
