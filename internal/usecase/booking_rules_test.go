package usecase

import (
	"testing"
	"time"

	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireAppError(t *testing.T, err error, kind apperror.Kind, code string) *apperror.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %T: %v", err, err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestBookingRules_EventDate(t *testing.T) {
	rules := DefaultBookingRules()

	cases := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "yesterday", date: "2026-05-31", wantErr: true},
		{name: "today", date: "2026-06-01", wantErr: true},
		{name: "tomorrow", date: "2026-06-02"},
		{name: "next year", date: "2027-01-15"},
		{name: "rfc3339", date: "2026-06-10T00:00:00Z"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.Validate(tc.date, "10:00", "12:00", testNow)
			if tc.wantErr {
				requireAppError(t, err, apperror.KindValidation, apperror.CodeInvalidDate)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBookingRules_MalformedDate(t *testing.T) {
	_, err := DefaultBookingRules().Validate("10/06/2026", "10:00", "12:00", testNow)
	requireAppError(t, err, apperror.KindValidation, apperror.CodeInvalidDate)
}

func TestBookingRules_AdvanceDays(t *testing.T) {
	rules := DefaultBookingRules()
	rules.AdvanceDays = 3

	_, err := rules.Validate("2026-06-03", "10:00", "12:00", testNow)
	requireAppError(t, err, apperror.KindValidation, apperror.CodeInvalidDate)

	_, err = rules.Validate("2026-06-04", "10:00", "12:00", testNow)
	require.NoError(t, err)
}

func TestBookingRules_TimeRange(t *testing.T) {
	rules := DefaultBookingRules()

	cases := []struct {
		name     string
		start    string
		end      string
		wantCode string
	}{
		{name: "exactly minimum", start: "10:00", end: "12:00"},
		{name: "one minute short", start: "10:00", end: "11:59", wantCode: apperror.CodeInvalidDuration},
		{name: "exactly maximum", start: "08:00", end: "20:00"},
		{name: "one minute over", start: "08:00", end: "20:01", wantCode: apperror.CodeInvalidDuration},
		{name: "zero length", start: "12:00", end: "12:00", wantCode: apperror.CodeInvalidTimeRange},
		{name: "reversed", start: "14:00", end: "12:00", wantCode: apperror.CodeInvalidTimeRange},
		{name: "bad start", start: "9am", end: "12:00", wantCode: apperror.CodeInvalidTimeFormat},
		{name: "bad end", start: "10:00", end: "25:00", wantCode: apperror.CodeInvalidTimeFormat},
		{name: "single digit hour", start: "9:30", end: "11:30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sl, err := rules.Validate("2026-06-10", tc.start, tc.end, testNow)
			if tc.wantCode != "" {
				requireAppError(t, err, apperror.KindValidation, tc.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Greater(t, sl.End.Minutes(), sl.Start.Minutes())
		})
	}
}

func TestBookingRules_WorkingHours(t *testing.T) {
	rules := DefaultBookingRules()

	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "opens at start", start: "08:00", end: "10:00"},
		{name: "ends at close", start: "20:00", end: "22:00"},
		{name: "starts before open", start: "07:59", end: "10:00", wantErr: true},
		{name: "ends after close", start: "20:00", end: "22:01", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.Validate("2026-06-10", tc.start, tc.end, testNow)
			if tc.wantErr {
				requireAppError(t, err, apperror.KindValidation, apperror.CodeOutsideWorkingHours)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewBookingRules(t *testing.T) {
	valid := utils.BookingConfig{
		MinDurationHours: 1,
		MaxDurationHours: 6,
		WorkingStart:     "09:00",
		WorkingEnd:       "18:00",
		AdvanceDays:      -2,
	}

	rules, err := NewBookingRules(valid, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, rules.MinDurationMinutes)
	assert.Equal(t, 360, rules.MaxDurationMinutes)
	assert.Equal(t, 0, rules.AdvanceDays)
	assert.Equal(t, time.UTC, rules.Location)

	broken := []struct {
		name string
		edit func(c *utils.BookingConfig)
	}{
		{name: "bad start", edit: func(c *utils.BookingConfig) { c.WorkingStart = "nine" }},
		{name: "bad end", edit: func(c *utils.BookingConfig) { c.WorkingEnd = "18.00" }},
		{name: "empty window", edit: func(c *utils.BookingConfig) { c.WorkingEnd = "09:00" }},
		{name: "zero minimum", edit: func(c *utils.BookingConfig) { c.MinDurationHours = 0 }},
		{name: "max below min", edit: func(c *utils.BookingConfig) { c.MaxDurationHours = 0 }},
	}
	for _, tc := range broken {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.edit(&cfg)
			_, err := NewBookingRules(cfg, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestDateLocker_ReleasesEntries(t *testing.T) {
	locks := newDateLocker()

	unlockA := locks.Lock("2026-06-10")
	unlockB := locks.Lock("2026-06-11")
	assert.Equal(t, 2, locks.size())

	unlockA()
	unlockB()
	assert.Equal(t, 0, locks.size())
}

func TestDateLocker_SerializesSameKey(t *testing.T) {
	locks := newDateLocker()
	unlock := locks.Lock("2026-06-10")

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("2026-06-10")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a locked date")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the date")
	}
}
