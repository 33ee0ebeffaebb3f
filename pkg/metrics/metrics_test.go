package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New("test")

	m.BookingOutcome("create", "ok")
	m.BookingOutcome("create", "ok")
	m.SlotConflict()
	m.Notification("email", "customerAccepted", "sent")
	m.NotificationDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Bookings.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("email", "customerAccepted", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyDropped))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingOutcome("create", "ok")
		m.SlotConflict()
		m.Notification("sms", "customerRejected", "failed")
		m.NotificationDropped()
	})
}
