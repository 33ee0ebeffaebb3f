// Package notify delivers booking notifications in the background. Delivery
// is best effort: failures are retried a bounded number of times and then
// logged, never reported back to the code that enqueued the message.
package notify

type Kind string

const (
	KindAdminNewBooking  Kind = "adminNewBooking"
	KindCustomerAccepted Kind = "customerAccepted"
	KindCustomerRejected Kind = "customerRejected"
)

// CustomerFacing reports whether the message goes to the person who booked.
func (k Kind) CustomerFacing() bool {
	return k == KindCustomerAccepted || k == KindCustomerRejected
}

// BookingFields is the booking snapshot rendered into templates.
type BookingFields struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	FunctionType    string
	EventDate       string
	StartTime       string
	EndTime         string
	AdditionalNotes string
	AdminNote       string
	Status          string
}

type Message struct {
	Kind      Kind
	Recipient string
	Phone     string
	Booking   BookingFields
}
