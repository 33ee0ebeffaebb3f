package request

// CreateBookingRequest is the public booking submission. Exactly one of
// FunctionTypeID and FunctionTypeCustom must be given.
type CreateBookingRequest struct {
	CustomerName       string  `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail      string  `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone      string  `json:"customer_phone" validate:"required,min=7,max=32"`
	FunctionTypeID     *string `json:"function_type_id,omitempty" validate:"omitempty,uuid"`
	FunctionTypeCustom *string `json:"function_type_custom,omitempty" validate:"omitempty,max=100"`
	EventDate          string  `json:"event_date" validate:"required"`
	StartTime          string  `json:"start_time" validate:"required"`
	EndTime            string  `json:"end_time" validate:"required"`
	AdditionalNotes    *string `json:"additional_notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateBookingStatusRequest struct {
	Status    string  `json:"status" validate:"required"`
	AdminNote *string `json:"admin_note,omitempty" validate:"omitempty,max=1000"`
}

type ReopenBookingRequest struct {
	AdminNote *string `json:"admin_note,omitempty" validate:"omitempty,max=1000"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	Status         string `json:"status"`
	DateFrom       string `json:"date_from"`
	DateTo         string `json:"date_to"`
	CustomerEmail  string `json:"customer_email" validate:"omitempty,email"`
	FunctionTypeID string `json:"function_type_id" validate:"omitempty,uuid"`
}

type AvailabilityRequest struct {
	EventDate string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}
