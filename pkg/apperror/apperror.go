package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who caused it and how a caller should react.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// Machine-readable error codes.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidID               = "INVALID_ID"
	CodeInvalidDate             = "INVALID_DATE"
	CodeInvalidTimeFormat       = "INVALID_TIME_FORMAT"
	CodeInvalidTimeRange        = "INVALID_TIME_RANGE"
	CodeInvalidDuration         = "INVALID_DURATION"
	CodeOutsideWorkingHours     = "OUTSIDE_WORKING_HOURS"
	CodeFunctionTypeRequired    = "FUNCTION_TYPE_REQUIRED"
	CodeFunctionTypeNotFound    = "FUNCTION_TYPE_NOT_FOUND"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeTimeSlotConflict        = "TIME_SLOT_CONFLICT"
	CodeDuplicateName           = "DUPLICATE_NAME"
	CodeDuplicateSlug           = "DUPLICATE_SLUG"
	CodeActiveBookingsExist     = "ACTIVE_BOOKINGS_EXIST"
	CodeBookingNotFound         = "BOOKING_NOT_FOUND"
	CodeNotFound                = "NOT_FOUND"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInternal                = "INTERNAL_ERROR"
)

// Error is the error type returned by the service layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of e carrying structured details for the client.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf reports the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
