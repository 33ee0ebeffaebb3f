package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type FunctionTypeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Price       float64   `json:"price"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FunctionTypeMutationResponse reports the rejected bookings removed as a
// side effect of an update or deactivation.
type FunctionTypeMutationResponse struct {
	FunctionType            FunctionTypeResponse `json:"function_type"`
	DeletedRejectedBookings int64                `json:"deleted_rejected_bookings"`
	Warning                 *string              `json:"warning,omitempty"`
}

// ActiveBookingsDetail explains why a catalog change was refused.
type ActiveBookingsDetail struct {
	FunctionTypeID string               `json:"function_type_id"`
	Bookings       entity.BookingCounts `json:"bookings"`
}

func FunctionTypeToResponse(ft *entity.FunctionType) FunctionTypeResponse {
	return FunctionTypeResponse{
		ID:          ft.ID.String(),
		Name:        ft.Name,
		Slug:        ft.Slug,
		Price:       ft.Price,
		Description: ft.Description,
		IsActive:    ft.IsActive,
		CreatedAt:   ft.CreatedAt,
		UpdatedAt:   ft.UpdatedAt,
	}
}

func FunctionTypesToResponse(types []*entity.FunctionType) []FunctionTypeResponse {
	out := make([]FunctionTypeResponse, 0, len(types))
	for _, ft := range types {
		out = append(out, FunctionTypeToResponse(ft))
	}
	return out
}
