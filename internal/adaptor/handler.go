package adaptor

import (
	"venue-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Booking      *BookingHandler
	FunctionType *FunctionTypeHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Booking:      NewBookingHandler(service.Booking, log),
		FunctionType: NewFunctionTypeHandler(service.FunctionType, log),
	}
}
