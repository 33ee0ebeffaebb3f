package repository

import (
	"venue-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Admin        AdminRepository
	Session      SessionRepository
	FunctionType FunctionTypeRepository
	Booking      BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Admin:        NewAdminRepository(db, log),
		Session:      NewSessionRepository(db, log),
		FunctionType: NewFunctionTypeRepository(db, log),
		Booking:      NewBookingRepository(db, log),
	}
}
