package usecase

import (
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Booking      BookingService
	FunctionType FunctionTypeService
}

func NewService(
	repo *repository.Repository,
	tx TxManager,
	notifier Notifier,
	config *utils.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) (*Service, error) {
	rules, err := NewBookingRules(config.Booking, config.App.Location())
	if err != nil {
		return nil, err
	}

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Booking:      NewBookingService(repo, tx, notifier, rules, config.Email.AdminEmail, m, log),
		FunctionType: NewFunctionTypeService(repo, tx, log),
	}, nil
}
