package usecase

import (
	"context"

	"venue-booking/internal/notify"
)

// TxManager runs fn in one serializable transaction.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier accepts messages for background delivery. It must not block.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}
