package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const maxSerializableAttempts = 3

type txKey struct{}

// TxManager runs a function inside a SERIALIZABLE transaction. The transaction
// travels in the context; repositories pick it up through GetExecutor.
type TxManager struct {
	db  PgxIface
	log *zap.Logger
}

func NewTxManager(db PgxIface, log *zap.Logger) *TxManager {
	return &TxManager{db: db, log: log.With(zap.String("component", "tx_manager"))}
}

// DoSerializable commits fn's work or rolls it back. Serialization failures are
// retried from scratch, so fn must be safe to run more than once.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	// already inside a transaction, join it
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !IsSerializationFailure(err) {
			return err
		}
		m.log.Warn("serialization failure, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return err
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.log.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetExecutor returns the transaction stored in ctx, or db when there is none.
func GetExecutor(ctx context.Context, db Executor) Executor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
