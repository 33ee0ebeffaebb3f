package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every pending embedded migration. A session advisory lock
// keeps concurrently starting instances from migrating at the same time.
func Migrate(ctx context.Context, db PgxIface, log *zap.Logger) error {
	log = log.With(zap.String("component", "migrate"))

	conn, ok := db.(*DB)
	if !ok {
		return errors.New("migrate: database is not a pgx pool")
	}

	sqlDB := stdlib.OpenDBFromPool(conn.pool)
	defer sqlDB.Close()

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("create migration locker: %w", err)
	}

	provider, err := newMigrationProvider(sqlDB, log, goose.WithSessionLocker(locker))
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		log.Info("Migration applied",
			zap.String("source", res.Source.Path),
			zap.Int64("version", res.Source.Version),
			zap.Duration("duration", res.Duration),
		)
	}

	return nil
}

func newMigrationProvider(db *sql.DB, log *zap.Logger, opts ...goose.ProviderOption) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	opts = append(opts, goose.WithLogger(gooseLogger{log: log.Sugar()}))
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys, opts...)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}
