package repository

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
}

type adminRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAdminRepository(db database.PgxIface, log *zap.Logger) AdminRepository {
	return &adminRepository{
		db:  db,
		log: log.With(zap.String("repository", "admin")),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.GetExecutor(ctx, r.db).Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create admin",
			zap.Error(err),
			zap.String("email", admin.Email),
		)
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}

	return nil
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.findOne(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admins
		WHERE id = $1
	`, id)
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.findOne(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admins
		WHERE LOWER(email) = LOWER($1)
	`, email)
}

func (r *adminRepository) findOne(ctx context.Context, query string, arg any) (*entity.Admin, error) {
	var admin entity.Admin
	err := database.GetExecutor(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find admin", zap.Error(err))
		return nil, fmt.Errorf("find admin: %w", err)
	}

	return &admin, nil
}
