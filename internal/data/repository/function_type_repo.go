package repository

import (
	"context"
	"errors"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FunctionTypeRepository interface {
	Create(ctx context.Context, ft *entity.FunctionType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FunctionType, error)
	FindByName(ctx context.Context, name string) (*entity.FunctionType, error)
	FindBySlug(ctx context.Context, slug string) (*entity.FunctionType, error)
	FindAll(ctx context.Context, includeInactive bool) ([]*entity.FunctionType, error)
	Update(ctx context.Context, ft *entity.FunctionType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var functionTypeColumns = []string{
	"id", "name", "slug", "price", "description", "is_active", "created_at", "updated_at",
}

type functionTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFunctionTypeRepository(db database.PgxIface, log *zap.Logger) FunctionTypeRepository {
	return &functionTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "function_type")),
	}
}

func scanFunctionType(row pgx.Row) (*entity.FunctionType, error) {
	var ft entity.FunctionType
	err := row.Scan(
		&ft.ID,
		&ft.Name,
		&ft.Slug,
		&ft.Price,
		&ft.Description,
		&ft.IsActive,
		&ft.CreatedAt,
		&ft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

func (r *functionTypeRepository) Create(ctx context.Context, ft *entity.FunctionType) error {
	query, args, err := database.Builder.Insert("function_types").
		Columns(functionTypeColumns...).
		Values(ft.ID, ft.Name, ft.Slug, ft.Price, ft.Description, ft.IsActive, ft.CreatedAt, ft.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert function type query: %w", err)
	}

	if _, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to create function type",
			zap.Error(err),
			zap.String("name", ft.Name),
			zap.String("slug", ft.Slug),
		)
		return fmt.Errorf("create function type %q: %w", ft.Name, err)
	}

	return nil
}

func (r *functionTypeRepository) findOne(ctx context.Context, field string, value any) (*entity.FunctionType, error) {
	query, args, err := database.Builder.Select(functionTypeColumns...).
		From("function_types").
		Where(sq.Eq{field: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find function type query: %w", err)
	}

	ft, err := scanFunctionType(database.GetExecutor(ctx, r.db).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find function type",
			zap.Error(err),
			zap.String("field", field),
			zap.Any("value", value),
		)
		return nil, fmt.Errorf("find function type by %s: %w", field, err)
	}

	return ft, nil
}

func (r *functionTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FunctionType, error) {
	return r.findOne(ctx, "id", id)
}

func (r *functionTypeRepository) FindByName(ctx context.Context, name string) (*entity.FunctionType, error) {
	return r.findOne(ctx, "name", name)
}

func (r *functionTypeRepository) FindBySlug(ctx context.Context, slug string) (*entity.FunctionType, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *functionTypeRepository) FindAll(ctx context.Context, includeInactive bool) ([]*entity.FunctionType, error) {
	b := database.Builder.Select(functionTypeColumns...).
		From("function_types").
		OrderBy("name ASC")
	if !includeInactive {
		b = b.Where(sq.Eq{"is_active": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list function types query: %w", err)
	}

	rows, err := database.GetExecutor(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list function types", zap.Error(err))
		return nil, fmt.Errorf("list function types: %w", err)
	}
	defer rows.Close()

	types := make([]*entity.FunctionType, 0)
	for rows.Next() {
		ft, err := scanFunctionType(rows)
		if err != nil {
			r.log.Error("Failed to scan function type row", zap.Error(err))
			return nil, fmt.Errorf("scan function type row: %w", err)
		}
		types = append(types, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list function types: %w", err)
	}

	return types, nil
}

func (r *functionTypeRepository) Update(ctx context.Context, ft *entity.FunctionType) error {
	query, args, err := database.Builder.Update("function_types").
		SetMap(map[string]any{
			"name":        ft.Name,
			"slug":        ft.Slug,
			"price":       ft.Price,
			"description": ft.Description,
			"is_active":   ft.IsActive,
			"updated_at":  ft.UpdatedAt,
		}).
		Where(sq.Eq{"id": ft.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update function type query: %w", err)
	}

	result, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update function type",
			zap.Error(err),
			zap.String("function_type_id", ft.ID.String()),
		)
		return fmt.Errorf("update function type %s: %w", ft.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update function type %s: %w", ft.ID, pgx.ErrNoRows)
	}

	return nil
}

func (r *functionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM function_types WHERE id = $1`

	result, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete function type",
			zap.Error(err),
			zap.String("function_type_id", id.String()),
		)
		return fmt.Errorf("delete function type %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete function type %s: %w", id, pgx.ErrNoRows)
	}

	return nil
}
