package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/database"
	"venue-booking/pkg/timeutil"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error)
	Count(ctx context.Context, filter entity.BookingFilter) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Scheduling queries
	FindAcceptedOnDate(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	LockDate(ctx context.Context, date time.Time) error

	// Catalog guards
	CountByFunctionType(ctx context.Context, functionTypeID uuid.UUID) (entity.BookingCounts, error)
	DeleteRejectedByFunctionType(ctx context.Context, functionTypeID uuid.UUID) (int64, error)
}

var bookingColumns = []string{
	"id", "customer_name", "customer_email", "customer_phone",
	"function_type_id", "function_type_custom", "function_type_label",
	"event_date", "start_time", "end_time", "start_minute", "end_minute",
	"additional_notes", "admin_note", "status", "created_at", "updated_at",
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.FunctionTypeID,
		&b.FunctionTypeCustom,
		&b.FunctionTypeLabel,
		&b.EventDate,
		&b.StartTime,
		&b.EndTime,
		&b.StartMinute,
		&b.EndMinute,
		&b.AdditionalNotes,
		&b.AdminNote,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query, args, err := database.Builder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			booking.ID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.FunctionTypeID,
			booking.FunctionTypeCustom,
			booking.FunctionTypeLabel,
			booking.EventDate,
			booking.StartTime,
			booking.EndTime,
			booking.StartMinute,
			booking.EndMinute,
			booking.AdditionalNotes,
			booking.AdminNote,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query: %w", err)
	}

	if _, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("event_date", booking.EventDate.Format(timeutil.DateFormat)),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query, args, err := database.Builder.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find booking query: %w", err)
	}

	booking, err := scanBooking(database.GetExecutor(ctx, r.db).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func applyBookingFilter(b sq.SelectBuilder, filter entity.BookingFilter) sq.SelectBuilder {
	if filter.Status != nil {
		b = b.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		b = b.Where(sq.GtOrEq{"event_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(sq.LtOrEq{"event_date": *filter.DateTo})
	}
	if filter.CustomerEmail != "" {
		b = b.Where(sq.Eq{"customer_email": filter.CustomerEmail})
	}
	if filter.FunctionTypeID != nil {
		b = b.Where(sq.Eq{"function_type_id": *filter.FunctionTypeID})
	}
	return b
}

func listBookingsQuery(filter entity.BookingFilter) sq.SelectBuilder {
	b := applyBookingFilter(database.Builder.Select(bookingColumns...).From("bookings"), filter).
		OrderBy("event_date ASC", "start_minute ASC", "created_at ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}
	return b
}

func (r *bookingRepository) FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	query, args, err := listBookingsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query: %w", err)
	}

	return r.queryBookings(ctx, "list bookings", query, args...)
}

func (r *bookingRepository) Count(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	query, args, err := applyBookingFilter(database.Builder.Select("COUNT(*)").From("bookings"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query: %w", err)
	}

	var count int64
	if err := database.GetExecutor(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query, args, err := database.Builder.Update("bookings").
		Set("status", booking.Status).
		Set("admin_note", booking.AdminNote).
		Set("function_type_id", booking.FunctionTypeID).
		Set("updated_at", booking.UpdatedAt).
		Where(sq.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query: %w", err)
	}

	result, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s: %w", booking.ID, pgx.ErrNoRows)
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete booking %s: %w", id, pgx.ErrNoRows)
	}

	return nil
}

func acceptedOnDateQuery(date time.Time, excludeID *uuid.UUID) sq.SelectBuilder {
	b := database.Builder.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{
			"event_date": date.Format(timeutil.DateFormat),
			"status":     entity.BookingStatusAccepted,
		}).
		OrderBy("start_minute ASC")
	if excludeID != nil {
		b = b.Where(sq.NotEq{"id": *excludeID})
	}
	return b
}

func (r *bookingRepository) FindAcceptedOnDate(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query, args, err := acceptedOnDateQuery(date, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build accepted bookings query: %w", err)
	}

	return r.queryBookings(ctx, "find accepted bookings on date", query, args...)
}

// LockDate serializes admission for one calendar date until the surrounding
// transaction ends.
func (r *bookingRepository) LockDate(ctx context.Context, date time.Time) error {
	key := date.Format(timeutil.DateFormat)
	if _, err := database.GetExecutor(ctx, r.db).Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, "booking-date:"+key,
	); err != nil {
		r.log.Error("Failed to lock booking date", zap.Error(err), zap.String("event_date", key))
		return fmt.Errorf("lock booking date %s: %w", key, err)
	}
	return nil
}

func (r *bookingRepository) CountByFunctionType(ctx context.Context, functionTypeID uuid.UUID) (entity.BookingCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'ACCEPTED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COUNT(*)
		FROM bookings
		WHERE function_type_id = $1
	`

	var counts entity.BookingCounts
	err := database.GetExecutor(ctx, r.db).QueryRow(ctx, query, functionTypeID).Scan(
		&counts.Pending,
		&counts.Accepted,
		&counts.Rejected,
		&counts.Total,
	)
	if err != nil {
		r.log.Error("Failed to count bookings by function type",
			zap.Error(err),
			zap.String("function_type_id", functionTypeID.String()),
		)
		return entity.BookingCounts{}, fmt.Errorf("count bookings by function type %s: %w", functionTypeID, err)
	}

	return counts, nil
}

func (r *bookingRepository) DeleteRejectedByFunctionType(ctx context.Context, functionTypeID uuid.UUID) (int64, error) {
	query := `DELETE FROM bookings WHERE function_type_id = $1 AND status = 'REJECTED'`

	result, err := database.GetExecutor(ctx, r.db).Exec(ctx, query, functionTypeID)
	if err != nil {
		r.log.Error("Failed to delete rejected bookings",
			zap.Error(err),
			zap.String("function_type_id", functionTypeID.String()),
		)
		return 0, fmt.Errorf("delete rejected bookings of function type %s: %w", functionTypeID, err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, op, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := database.GetExecutor(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}
