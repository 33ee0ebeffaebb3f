package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/notify"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/database"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/timeutil"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)

	// Admin
	GetBookingByID(ctx context.Context, id string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBookingStatus(ctx context.Context, id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	ReopenBooking(ctx context.Context, id string, req *request.ReopenBookingRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, id string) error
}

// allowedTransitions lists the status changes an admin may make through
// UpdateBookingStatus. Setting the current status again only updates the
// note. Moving back to PENDING goes through ReopenBooking.
var allowedTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending:  {entity.BookingStatusAccepted, entity.BookingStatusRejected},
	entity.BookingStatusAccepted: {entity.BookingStatusRejected},
	entity.BookingStatusRejected: {},
}

func canTransition(from, to entity.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type bookingService struct {
	repo       *repository.Repository
	tx         TxManager
	notifier   Notifier
	rules      BookingRules
	locks      *dateLocker
	adminEmail string
	metrics    *metrics.Metrics
	now        func() time.Time
	log        *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	tx TxManager,
	notifier Notifier,
	rules BookingRules,
	adminEmail string,
	m *metrics.Metrics,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:       repo,
		tx:         tx,
		notifier:   notifier,
		rules:      rules,
		locks:      newDateLocker(),
		adminEmail: adminEmail,
		metrics:    m,
		now:        time.Now,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	booking, err := s.createBooking(ctx, req)
	s.record("create", err)
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_date", booking.EventDate.Format(timeutil.DateFormat)),
		zap.String("start_time", booking.StartTime),
		zap.String("end_time", booking.EndTime),
	)

	if s.adminEmail != "" {
		s.notify(notify.KindAdminNewBooking, s.adminEmail, "", booking)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) createBooking(ctx context.Context, req *request.CreateBookingRequest) (*entity.Booking, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationFailed(errs)
	}

	functionTypeIDStr := trimmed(req.FunctionTypeID)
	custom := trimmed(req.FunctionTypeCustom)
	if (functionTypeIDStr == "") == (custom == "") {
		return nil, apperror.Validation(apperror.CodeFunctionTypeRequired,
			"Provide either function_type_id or function_type_custom, but not both")
	}

	sl, err := s.rules.Validate(req.EventDate, req.StartTime, req.EndTime, s.now())
	if err != nil {
		return nil, err
	}

	var functionTypeID *uuid.UUID
	if functionTypeIDStr != "" {
		id, err := uuid.Parse(functionTypeIDStr)
		if err != nil {
			return nil, apperror.Validation(apperror.CodeInvalidID, "Invalid function type ID")
		}
		functionTypeID = &id
	}

	now := s.now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		FunctionTypeID:  functionTypeID,
		EventDate:       sl.Date,
		StartTime:       sl.Start.String(),
		EndTime:         sl.End.String(),
		StartMinute:     sl.Start.Minutes(),
		EndMinute:       sl.End.Minutes(),
		AdditionalNotes: utils.StringPtr(derefString(req.AdditionalNotes)),
		Status:          entity.BookingStatusPending,
	}
	if custom != "" {
		booking.FunctionTypeCustom = &custom
		booking.FunctionTypeLabel = custom
	}

	unlock := s.locks.Lock(dateKey(sl.Date))
	defer unlock()

	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.repo.Booking.LockDate(ctx, sl.Date); err != nil {
			return err
		}

		if functionTypeID != nil {
			ft, err := s.repo.FunctionType.FindByID(ctx, *functionTypeID)
			if err != nil {
				return err
			}
			if ft == nil || !ft.IsActive {
				return apperror.Validation(apperror.CodeFunctionTypeNotFound,
					"Selected function type does not exist or is not available")
			}
			booking.FunctionTypeLabel = ft.Name
		}

		if err := s.ensureSlotFree(ctx, sl.Date, booking.StartMinute, booking.EndMinute, nil); err != nil {
			return err
		}

		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		return nil, s.storeError("create booking", err)
	}

	return booking, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	sl, err := s.rules.Validate(req.EventDate, req.StartTime, req.EndTime, s.now())
	if err != nil {
		return nil, err
	}

	conflicts, err := s.findConflicts(ctx, sl.Date, sl.Start.Minutes(), sl.End.Minutes(), nil)
	if err != nil {
		return nil, s.storeError("check availability", err)
	}

	return &response.AvailabilityResponse{
		EventDate: sl.Date.Format(timeutil.DateFormat),
		StartTime: sl.Start.String(),
		EndTime:   sl.End.String(),
		Available: len(conflicts) == 0,
		Conflicts: response.ToConflictingBookings(conflicts),
	}, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id string) (*response.BookingResponse, error) {
	bookingID, err := parseID(id, "booking")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, s.storeError("get booking", err)
	}
	if booking == nil {
		return nil, bookingNotFound()
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	filter := entity.BookingFilter{
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Limit:         req.Limit(),
		Offset:        req.Offset(),
	}

	if req.Status != "" {
		status, err := parseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	for _, bound := range []struct {
		raw  string
		dest **time.Time
	}{{req.DateFrom, &filter.DateFrom}, {req.DateTo, &filter.DateTo}} {
		if bound.raw == "" {
			continue
		}
		date, err := s.rules.ParseEventDate(bound.raw)
		if err != nil {
			return nil, err
		}
		*bound.dest = &date
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperror.Validation(apperror.CodeInvalidDate, "date_from must not be after date_to")
	}

	if req.FunctionTypeID != "" {
		id, err := parseID(req.FunctionTypeID, "function type")
		if err != nil {
			return nil, err
		}
		filter.FunctionTypeID = &id
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		return nil, s.storeError("list bookings", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, s.storeError("count bookings", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.CurrentPage(), req.Limit(), total), nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	bookingID, err := parseID(id, "booking")
	if err != nil {
		return nil, err
	}

	target, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if target == entity.BookingStatusPending {
		return s.ReopenBooking(ctx, id, &request.ReopenBookingRequest{AdminNote: req.AdminNote})
	}

	// the date is needed to pick the lock, the status is re-read under it
	current, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, s.storeError("get booking", err)
	}
	if current == nil {
		return nil, bookingNotFound()
	}

	unlock := s.locks.Lock(dateKey(current.EventDate))
	defer unlock()

	var booking *entity.Booking
	var previous entity.BookingStatus
	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.repo.Booking.LockDate(ctx, current.EventDate); err != nil {
			return err
		}

		b, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return bookingNotFound()
		}

		previous = b.Status
		if !canTransition(previous, target) {
			return apperror.Conflict(apperror.CodeInvalidStatusTransition,
				"Cannot change booking status from "+string(previous)+" to "+string(target)).
				WithDetails(map[string]string{"from": string(previous), "to": string(target)})
		}

		if target == entity.BookingStatusAccepted && previous != entity.BookingStatusAccepted {
			if err := s.ensureSlotFree(ctx, b.EventDate, b.StartMinute, b.EndMinute, &b.ID); err != nil {
				return err
			}
		}

		b.Status = target
		if req.AdminNote != nil {
			b.AdminNote = utils.StringPtr(*req.AdminNote)
		}
		b.UpdatedAt = s.now()

		if err := s.repo.Booking.Update(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	s.record("update_status", err)
	if err != nil {
		return nil, s.storeError("update booking status", err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(booking.Status)),
	)

	if previous != booking.Status {
		switch booking.Status {
		case entity.BookingStatusAccepted:
			s.notify(notify.KindCustomerAccepted, booking.CustomerEmail, booking.CustomerPhone, booking)
		case entity.BookingStatusRejected:
			s.notify(notify.KindCustomerRejected, booking.CustomerEmail, booking.CustomerPhone, booking)
		}
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// ReopenBooking moves a booking back to PENDING from any status. The customer
// is not notified.
func (s *bookingService) ReopenBooking(ctx context.Context, id string, req *request.ReopenBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	bookingID, err := parseID(id, "booking")
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	var previous entity.BookingStatus
	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		b, err := s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return bookingNotFound()
		}

		previous = b.Status
		b.Status = entity.BookingStatusPending
		if req.AdminNote != nil {
			b.AdminNote = utils.StringPtr(*req.AdminNote)
		}
		b.UpdatedAt = s.now()

		if err := s.repo.Booking.Update(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	s.record("reopen", err)
	if err != nil {
		return nil, s.storeError("reopen booking", err)
	}

	s.log.Info("Booking reopened",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(previous)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// DeleteBooking removes a booking regardless of its status.
func (s *bookingService) DeleteBooking(ctx context.Context, id string) error {
	bookingID, err := parseID(id, "booking")
	if err != nil {
		return err
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return s.storeError("get booking", err)
	}
	if booking == nil {
		return bookingNotFound()
	}

	if err := s.repo.Booking.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bookingNotFound()
		}
		return s.storeError("delete booking", err)
	}
	s.record("delete", nil)

	s.log.Info("Booking deleted",
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(booking.Status)),
		zap.String("event_date", booking.EventDate.Format(timeutil.DateFormat)),
		zap.String("customer_email", booking.CustomerEmail),
	)

	return nil
}

// ==================== HELPER METHODS ====================

// findConflicts returns the accepted bookings on date whose window overlaps
// [start, end), skipping excludeID.
func (s *bookingService) findConflicts(ctx context.Context, date time.Time, start, end int, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	accepted, err := s.repo.Booking.FindAcceptedOnDate(ctx, date, excludeID)
	if err != nil {
		return nil, err
	}

	var conflicts []*entity.Booking
	for _, b := range accepted {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if timeutil.IntervalsOverlap(start, end, b.StartMinute, b.EndMinute) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}

func (s *bookingService) ensureSlotFree(ctx context.Context, date time.Time, start, end int, excludeID *uuid.UUID) error {
	conflicts, err := s.findConflicts(ctx, date, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}

	return apperror.Conflict(apperror.CodeTimeSlotConflict,
		"The requested time slot overlaps an accepted booking").
		WithDetails(response.ConflictDetails{
			EventDate: date.Format(timeutil.DateFormat),
			Conflicts: response.ToConflictingBookings(conflicts),
		})
}

// storeError passes domain errors through and turns everything else into an
// internal error. The exclusion constraint is the last line of defence
// against overlapping accepted bookings.
func (s *bookingService) storeError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		if apperror.CodeOf(err) == apperror.CodeTimeSlotConflict {
			s.metrics.SlotConflict()
		}
		return err
	}
	if database.IsExclusionViolation(err) {
		s.metrics.SlotConflict()
		s.log.Warn("Exclusion constraint rejected overlapping booking", zap.String("op", op), zap.Error(err))
		return apperror.Conflict(apperror.CodeTimeSlotConflict,
			"The requested time slot overlaps an accepted booking")
	}

	s.log.Error("Booking operation failed", zap.String("op", op), zap.Error(err))
	return apperror.Internal("failed to "+op, err)
}

func (s *bookingService) record(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperror.KindOf(err))
	}
	s.metrics.BookingOutcome(op, outcome)
}

func (s *bookingService) notify(kind notify.Kind, recipient, phone string, b *entity.Booking) {
	msg := notify.Message{
		Kind:      kind,
		Recipient: recipient,
		Phone:     phone,
		Booking: notify.BookingFields{
			ID:              b.ID.String(),
			CustomerName:    b.CustomerName,
			CustomerEmail:   b.CustomerEmail,
			CustomerPhone:   b.CustomerPhone,
			FunctionType:    b.FunctionTypeLabel,
			EventDate:       b.EventDate.Format(timeutil.DateFormat),
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			AdditionalNotes: derefString(b.AdditionalNotes),
			AdminNote:       derefString(b.AdminNote),
			Status:          string(b.Status),
		},
	}

	if !s.notifier.Enqueue(msg) {
		s.log.Warn("Notification not queued",
			zap.String("kind", string(kind)),
			zap.String("booking_id", msg.Booking.ID),
		)
	}
}

func dateKey(date time.Time) string {
	return date.Format(timeutil.DateFormat)
}

func parseStatus(raw string) (entity.BookingStatus, error) {
	status := entity.BookingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", apperror.Validation(apperror.CodeInvalidStatus,
			"Status must be one of PENDING, ACCEPTED, REJECTED")
	}
	return status, nil
}

func bookingNotFound() error {
	return apperror.NotFound(apperror.CodeBookingNotFound, "Booking not found")
}
