package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/notify"
	"venue-booking/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ==================== BOOKINGS ====================

type fakeBookingRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]entity.Booking
	lockCalls int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{items: make(map[uuid.UUID]entity.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; exists {
		return fmt.Errorf("duplicate booking id %s", b.ID)
	}
	r.items[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepo) matching(filter entity.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.items {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && b.EventDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && b.EventDate.After(*filter.DateTo) {
			continue
		}
		if filter.CustomerEmail != "" && b.CustomerEmail != filter.CustomerEmail {
			continue
		}
		if filter.FunctionTypeID != nil && (b.FunctionTypeID == nil || *b.FunctionTypeID != *filter.FunctionTypeID) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].EventDate.Before(out[j].EventDate)
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *fakeBookingRepo) FindAll(_ context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(filter)
	if filter.Limit <= 0 {
		return all, nil
	}
	if filter.Offset >= len(all) {
		return []*entity.Booking{}, nil
	}
	end := min(filter.Offset+filter.Limit, len(all))
	return all[filter.Offset:end], nil
}

func (r *fakeBookingRepo) Count(_ context.Context, filter entity.BookingFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return fmt.Errorf("update booking %s: %w", b.ID, pgx.ErrNoRows)
	}
	r.items[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("delete booking %s: %w", id, pgx.ErrNoRows)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeBookingRepo) FindAcceptedOnDate(_ context.Context, date time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.items {
		if b.Status != entity.BookingStatusAccepted || !timeutil.SameDate(b.EventDate, date) {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (r *fakeBookingRepo) LockDate(context.Context, time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockCalls++
	return nil
}

func (r *fakeBookingRepo) CountByFunctionType(_ context.Context, id uuid.UUID) (entity.BookingCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c entity.BookingCounts
	for _, b := range r.items {
		if b.FunctionTypeID == nil || *b.FunctionTypeID != id {
			continue
		}
		switch b.Status {
		case entity.BookingStatusPending:
			c.Pending++
		case entity.BookingStatusAccepted:
			c.Accepted++
		case entity.BookingStatusRejected:
			c.Rejected++
		}
		c.Total++
	}
	return c, nil
}

func (r *fakeBookingRepo) DeleteRejectedByFunctionType(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key, b := range r.items {
		if b.FunctionTypeID != nil && *b.FunctionTypeID == id && b.Status == entity.BookingStatusRejected {
			delete(r.items, key)
			n++
		}
	}
	return n, nil
}

// clearFunctionType mirrors ON DELETE SET NULL.
func (r *fakeBookingRepo) clearFunctionType(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.items {
		if b.FunctionTypeID != nil && *b.FunctionTypeID == id {
			b.FunctionTypeID = nil
			r.items[key] = b
		}
	}
}

func (r *fakeBookingRepo) get(id uuid.UUID) entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

// ==================== FUNCTION TYPES ====================

type fakeFunctionTypeRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]entity.FunctionType
	bookings *fakeBookingRepo
}

func newFakeFunctionTypeRepo(bookings *fakeBookingRepo) *fakeFunctionTypeRepo {
	return &fakeFunctionTypeRepo{items: make(map[uuid.UUID]entity.FunctionType), bookings: bookings}
}

func (r *fakeFunctionTypeRepo) Create(_ context.Context, ft *entity.FunctionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ft.ID] = *ft
	return nil
}

func (r *fakeFunctionTypeRepo) find(match func(entity.FunctionType) bool) *entity.FunctionType {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ft := range r.items {
		if match(ft) {
			ft := ft
			return &ft
		}
	}
	return nil
}

func (r *fakeFunctionTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.FunctionType, error) {
	return r.find(func(ft entity.FunctionType) bool { return ft.ID == id }), nil
}

func (r *fakeFunctionTypeRepo) FindByName(_ context.Context, name string) (*entity.FunctionType, error) {
	return r.find(func(ft entity.FunctionType) bool { return ft.Name == name }), nil
}

func (r *fakeFunctionTypeRepo) FindBySlug(_ context.Context, slug string) (*entity.FunctionType, error) {
	return r.find(func(ft entity.FunctionType) bool { return ft.Slug == slug }), nil
}

func (r *fakeFunctionTypeRepo) FindAll(_ context.Context, includeInactive bool) ([]*entity.FunctionType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.FunctionType, 0)
	for _, ft := range r.items {
		if !includeInactive && !ft.IsActive {
			continue
		}
		ft := ft
		out = append(out, &ft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFunctionTypeRepo) Update(_ context.Context, ft *entity.FunctionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ft.ID]; !ok {
		return fmt.Errorf("update function type %s: %w", ft.ID, pgx.ErrNoRows)
	}
	r.items[ft.ID] = *ft
	return nil
}

func (r *fakeFunctionTypeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("delete function type %s: %w", id, pgx.ErrNoRows)
	}
	delete(r.items, id)
	r.mu.Unlock()

	r.bookings.clearFunctionType(id)
	return nil
}

// ==================== ADMINS & SESSIONS ====================

type fakeAdminRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Admin
}

func (r *fakeAdminRepo) Create(_ context.Context, a *entity.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID] = *a
	return nil
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*entity.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu    sync.Mutex
	items map[string]entity.Session
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.Token.String()] = *s
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[token]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	r.items[token] = s
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	for token, s := range r.items {
		if s.ExpiresAt.Before(cutoff) {
			delete(r.items, token)
			n++
		}
	}
	return n, nil
}

// ==================== TX & NOTIFIER ====================

type passthroughTx struct {
	mu    sync.Mutex
	calls int
}

func (t *passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *recordingNotifier) Enqueue(msg notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return true
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Kind, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Kind)
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = nil
}

// ==================== ENVIRONMENT ====================

const testAdminEmail = "admin@venue.test"

// fixed clock: 2026-06-01 09:00 UTC
var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	repo     *repository.Repository
	bookings *fakeBookingRepo
	types    *fakeFunctionTypeRepo
	admins   *fakeAdminRepo
	sessions *fakeSessionRepo
	tx       *passthroughTx
	notifier *recordingNotifier

	booking      *bookingService
	functionType *functionTypeService
	auth         *authService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bookings := newFakeBookingRepo()
	env := &testEnv{
		bookings: bookings,
		types:    newFakeFunctionTypeRepo(bookings),
		admins:   &fakeAdminRepo{items: make(map[uuid.UUID]entity.Admin)},
		sessions: &fakeSessionRepo{items: make(map[string]entity.Session)},
		tx:       &passthroughTx{},
		notifier: &recordingNotifier{},
	}
	env.repo = &repository.Repository{
		Admin:        env.admins,
		Session:      env.sessions,
		FunctionType: env.types,
		Booking:      env.bookings,
	}

	log := zap.NewNop()
	clock := func() time.Time { return testNow }

	env.booking = NewBookingService(env.repo, env.tx, env.notifier, DefaultBookingRules(), testAdminEmail, nil, log).(*bookingService)
	env.booking.now = clock

	env.functionType = NewFunctionTypeService(env.repo, env.tx, log).(*functionTypeService)
	env.functionType.now = clock

	env.auth = &authService{repo: env.repo, expiry: time.Hour, now: time.Now, log: log}

	return env
}

func (e *testEnv) addFunctionType(t *testing.T, name string, active bool) *entity.FunctionType {
	t.Helper()
	ft := &entity.FunctionType{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		Name:         name,
		Slug:         name,
		Price:        1000,
		IsActive:     active,
	}
	if err := e.types.Create(context.Background(), ft); err != nil {
		t.Fatalf("seed function type: %v", err)
	}
	return ft
}

// addBooking stores a booking directly, bypassing admission.
func (e *testEnv) addBooking(t *testing.T, ftID *uuid.UUID, date, start, end string, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	d, err := timeutil.ParseDate(date, time.UTC)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	s, e2 := timeutil.MustParseClock(start), timeutil.MustParseClock(end)
	b := &entity.Booking{
		BaseNoDelete:      entity.BaseNoDelete{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		CustomerName:      "Seeded Guest",
		CustomerEmail:     "seeded@example.com",
		CustomerPhone:     "+94770000000",
		FunctionTypeID:    ftID,
		FunctionTypeLabel: "Seeded",
		EventDate:         d,
		StartTime:         s.String(),
		EndTime:           e2.String(),
		StartMinute:       s.Minutes(),
		EndMinute:         e2.Minutes(),
		Status:            status,
	}
	if err := e.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}
