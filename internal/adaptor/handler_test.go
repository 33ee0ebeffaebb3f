package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== STUBS ====================

type stubBookingService struct {
	usecase.BookingService

	create       func(req *request.CreateBookingRequest) (*response.BookingResponse, error)
	availability func(req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	list         func(req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	update       func(id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	reopen       func(id string, req *request.ReopenBookingRequest) (*response.BookingResponse, error)
	remove       func(id string) error
}

func (s *stubBookingService) CreateBooking(_ context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	return s.create(req)
}

func (s *stubBookingService) CheckAvailability(_ context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	return s.availability(req)
}

func (s *stubBookingService) ListBookings(_ context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.list(req)
}

func (s *stubBookingService) UpdateBookingStatus(_ context.Context, id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	return s.update(id, req)
}

func (s *stubBookingService) ReopenBooking(_ context.Context, id string, req *request.ReopenBookingRequest) (*response.BookingResponse, error) {
	return s.reopen(id, req)
}

func (s *stubBookingService) DeleteBooking(_ context.Context, id string) error {
	return s.remove(id)
}

type stubFunctionTypeService struct {
	usecase.FunctionTypeService

	listed []bool
}

func (s *stubFunctionTypeService) ListFunctionTypes(_ context.Context, includeInactive bool) ([]response.FunctionTypeResponse, error) {
	s.listed = append(s.listed, includeInactive)
	return []response.FunctionTypeResponse{}, nil
}

type stubAuthService struct {
	usecase.AuthService

	loggedOut []string
}

func (s *stubAuthService) Login(_ context.Context, req *request.LoginRequest, client usecase.ClientInfo) (*response.AuthResponse, error) {
	if req.Password != "correct-horse" {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	return &response.AuthResponse{
		AdminID:   "a1",
		Email:     req.Email,
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuthService) Profile(_ context.Context, adminID uuid.UUID) (*response.AdminProfileResponse, error) {
	if adminID == uuid.Nil {
		return nil, apperror.Unauthorized("Admin account not found")
	}
	resp := response.AdminProfileResponse{Admin: response.AdminProfile{ID: adminID.String(), Email: "owner@venue.test"}}
	return &resp, nil
}

// ==================== HELPERS ====================

type envelope struct {
	Status  bool            `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func bookingRouter(svc usecase.BookingService) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/bookings", h.CreateBooking)
	r.Get("/api/bookings/availability", h.CheckAvailability)
	r.Get("/api/admin/bookings", h.ListBookings)
	r.Patch("/api/admin/bookings/{id}", h.UpdateBookingStatus)
	r.Post("/api/admin/bookings/{id}/reopen", h.ReopenBooking)
	r.Delete("/api/admin/bookings/{id}", h.DeleteBooking)
	return r
}

// ==================== TESTS ====================

func TestHandleServiceError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperror.Validation(apperror.CodeInvalidDuration, "too short"), http.StatusBadRequest, apperror.CodeInvalidDuration},
		{"not found", apperror.NotFound(apperror.CodeBookingNotFound, "gone"), http.StatusNotFound, apperror.CodeBookingNotFound},
		{"conflict", apperror.Conflict(apperror.CodeTimeSlotConflict, "taken"), http.StatusConflict, apperror.CodeTimeSlotConflict},
		{"unauthorized", apperror.Unauthorized("who are you"), http.StatusUnauthorized, apperror.CodeUnauthorized},
		{"internal", apperror.Internal("boom", errors.New("db down")), http.StatusInternalServerError, apperror.CodeInternal},
		{"foreign", errors.New("unexpected"), http.StatusInternalServerError, apperror.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tc.err, "test")

			assert.Equal(t, tc.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Status)
			assert.Equal(t, tc.wantCode, env.Code)
		})
	}
}

func TestHandleServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), apperror.Internal("failed", errors.New("password=hunter2")), "test")

	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestCreateBooking_Handler(t *testing.T) {
	svc := &stubBookingService{
		create: func(req *request.CreateBookingRequest) (*response.BookingResponse, error) {
			if req.StartTime == "11:00" {
				return nil, apperror.Conflict(apperror.CodeTimeSlotConflict, "taken").WithDetails(response.ConflictDetails{
					EventDate: req.EventDate,
					Conflicts: []response.ConflictingBooking{{ID: "b1", StartTime: "10:00", EndTime: "12:00", FunctionTypeLabel: "Wedding"}},
				})
			}
			return &response.BookingResponse{ID: "new", Status: "PENDING"}, nil
		},
	}
	router := bookingRouter(svc)

	t.Run("created", func(t *testing.T) {
		body := `{"customer_name":"Ann","customer_email":"ann@example.com","customer_phone":"+94771234567",
			"function_type_custom":"Party","event_date":"2026-06-10","start_time":"10:00","end_time":"12:00"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Status)
		assert.JSONEq(t, `"PENDING"`, string(mustField(t, env.Data, "status")))
	})

	t.Run("conflict carries details", func(t *testing.T) {
		body := `{"event_date":"2026-06-10","start_time":"11:00","end_time":"13:00"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, apperror.CodeTimeSlotConflict, env.Code)

		var details response.ConflictDetails
		require.NoError(t, json.Unmarshal(env.Errors, &details))
		require.Len(t, details.Conflicts, 1)
		assert.Equal(t, "b1", details.Conflicts[0].ID)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"customer_name":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperror.CodeValidation, decodeEnvelope(t, rec).Code)
	})
}

func TestCheckAvailability_Handler(t *testing.T) {
	var got *request.AvailabilityRequest
	svc := &stubBookingService{
		availability: func(req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
			got = req
			return &response.AvailabilityResponse{Available: true, Conflicts: []response.ConflictingBooking{}}, nil
		},
	}

	rec := httptest.NewRecorder()
	bookingRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/bookings/availability?date=2026-06-10&start_time=10:00&end_time=12:00", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "2026-06-10", got.EventDate)
	assert.Equal(t, "10:00", got.StartTime)
	assert.Equal(t, "12:00", got.EndTime)
}

func TestListBookings_Handler(t *testing.T) {
	var got *request.ListBookingsRequest
	svc := &stubBookingService{
		list: func(req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
			got = req
			return response.NewPaginatedResponse[response.BookingResponse](nil, req.CurrentPage(), req.Limit(), 0), nil
		},
	}
	router := bookingRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/admin/bookings?page=2&limit=5&status=pending&date_from=2026-06-01&date_to=2026-06-30&customer_email=a@b.c", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PerPage)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "2026-06-01", got.DateFrom)
	assert.Equal(t, "2026-06-30", got.DateTo)
	assert.Equal(t, "a@b.c", got.CustomerEmail)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings?page=-3&per_page=7", nil))
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 7, got.PerPage)
}

func TestUpdateAndReopen_Handler(t *testing.T) {
	var updatedID, reopenedID string
	svc := &stubBookingService{
		update: func(id string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
			updatedID = id
			if req.Status == "PENDING" {
				return nil, apperror.Conflict(apperror.CodeInvalidStatusTransition, "no")
			}
			return &response.BookingResponse{ID: id, Status: "ACCEPTED"}, nil
		},
		reopen: func(id string, req *request.ReopenBookingRequest) (*response.BookingResponse, error) {
			reopenedID = id
			return &response.BookingResponse{ID: id, Status: "PENDING"}, nil
		},
		remove: func(id string) error {
			return apperror.NotFound(apperror.CodeBookingNotFound, "Booking not found")
		},
	}
	router := bookingRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/bookings/abc", strings.NewReader(`{"status":"ACCEPTED"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", updatedID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/bookings/abc", strings.NewReader(`{"status":"PENDING"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperror.CodeInvalidStatusTransition, decodeEnvelope(t, rec).Code)

	// reopen accepts an empty body
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/bookings/xyz/reopen", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xyz", reopenedID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/bookings/xyz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeBookingNotFound, decodeEnvelope(t, rec).Code)
}

func TestFunctionTypeLists_Handler(t *testing.T) {
	svc := &stubFunctionTypeService{}
	h := NewFunctionTypeHandler(svc, zap.NewNop())

	h.ListActive(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/function-types", nil))
	h.ListAll(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/function-types", nil))
	h.ListAll(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/function-types?include_inactive=false", nil))

	assert.Equal(t, []bool{false, true, false}, svc.listed)
}

func TestLoginLogout_Cookie(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"owner@venue.test","password":"correct-horse"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "tok-123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login",
		strings.NewReader(`{"email":"owner@venue.test","password":"wrong-horse"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req = req.WithContext(utils.SetTokenContext(req.Context(), "tok-123"))
	rec = httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tok-123"}, svc.loggedOut)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestProfile_Handler(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zap.NewNop())
	adminID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req = req.WithContext(utils.SetAdminContext(req.Context(), adminID))
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	admin := mustField(t, decodeEnvelope(t, rec).Data, "admin")
	assert.JSONEq(t, `"`+adminID.String()+`"`, string(mustField(t, admin, "id")))
	assert.JSONEq(t, `"owner@venue.test"`, string(mustField(t, admin, "email")))

	rec = httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/profile", nil)
	req = req.WithContext(utils.SetAdminContext(req.Context(), uuid.Nil))
	rec = httptest.NewRecorder()
	h.Profile(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func mustField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &obj))
	v, ok := obj[field]
	require.True(t, ok, "missing field %q", field)
	return v
}
