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
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo describes where a login came from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, adminID uuid.UUID) (*response.AdminProfileResponse, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository
	expiry time.Duration
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	expiry := time.Duration(config.Session.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &authService{
		repo:   repo,
		expiry: expiry,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationFailed(errs)
	}

	admin, err := s.repo.Admin.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		s.log.Error("Failed to find admin", zap.Error(err))
		return nil, apperror.Internal("failed to log in", err)
	}

	// same answer for unknown email and wrong password
	if admin == nil || !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("ip", client.IPAddress))
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		AdminID:   admin.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: utils.StringPtr(client.UserAgent),
		IPAddress: utils.StringPtr(client.IPAddress),
		ExpiresAt: now.Add(s.expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("admin_id", admin.ID.String()))
		return nil, apperror.Internal("failed to create session", err)
	}

	s.log.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))

	resp := response.AuthToResponse(admin, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return apperror.Unauthorized("Session not found or already ended")
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return apperror.Internal("failed to log out", err)
	}

	s.log.Info("Admin logged out")
	return nil
}

// Profile returns the account behind an authenticated session. A session whose
// admin was removed meanwhile is treated as unauthenticated.
func (s *authService) Profile(ctx context.Context, adminID uuid.UUID) (*response.AdminProfileResponse, error) {
	admin, err := s.repo.Admin.FindByID(ctx, adminID)
	if err != nil {
		s.log.Error("Failed to load admin profile", zap.Error(err), zap.String("admin_id", adminID.String()))
		return nil, apperror.Internal("failed to load profile", err)
	}
	if admin == nil {
		return nil, apperror.Unauthorized("Admin account not found")
	}

	resp := response.AdminToProfileResponse(admin)
	return &resp, nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
	return removed, nil
}
