package adaptor

import (
	"net"
	"net/http"
	"time"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	client := usecase.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	}

	resp, err := h.service.Login(r.Context(), &req, client)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Missing authorization token")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Profile handles GET /api/admin/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetAdminIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Missing authorization token")
		return
	}

	resp, err := h.service.Profile(r.Context(), adminID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", resp)
}

// clientIP strips the port from RemoteAddr, which chi's RealIP middleware
// may already have replaced.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
