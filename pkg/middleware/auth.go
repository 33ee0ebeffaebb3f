package middleware

import (
	"net/http"
	"strings"

	"venue-booking/internal/data/repository"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "auth-token"

// AuthSession rejects requests without a live admin session. The token comes
// from "Authorization: Bearer <token>" or the auth-token cookie.
func AuthSession(sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetAdminContext(r.Context(), session.AdminID)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return "", false
}
