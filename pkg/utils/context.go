package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	AdminIDKey contextKey = "admin_id"
	TokenKey   contextKey = "token"
)

func GetAdminIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	adminIDVal := ctx.Value(AdminIDKey)
	if adminIDVal == nil {
		return uuid.Nil, false
	}

	adminID, ok := adminIDVal.(uuid.UUID)
	return adminID, ok
}

func SetAdminContext(ctx context.Context, adminID uuid.UUID) context.Context {
	return context.WithValue(ctx, AdminIDKey, adminID)
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
