package usecase

import (
	"strings"

	"github.com/google/uuid"

	"venue-booking/pkg/apperror"
)

func validationFailed(errs map[string]string) error {
	return apperror.Validation(apperror.CodeValidation, "Validation failed").WithDetails(errs)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.Validation(apperror.CodeInvalidID, "Invalid "+what+" ID")
	}
	return id, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
