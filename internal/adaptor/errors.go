package adaptor

import (
	"encoding/json"
	"net/http"

	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors onto HTTP responses. Client errors
// are logged at warn, everything else at error with a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.String("operation", operation),
		zap.String("code", appErr.Code),
		zap.String("reason", appErr.Message),
	)

	utils.ResponseError(w, statusFor(appErr.Kind), appErr.Code, appErr.Message, appErr.Details)
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body of at most maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}
