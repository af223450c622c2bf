package common

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/domain"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFormNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFormInactive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError answers err with its mapped status. Internal errors are
// logged and replaced by fallback so storage details never leak.
func WriteDomainError(logger *zap.SugaredLogger, w http.ResponseWriter, err error, fallback string, keysAndValues ...any) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Errorw(fallback, append(keysAndValues, "error", err)...)
		}
		WriteError(logger, w, status, fallback)
		return
	}
	WriteJSON(logger, w, status, errorBody(err))
}

func errorBody(err error) map[string]any {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return map[string]any{"error": verr.Error(), "problems": verr.Problems}
	}
	return map[string]any{"error": err.Error()}
}
