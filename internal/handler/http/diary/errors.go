package diary

import (
	"errors"
	"net/http"

	"daybook/internal/domain/entity"
	"daybook/internal/handler/http/pathutil"
	"daybook/internal/handler/http/respond"
	"daybook/internal/resilience/circuitbreaker"
	entryUC "daybook/internal/usecase/entry"
)

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case circuitbreaker.IsOpen(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidIndex),
		errors.Is(err, entity.ErrInvalidCondition),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entryUC.ErrInvalidEntryID),
		errors.Is(err, pathutil.ErrInvalidID),
		errors.Is(err, pathutil.ErrInvalidSegment):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound),
		errors.Is(err, entryUC.ErrEntryNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorType is the label recorded in the pagination error counter.
func errorType(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return "validation"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "database"
	}
}

func writeError(w http.ResponseWriter, err error) int {
	code := statusFor(err)
	switch code {
	case http.StatusServiceUnavailable:
		respond.SafeErrorV2(w, code, respond.NewAppError(code, "search index temporarily unavailable", err))
	case http.StatusRequestEntityTooLarge:
		respond.SafeErrorV2(w, code, respond.NewAppError(code, "request body too large", err))
	default:
		respond.SafeError(w, code, err)
	}
	return code
}
