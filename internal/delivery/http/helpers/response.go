package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventhub/internal/domain"
)

// Error codes carried in APIError.Code.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse wraps every body: exactly one of Data and Error is set.
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

func writeEnvelope(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, APIResponse{Data: data})
}

func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	writeEnvelope(w, statusCode, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteServiceError maps a service error to its status and code. Unrecognized errors are
// logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidToken):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateRSVP),
		errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
