package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dansfisica85/dalmaso/pkg/advisor"
	"github.com/dansfisica85/dalmaso/pkg/apperrors"
)

// ApiResponse is the common JSON envelope.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(ApiResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// statusFor maps service errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	var decodeErr *apperrors.DecodeError
	var upstreamErr *advisor.UpstreamError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrEmptySelection):
		return http.StatusBadRequest, "empty_selection"
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity, "undecodable_file"
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "advisor_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// parseID reads an int64 path value, writing a 400 on failure.
func parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}
