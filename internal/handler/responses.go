package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

// respondJSON sends a JSON response with the given status code and payload.
// The payload is encoded before any header is written so an encoding
// failure still produces a 500.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "action", action, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "action", action, "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgInvalidCatalogError  = "Invalid catalog. Check for duplicate ids and unit types."
	ErrMsgVersionConflictError = "The catalog changed since you loaded it. Reload and try again."
	ErrMsgInvalidTicketError   = "Invalid ticket"
	ErrMsgStoreNotFoundError   = "Store not found"
	ErrMsgInvalidStoreError    = "ID and Name are required"
	ErrMsgInvalidCustomerError = "Name and CUIT are required"
	ErrMsgUnauthorizedError    = "Missing or invalid token"
	ErrMsgTokenExpiredError    = "Token expired. Log in again."
	ErrMsgForbiddenError       = "Your role is not allowed to do that"
	ErrMsgInvalidInputError    = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages users can act on
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, ErrMsgVersionConflictError
	case errors.Is(err, domain.ErrInvalidCatalog):
		return http.StatusBadRequest, ErrMsgInvalidCatalogError
	case errors.Is(err, domain.ErrInvalidTicket):
		return http.StatusBadRequest, ErrMsgInvalidTicketError
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusNotFound, ErrMsgStoreNotFoundError
	case errors.Is(err, domain.ErrInvalidStore):
		return http.StatusBadRequest, ErrMsgInvalidStoreError
	case errors.Is(err, domain.ErrInvalidCustomer):
		return http.StatusBadRequest, ErrMsgInvalidCustomerError
	case errors.Is(err, domain.ErrPasswordRequired):
		return http.StatusBadRequest, ErrMsgPasswordRequired
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrMsgWrongPassword
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, ErrMsgTokenExpiredError
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrMsgUnauthorizedError
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrMsgForbiddenError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
