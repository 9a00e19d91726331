package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Response{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

// writeServiceError maps the service error taxonomy to a status code and a
// user-safe message. Anything unrecognised is logged and reported as a 500
// carrying fallback.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *common.ValidationError

	switch {
	case errors.Is(err, common.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, "Access token required")
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusForbidden, "Invalid or expired token")
	case errors.Is(err, common.ErrorInternal):
		writeError(w, http.StatusInternalServerError, "Internal server error")
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, common.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, common.ErrExportDisabled):
		writeError(w, http.StatusServiceUnavailable, "Task export is not configured")
	default:
		s.logger.Error(r.Context(), fallback, "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON reads the request body into dst. On failure a 400 is written
// and false returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

const maxBodyBytes = 1 << 20
