package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/approval"
)

// Error is the error part of a response envelope
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every JSON response
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeJSON(w, status, Envelope{Success: true, Data: data, RequestID: middleware.GetReqID(r.Context())})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, Envelope{
		Success:   false,
		Error:     &Error{Code: code, Message: message},
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeError maps service errors onto HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		s.fail(w, r, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		s.fail(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, approval.ErrDenied):
		s.fail(w, r, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperr.ErrDataIntegrity):
		s.logger.Error("Stored data violates an invariant",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, "data_integrity", err.Error())
	default:
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func (s *Server) decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", apperr.ErrInvalidInput, err)
	}
	return nil
}
