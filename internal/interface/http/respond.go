package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// APIVersion is reported in every response's meta.
const APIVersion = "v1"

const genericErrorMessage = "Oops! Something went wrong. Please try again."

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      interface{}   `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func newMeta() *ResponseMeta {
	return &ResponseMeta{Timestamp: time.Now().UTC(), Version: APIVersion}
}

// writeJSON writes a successful response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      newMeta(),
		RequestID: getRequestID(r.Context()),
	})
}

// writeJSONError writes an error response.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Meta:      newMeta(),
		RequestID: getRequestID(r.Context()),
	})
}

func rejectJSON(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSONError(w, r, status, code, message)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// errorResponse maps an error onto a status, a code and a message that is
// safe to show a student. Unknown errors never leak their text.
func errorResponse(err error) (status int, code, message string) {
	msg, hasMsg := shared.UserMessage(err)
	pick := func(fallback string) string {
		if hasMsg {
			return msg
		}
		return fallback
	}

	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusUnprocessableEntity, "incomplete", pick("Please finish this step first!")
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrValueOutOfRange):
		return http.StatusBadRequest, "invalid_input", pick("That request doesn't look right.")
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found", pick("We couldn't find that.")
	case shared.IsConflict(err), errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, "conflict", pick("Something changed while we were working. Please try again!")
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", pick("Whoa, slow down! Please wait a moment and try again.")
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", pick("You need to sign in for that.")
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, "forbidden", pick("You can't do that.")
	default:
		return http.StatusInternalServerError, "internal_error", genericErrorMessage
	}
}

// writeError logs err at a level that matches its status and writes it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorResponse(err)
	log := logger.FromContext(r.Context())
	if status >= 500 {
		log.Error("request failed", logger.Err(err), logger.String("path", r.URL.Path))
	} else {
		log.Debug("request rejected", logger.Err(err), logger.Int("status", status))
	}
	writeJSONError(w, r, status, code, message)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

var errBadBody = shared.NewDomainError("http", "decode", shared.ErrInvalidInput, "The request body is not valid JSON.")

var errBodyTooLarge = shared.NewDomainError("http", "decode", shared.ErrInvalidInput, "The request body is too large.")

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errBadBody
	}
	return nil
}
