package web

// errors.go maps pipeline errors to HTTP responses.
//
// The technical error is logged with the request ID. The client gets the
// core.MapError message, as JSON for API routes and as an HTML alert for
// pages, plus the parser position when the upload failed to parse.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/bizcards/internal/core"
	"github.com/JonMunkholm/bizcards/internal/delimited"
	"github.com/JonMunkholm/bizcards/internal/logging"
	"github.com/JonMunkholm/bizcards/internal/render"
	"github.com/JonMunkholm/bizcards/internal/store"
	"github.com/JonMunkholm/bizcards/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// errInvalidRunID is returned for run IDs that are not UUIDs.
var errInvalidRunID = errors.New("invalid run id")

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var (
		pe     *delimited.ParseError
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity
	case errors.As(err, &maxErr),
		errors.Is(err, core.ErrInputTooLarge),
		strings.Contains(err.Error(), "request body too large"):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrEmptyInput),
		errors.Is(err, core.ErrInvalidWorkbook),
		errors.Is(err, core.ErrEncoding),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, render.ErrUnknownLayout),
		errors.Is(err, errInvalidRunID):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrStoreDisabled),
		errors.Is(err, render.ErrNoFont),
		errors.Is(err, core.ErrTooManyRenders):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes a user-friendly response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	if errors.Is(err, errInvalidRunID) {
		userMsg = core.UserMessage{
			Message: "The run ID is not valid",
			Action:  "Use an ID from the run history",
			Code:    "REQ003",
		}
	}
	detail := core.Detail(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if status == http.StatusServiceUnavailable && errors.Is(err, core.ErrTooManyRenders) {
		w.Header().Set("Retry-After", "10")
	}

	if wantsJSON(r) {
		writeJSONStatus(w, status, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
			Detail:  detail,
		})
		return
	}

	s.renderPage(w, r, status, "Error",
		templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code, detail))
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// writeJSON encodes v as JSON with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v as JSON. Encoding errors are only logged since
// headers are already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
