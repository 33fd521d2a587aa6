package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/datalens-app/datalens/internal/core"
	"github.com/datalens-app/datalens/internal/logging"
	"github.com/datalens-app/datalens/internal/session"
	"github.com/datalens-app/datalens/internal/transform"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code,omitempty"`
}

// writeJSON serializes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a plain error message without a code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps an application error to an HTTP status and a
// user-facing JSON body. Internal errors are logged but never leak
// their details to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("internal error",
			"error", err,
			"path", r.URL.Path,
		)
	}

	writeJSON(w, status, errorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

// statusFor chooses the HTTP status code for an application error.
func statusFor(err error) int {
	var (
		valErr   *transform.ValidationError
		nfErr    *transform.NotFoundError
		typeErr  *transform.TypeError
		parseErr *transform.ParseError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &nfErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &valErr), errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &parseErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
