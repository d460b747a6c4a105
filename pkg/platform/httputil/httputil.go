// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	dErrors "employee-api/pkg/domain-errors"
)

// ErrorResponse is the JSON body for coded errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Validatable is implemented by request bodies that check their own invariants.
type Validatable interface {
	Validate() error
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError is the single mapping from an error to a response. Not found
// has an empty body. Client errors, a duplicate email included, are a 400
// with the bad_request code. Anything else, uncoded errors included, is a 500
// that keeps the underlying message so operators can correlate it with logs.
func WriteError(w http.ResponseWriter, err error) {
	switch status := StatusFor(dErrors.CodeOf(err)); status {
	case http.StatusNotFound:
		w.WriteHeader(status)
	case http.StatusBadRequest:
		message := err.Error()
		if de, ok := dErrors.As(err); ok {
			message = de.Message
		}
		WriteJSON(w, status, ErrorResponse{Error: string(dErrors.CodeBadRequest), Message: message})
	default:
		WriteJSON(w, status, ErrorResponse{Error: "Internal Server Error", Message: err.Error()})
	}
}

// WriteFieldErrors renders a 400 with a field name to message map.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, fields)
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeConflict:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into dst. On failure it returns a
// field name to message map describing what could not be read.
func DecodeJSON(r *http.Request, dst any) map[string]string {
	if r.Body == nil {
		return map[string]string{"body": "request body is required"}
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return map[string]string{"body": "request body is required"}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()}
	default:
		return map[string]string{"body": "malformed JSON"}
	}
}

// DecodeAndPrepare decodes the body into T and runs its Validate method.
// It writes the error response itself and reports false when the request
// cannot proceed.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := PT(new(T))
	if fields := DecodeJSON(r, req); fields != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"fields", strings.Join(keys(fields), ","),
		)
		WriteFieldErrors(w, fields)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, err)
		return nil, false
	}
	return (*T)(req), true
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
