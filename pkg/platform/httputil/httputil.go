// Package httputil centralizes JSON encoding and domain-error translation
// for the HTTP layer, keeping handlers free of status-mapping logic.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "guesense/pkg/domain-errors"
)

// Envelope is the wire shape every endpoint returns.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ToHTTPStatus maps a domain error code onto an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound, dErrors.CodeNotRegistered, dErrors.CodeNotAMember:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a success envelope with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// WriteError translates a domain error into the error envelope. Internal
// error details stay out of the response body; callers log them.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := &ErrorBody{Code: string(code)}
	if code != dErrors.CodeInternal {
		body.Message = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: body})
}

// DecodeAndPrepare decodes a JSON request body into T, writing a bad_request
// response and returning ok=false on malformed input.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "failed to decode request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}
