package testutil

import (
	"net/http"
	"time"

	"guesense/pkg/requestcontext"
)

// WithOperator adds an operator identity to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithOperator(req *http.Request, operatorID string) *http.Request {
	if operatorID == "" {
		return req
	}
	ctx := requestcontext.WithOperatorID(req.Context(), operatorID)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	if requestID == "" {
		return req
	}
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithFixedTime pins the request-scoped clock, so handlers and services
// observe one deterministic timestamp.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}
