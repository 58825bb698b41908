// Package requestcontext provides HTTP-independent accessors for
// request-scoped values set by middleware and read by services.
//
// Usage in services:
//
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware and tests:
//
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import "context"

type (
	requestIDKey struct{}
	clientIPKey  struct{}
)

// RequestID retrieves the request ID from the context.
// Returns "" for contexts that did not pass through the HTTP middleware (CLI, tests).
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP retrieves the caller address recorded by the middleware.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects the caller address into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}
