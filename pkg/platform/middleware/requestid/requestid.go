// Package requestid tags every request with an ID and records the caller
// address for logging.
package requestid

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ballotaccess/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

const maxIncomingIDLength = 128

// Middleware reuses a well-formed incoming X-Request-ID or generates a new
// UUID, echoes it on the response and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !validIncoming(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)

		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithClientIP(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validIncoming(id string) bool {
	if id == "" || len(id) > maxIncomingIDLength {
		return false
	}
	for _, c := range id {
		if !(c == '-' || c == '_' || c == '.' ||
			(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
