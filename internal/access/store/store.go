// Package store provides read-only access to provisioned ballot access
// records keyed by passport fingerprint.
//
// Implementations:
//   - SQLStore: SQLite data file or PostgreSQL via database/sql
//   - InMemoryStore: fixed record set for tests and local runs
//   - CachedStore: Redis read-through cache in front of another Reader
package store

import (
	"context"

	"go.opentelemetry.io/otel"

	"ballotaccess/internal/access"
	"ballotaccess/internal/passport"
)

var tracer = otel.Tracer("ballotaccess/internal/access/store")

// Reader is the read-only lookup capability every backend provides.
type Reader interface {
	// Lookup returns the single record for fp, ErrNotFound when absent,
	// or an error wrapping sentinel.ErrUnavailable when the store cannot be read.
	Lookup(ctx context.Context, fp passport.Fingerprint) (*access.Record, error)
	// Ping reports whether the backing resource is reachable.
	Ping(ctx context.Context) error
}
