package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the verification service can classify them into outcomes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no record exists for the requested key
// - ErrUnavailable: the backing resource cannot be reached, opened or read
//
// For input validation errors, use the passport package errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
