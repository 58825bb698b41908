package store

import (
	"errors"
	"fmt"

	"ballotaccess/pkg/platform/sentinel"
)

var (
	// ErrNotFound means no access record exists for the fingerprint.
	// It is a normal lookup result, not an infrastructure failure.
	ErrNotFound = fmt.Errorf("access record %w", sentinel.ErrNotFound)

	// ErrResourceNotFound means the backing resource (e.g. the SQLite data
	// file) does not exist. It is distinct from a missing record.
	ErrResourceNotFound = fmt.Errorf("access store resource not found: %w", sentinel.ErrUnavailable)

	// ErrCorruptRecord means a matching row exists but its shape cannot be read.
	ErrCorruptRecord = errors.New("corrupt access record")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
}
