package passport

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// FingerprintLength is the length of a hex-encoded SHA-256 digest.
const FingerprintLength = sha256.Size * 2

// ErrInvalidFingerprint indicates a string is not a 64-char uppercase hex digest.
var ErrInvalidFingerprint = errors.New("invalid fingerprint: must be 64 uppercase hex characters")

// Fingerprint is the one-way lookup key derived from an Identifier.
// The provisioning side computes keys the same way, so the digest is unsalted.
type Fingerprint struct {
	value string
}

// Derive computes the SHA-256 of the identifier's digit string and renders
// it as uppercase hex without separators.
func Derive(id Identifier) Fingerprint {
	sum := sha256.Sum256([]byte(id.value))
	return Fingerprint{value: strings.ToUpper(hex.EncodeToString(sum[:]))}
}

// ParseFingerprint validates a stored or transported fingerprint.
func ParseFingerprint(value string) (Fingerprint, error) {
	if len(value) != FingerprintLength {
		return Fingerprint{}, ErrInvalidFingerprint
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return Fingerprint{}, ErrInvalidFingerprint
		}
	}
	return Fingerprint{value: value}, nil
}

// String returns the hex digest.
func (f Fingerprint) String() string {
	return f.value
}

// Short returns a prefix suitable for logs.
func (f Fingerprint) Short() string {
	if len(f.value) < 8 {
		return f.value
	}
	return f.value[:8]
}

// IsZero reports whether the fingerprint was never derived.
func (f Fingerprint) IsZero() bool {
	return f.value == ""
}
