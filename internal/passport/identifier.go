// Package passport holds the passport identifier value objects: the
// normalized series+number and the fingerprint derived from it.
//
// Domain Purity: this package performs no I/O and takes no context.Context.
package passport

import (
	"errors"
	"strings"
	"unicode"
)

// IdentifierLength is the number of digits in a passport series+number.
const IdentifierLength = 10

var (
	// ErrMissingInput indicates the input was empty after whitespace removal.
	ErrMissingInput = errors.New("missing input")
	// ErrWrongFormat indicates the input is not exactly ten ASCII digits.
	ErrWrongFormat = errors.New("wrong format, expected 10 digits")
)

// Identifier is a normalized passport series+number.
//
// Invariants:
//   - Exactly 10 characters
//   - ASCII decimal digits only (no separators or whitespace)
type Identifier struct {
	value string
}

// Normalize trims the raw input, drops all internal whitespace and validates
// the remainder. No other transformation is applied.
func Normalize(raw string) (Identifier, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return Identifier{}, ErrMissingInput
	}
	if len(cleaned) != IdentifierLength {
		return Identifier{}, ErrWrongFormat
	}
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] < '0' || cleaned[i] > '9' {
			return Identifier{}, ErrWrongFormat
		}
	}
	return Identifier{value: cleaned}, nil
}

// MustIdentifier normalizes raw, panicking on failure.
// Use only in tests or when the value is known to be valid.
func MustIdentifier(raw string) Identifier {
	id, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical digit string.
func (i Identifier) String() string {
	return i.value
}

// IsZero reports whether the identifier was never constructed.
func (i Identifier) IsZero() bool {
	return i.value == ""
}
