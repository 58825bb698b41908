package passport

import (
	"strings"
	"testing"
	"unicode"
)

// FuzzNormalize checks that normalization never panics and that every
// accepted value is ten ASCII digits equal to the input with whitespace removed.
func FuzzNormalize(f *testing.F) {
	f.Add("")
	f.Add("1234567890")
	f.Add("  1234 5678 9 0 ")
	f.Add("12345")
	f.Add("'; DROP TABLE passports;--")
	f.Add("１２３４５６７８９０")
	f.Add(string([]byte{0x00, 0xff, 0x31}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := Normalize(input)
		if err != nil {
			if !id.IsZero() {
				t.Error("failed normalization returned a non-zero identifier")
			}
			return
		}

		s := id.String()
		if len(s) != IdentifierLength {
			t.Fatalf("accepted identifier has length %d", len(s))
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				t.Fatalf("accepted identifier contains non-digit %q", s[i])
			}
		}

		stripped := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, input)
		if stripped != s {
			t.Errorf("normalized %q differs from whitespace-stripped input %q", s, stripped)
		}

		again, err := Normalize(s)
		if err != nil || again != id {
			t.Error("normalized identifier does not round-trip")
		}
	})
}
