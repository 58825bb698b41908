package passport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_KnownVectors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234567890", "C775E7B757EDE630CD0AA1113BD102661AB38829CA52A6422AB782862F268646"},
		{"0000000001", "D073DD6208F76179423B603E44FD2F5E5CD82B8507DAC3BA2CEB2B3DE3300CFF"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fp := Derive(MustIdentifier(tt.input))
			assert.Equal(t, tt.want, fp.String())
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a := MustIdentifier("1234 567890")
	b := MustIdentifier(" 1234567890 ")

	first := Derive(a)
	assert.Equal(t, first, Derive(b), "equal identifiers must yield equal fingerprints")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Derive(a))
	}
	assert.NotEqual(t, first, Derive(MustIdentifier("1234567891")))
}

func TestDerive_Format(t *testing.T) {
	fp := Derive(MustIdentifier("5555555555"))
	assert.Len(t, fp.String(), FingerprintLength)
	assert.Equal(t, strings.ToUpper(fp.String()), fp.String())
	assert.NotContains(t, fp.String(), "-")
	assert.Equal(t, fp.String()[:8], fp.Short())

	parsed, err := ParseFingerprint(fp.String())
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)
}

func TestParseFingerprint_Rejects(t *testing.T) {
	valid := Derive(MustIdentifier("1234567890")).String()
	for name, input := range map[string]string{
		"empty":     "",
		"lowercase": strings.ToLower(valid),
		"short":     valid[:63],
		"non-hex":   "Z" + valid[1:],
		"quote":     "'" + valid[1:],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFingerprint(input)
			assert.ErrorIs(t, err, ErrInvalidFingerprint)
		})
	}
}
