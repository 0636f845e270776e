package hrflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInputStripsControlCharacters(t *testing.T) {
	out, err := SanitizeInput("hello\x1b[31m world\x00")
	require.NoError(t, err)
	assert.Equal(t, "hello[31m world", out)
}

func TestSanitizeInputKeepsWhitespaceAndArabic(t *testing.T) {
	in := "اريد اجازة\nمن فضلك\tok"
	out, err := SanitizeInput(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSanitizeInputRejectsOversized(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInputRejectsInvalidUTF8(t *testing.T) {
	_, err := SanitizeInput(string([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInputSizeOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")
	_, err := SanitizeInput("123456789")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	out, err := SanitizeInput("12345678")
	require.NoError(t, err)
	assert.Equal(t, "12345678", out)
}
