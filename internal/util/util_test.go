package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("  I \u201Cthink\u201D it\u2019s fine\u2026\n")...)
	got, err := CleanText(raw, "stdin")
	require.NoError(t, err)
	assert.Equal(t, `I "think" it's fine...`, got)
}

func TestCleanText_InvalidUTF8(t *testing.T) {
	got, err := CleanText([]byte{'o', 'k', 0xff}, "file.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFD", got)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "I lied to my boss.", Preview("I lied to my boss. Then I felt bad about it.", 80))
	assert.Equal(t, "short", Preview("short", 80))
	assert.Equal(t, "abcdefg...", Preview("abcdefghijklmnop", 10))
	assert.Equal(t, "one two", Preview("one\n\n two", 0))
}
