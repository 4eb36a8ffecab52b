package clix

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("limit", 0, "")
	fs.Int("offset", 0, "")
	fs.String("tags", "", "")
	_ = fs.Parse(args)
	return fs
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(newFlags(), 50)
	require.NoError(t, err)
	assert.Equal(t, PaginationParams{Limit: 50, Offset: 0}, p)

	p, err = ParsePagination(newFlags("--limit", "5", "--offset", "-3"), 50)
	require.NoError(t, err)
	assert.Equal(t, PaginationParams{Limit: 5, Offset: 0}, p)

	_, err = ParsePagination(newFlags("--limit", "500"), 50)
	assert.Error(t, err)
}

func TestParseLimit_WithoutOffsetFlag(t *testing.T) {
	fs := pflag.NewFlagSet("trending", pflag.ContinueOnError)
	fs.Int("limit", 0, "")
	require.NoError(t, fs.Parse([]string{"--limit", "7"}))

	limit, err := ParseLimit(fs, 20)
	require.NoError(t, err)
	assert.Equal(t, 7, limit)

	_, err = ParsePagination(fs, 20)
	assert.Error(t, err, "an undefined --offset flag is reported")
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"work", "life"}, ParseTags(newFlags("--tags", " Work, ,life ")))
	assert.Nil(t, ParseTags(newFlags()))
}
