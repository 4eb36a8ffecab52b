package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// MaxPageSize bounds --limit for feed commands.
const MaxPageSize = 100

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads --limit and --offset. A non-positive limit falls
// back to defaultLimit.
func ParsePagination(flags *pflag.FlagSet, defaultLimit int) (PaginationParams, error) {
	limit, err := ParseLimit(flags, defaultLimit)
	if err != nil {
		return PaginationParams{}, err
	}
	offset, err := flags.GetInt("offset")
	if err != nil {
		return PaginationParams{}, err
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseLimit reads --limit alone, for commands without paging.
func ParseLimit(flags *pflag.FlagSet, defaultLimit int) (int, error) {
	limit, err := flags.GetInt("limit")
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		return 0, fmt.Errorf("--limit must be at most %d", MaxPageSize)
	}
	return limit, nil
}

// ParseTags splits the comma separated --tags flag, dropping blanks and
// lower-casing each tag.
func ParseTags(flags *pflag.FlagSet) []string {
	tagsStr, _ := flags.GetString("tags")
	var tags []string
	for _, t := range strings.Split(tagsStr, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(t)); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
