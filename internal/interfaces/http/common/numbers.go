package common

import (
	"net/url"
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// PagingLimits holds the limit defaults of the list endpoints.
type PagingLimits struct {
	DefaultLimit int
	MaxLimit     int
}

// ParsePaging reads page and limit. Missing or invalid values fall back to page 1 and
// DefaultLimit; limit is capped at MaxLimit.
func ParsePaging(query url.Values, limits PagingLimits) (page, limit int) {
	page, _ = ParsePositiveInt(query.Get(ParamPage), DefaultPage)
	limit, _ = ParsePositiveInt(query.Get(ParamLimit), limits.DefaultLimit)
	if limits.MaxLimit > 0 && limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}
	return page, limit
}
