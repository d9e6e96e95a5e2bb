// Package resource exposes one function per backend REST operation, grouped by entity.
package resource

import (
	"net/url"
	"strconv"
)

// Paging defaults used when callers pass zero or negative values.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultUserLimit = 100
)

func pageQuery(page, limit, defaultLimit int) url.Values {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func idSegment(id int64) string {
	return strconv.FormatInt(id, 10)
}
