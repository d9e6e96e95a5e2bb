// Package repository keeps the development backend's data in memory.
package repository

import (
	"cmp"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key is already taken.
var ErrDuplicate = errors.New("duplicate record")

// Clock returns the current time. Tests substitute a deterministic one.
type Clock func() time.Time

// TimestampLayout is fixed width so timestamps compare lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

func timestamp(now time.Time) string {
	return now.UTC().Format(TimestampLayout)
}

// page slices items for a 1-based page number.
func page[T any](items []T, pageNum, limit int) []T {
	start := (pageNum - 1) * limit
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := min(start+limit, len(items))
	return append([]T{}, items[start:end]...)
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
