package store

import (
	"context"
	"errors"
	"fmt"
)

// DefaultIDField is the item field holding row identity.
const DefaultIDField = "id"

var (
	// ErrInvalidRange is returned by Fetch when a range transform has a
	// negative start or a non-positive count.
	ErrInvalidRange = errors.New("store: invalid range")

	// ErrNotFound is returned by Update for an unknown row id.
	ErrNotFound = errors.New("store: item not found")

	// ErrUnsupportedFormat is returned by Decode for an unknown encoding.
	ErrUnsupportedFormat = errors.New("store: unsupported format")
)

// Item is one row. Keys are field names.
type Item map[string]any

// ID returns the item's identity under field as a string.
func (it Item) ID(field string) string {
	v, ok := it[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy of the item.
func (it Item) Clone() Item {
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Result is the outcome of a Fetch.
type Result struct {
	Items []Item
	// Total is the number of items before any range transform.
	Total int
}

// Store is a query handle over a data source.
type Store interface {
	// Sort returns a handle ordered by field. Sorting is stable.
	Sort(field string, descending bool) Store
	// Range returns a handle limited to count items starting at start.
	// Validation is deferred to Fetch.
	Range(start, count int) Store
	// Fetch evaluates the handle.
	Fetch(ctx context.Context) (Result, error)
	// Update writes value to field of the item identified by id.
	Update(ctx context.Context, id, field string, value any) error
}

// Source supplies the items a Query evaluates over.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
	Update(ctx context.Context, id, field string, value any) error
}

// RangeSource is implemented by sources that can serve a window of their
// natural order without loading everything.
type RangeSource interface {
	Source
	LoadRange(ctx context.Context, start, count int) (Result, error)
}

// ValidateRange reports ErrInvalidRange for a window that cannot be served.
func ValidateRange(start, count int) error {
	if start < 0 || count <= 0 {
		return fmt.Errorf("%w: start=%d count=%d", ErrInvalidRange, start, count)
	}
	return nil
}
