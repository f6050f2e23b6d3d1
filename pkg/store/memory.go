package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Source over an in-memory slice. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	items   []Item
	idField string
}

// MemoryOption configures a Memory source.
type MemoryOption func(*Memory)

// WithIDField sets the field Update matches row ids against. Default "id".
func WithIDField(field string) MemoryOption {
	return func(m *Memory) {
		if field != "" {
			m.idField = field
		}
	}
}

// NewMemory returns a Memory source holding copies of items.
func NewMemory(items []Item, opts ...MemoryOption) *Memory {
	m := &Memory{idField: DefaultIDField}
	for _, opt := range opts {
		opt(m)
	}
	m.items = make([]Item, len(items))
	for i, it := range items {
		m.items[i] = it.Clone()
	}
	return m
}

// NewMemoryStore is shorthand for New(NewMemory(items)).
func NewMemoryStore(items []Item) *Query {
	return New(NewMemory(items))
}

// Load implements Source. The returned items are copies.
func (m *Memory) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = it.Clone()
	}
	return out, nil
}

// LoadRange implements RangeSource.
func (m *Memory) LoadRange(ctx context.Context, start, count int) (Result, error) {
	if err := ValidateRange(start, count); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	win := window(m.items, start, count)
	out := make([]Item, len(win))
	for i, it := range win {
		out[i] = it.Clone()
	}
	return Result{Items: out, Total: len(m.items)}, nil
}

// Update implements Source.
func (m *Memory) Update(ctx context.Context, id, field string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID(m.idField) == id {
			it[field] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Replace swaps the held items.
func (m *Memory) Replace(items []Item) {
	cp := make([]Item, len(items))
	for i, it := range items {
		cp[i] = it.Clone()
	}
	m.mu.Lock()
	m.items = cp
	m.mu.Unlock()
}

// Len returns the number of items.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
