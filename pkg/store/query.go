package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

type opKind uint8

const (
	opSort opKind = iota
	opRange
)

// Transform is one step of a query pipeline.
type Transform struct {
	kind       opKind
	Field      string
	Descending bool
	Start      int
	Count      int
}

// IsSort reports whether the transform is a sort.
func (t Transform) IsSort() bool { return t.kind == opSort }

// IsRange reports whether the transform is a range.
func (t Transform) IsRange() bool { return t.kind == opRange }

func (t Transform) String() string {
	if t.kind == opSort {
		dir := "asc"
		if t.Descending {
			dir = "desc"
		}
		return fmt.Sprintf("sort(%s %s)", t.Field, dir)
	}
	return fmt.Sprintf("range(%d,%d)", t.Start, t.Count)
}

// Query is the Store implementation shared by every Source. Each Sort or
// Range call returns a new Query; the receiver is never modified.
type Query struct {
	src Source
	ops []Transform
}

// New returns the base query over src.
func New(src Source) *Query {
	return &Query{src: src}
}

// Source returns the underlying source.
func (q *Query) Source() Source { return q.src }

// Transforms returns a copy of the pipeline.
func (q *Query) Transforms() []Transform {
	return slices.Clone(q.ops)
}

func (q *Query) with(t Transform) *Query {
	ops := make([]Transform, len(q.ops), len(q.ops)+1)
	copy(ops, q.ops)
	return &Query{src: q.src, ops: append(ops, t)}
}

// Sort implements Store.
func (q *Query) Sort(field string, descending bool) Store {
	return q.with(Transform{kind: opSort, Field: field, Descending: descending})
}

// Range implements Store.
func (q *Query) Range(start, count int) Store {
	return q.with(Transform{kind: opRange, Start: start, Count: count})
}

// Fetch implements Store.
func (q *Query) Fetch(ctx context.Context) (Result, error) {
	for _, op := range q.ops {
		if op.kind == opRange {
			if err := ValidateRange(op.Start, op.Count); err != nil {
				return Result{}, err
			}
		}
	}

	if rs, ok := q.src.(RangeSource); ok && len(q.ops) == 1 && q.ops[0].kind == opRange {
		return rs.LoadRange(ctx, q.ops[0].Start, q.ops[0].Count)
	}

	items, err := q.src.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	return Apply(items, q.ops), nil
}

// Update implements Store.
func (q *Query) Update(ctx context.Context, id, field string, value any) error {
	return q.src.Update(ctx, id, field, value)
}

// String describes the pipeline, e.g. "sort(name asc).range(10,5)".
func (q *Query) String() string {
	if len(q.ops) == 0 {
		return "all"
	}
	parts := make([]string, len(q.ops))
	for i, op := range q.ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ".")
}

// Apply evaluates ops over items in order. Ranges are assumed valid. The
// input slice is not modified.
func Apply(items []Item, ops []Transform) Result {
	out := items
	total := -1
	for _, op := range ops {
		switch op.kind {
		case opSort:
			sorted := slices.Clone(out)
			field, desc := op.Field, op.Descending
			slices.SortStableFunc(sorted, func(a, b Item) int {
				c := Compare(a[field], b[field])
				if desc {
					return -c
				}
				return c
			})
			out = sorted
		case opRange:
			if total < 0 {
				total = len(out)
			}
			out = window(out, op.Start, op.Count)
		}
	}
	if total < 0 {
		total = len(out)
	}
	return Result{Items: slices.Clone(out), Total: total}
}

func window(items []Item, start, count int) []Item {
	if start >= len(items) {
		return nil
	}
	end := start + count
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
