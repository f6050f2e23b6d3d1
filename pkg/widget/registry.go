package widget

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vango-dev/dgrid/pkg/vdom"
)

var (
	// ErrDuplicateTag is returned by Define for a tag that is already bound.
	ErrDuplicateTag = errors.New("widget: tag already defined")

	// ErrInvalidFactory is returned by Define for an empty tag or nil factory.
	ErrInvalidFactory = errors.New("widget: invalid factory")
)

// Factory builds the node for a registered tag from its properties.
type Factory func(props any) *vdom.VNode

// Typed adapts a function taking concrete properties to a Factory. Building
// with properties of another type panics, since that is a wiring bug in the
// caller.
func Typed[T any](fn func(T) *vdom.VNode) Factory {
	return func(props any) *vdom.VNode {
		p, ok := props.(T)
		if !ok {
			var want T
			panic(fmt.Sprintf("widget: factory expects %T, got %T", want, props))
		}
		return fn(p)
	}
}

// Registry maps capability tags to factories. Each widget instance owns its
// own registry.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Define binds tag to f.
func (r *Registry) Define(tag string, f Factory) error {
	if tag == "" || f == nil {
		return fmt.Errorf("%w: %q", ErrInvalidFactory, tag)
	}
	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}
	r.factories[tag] = f
	return nil
}

// MustDefine is Define for static registrations.
func (r *Registry) MustDefine(tag string, f Factory) {
	if err := r.Define(tag, f); err != nil {
		panic(err)
	}
}

// Has reports whether tag is bound.
func (r *Registry) Has(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}

// Get returns the factory bound to tag.
func (r *Registry) Get(tag string) (Factory, bool) {
	f, ok := r.factories[tag]
	return f, ok
}

// Tags returns the bound tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Build runs the factory bound to tag. An unknown tag yields nil, which
// renders as nothing.
func (r *Registry) Build(tag string, props any) *vdom.VNode {
	f, ok := r.factories[tag]
	if !ok {
		return nil
	}
	return f(props)
}
