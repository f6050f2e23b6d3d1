package widget

import (
	"sync/atomic"
)

var idCounter atomic.Uint64

// Base is embedded by widgets. P is the widget's properties struct.
type Base[P any] struct {
	id    uint64
	props P
	state map[string]any

	listeners map[string][]*listener
	handles   []Handle

	invalidator   func()
	invalidations int
	dirty         bool
	destroyed     bool
}

// NewBase creates a Base holding props. The new widget starts dirty so the
// host renders it once.
func NewBase[P any](props P) *Base[P] {
	return &Base[P]{
		id:        idCounter.Add(1),
		props:     props,
		state:     make(map[string]any),
		listeners: make(map[string][]*listener),
		dirty:     true,
	}
}

// ID returns a process-unique identifier for the widget instance.
func (b *Base[P]) ID() uint64 {
	return b.id
}

// Properties returns the current properties bag.
func (b *Base[P]) Properties() P {
	return b.props
}

// SetProperties replaces the properties bag. When any property differs from
// the current one a PropertiesChanged event is emitted and the widget is
// invalidated. The changed keys are returned.
func (b *Base[P]) SetProperties(next P) []string {
	if b.destroyed {
		return nil
	}
	changed := ChangedKeys(b.props, next)
	if len(changed) == 0 {
		return nil
	}
	prev := b.props
	b.props = next
	b.Emit(PropertiesChanged[P]{
		ChangedPropertyKeys: changed,
		Properties:          next,
		Previous:            prev,
	})
	b.Invalidate()
	return changed
}

// State returns the state value stored under key.
func (b *Base[P]) State(key string) (any, bool) {
	v, ok := b.state[key]
	return v, ok
}

// SetState stores value under key and emits StateChanged.
func (b *Base[P]) SetState(key string, value any) {
	if b.destroyed {
		return
	}
	b.state[key] = value
	b.Emit(StateChanged{Key: key, Value: value})
}

// On subscribes fn to events of the given type. The returned handle
// unsubscribes.
func (b *Base[P]) On(eventType string, fn func(Event)) Handle {
	l := &listener{fn: fn, active: true}
	b.listeners[eventType] = append(b.listeners[eventType], l)
	return HandleFunc(func() {
		if !l.active {
			return
		}
		l.active = false
		ls := b.listeners[eventType]
		for i, existing := range ls {
			if existing == l {
				b.listeners[eventType] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	})
}

// Emit dispatches e to the listeners subscribed to its type. Listeners added
// during dispatch are not called for e.
func (b *Base[P]) Emit(e Event) {
	ls := append([]*listener(nil), b.listeners[e.EventType()]...)
	for _, l := range ls {
		if l.active {
			l.fn(e)
		}
	}
}

// Own registers h to be destroyed with the widget.
func (b *Base[P]) Own(h Handle) {
	if h == nil {
		return
	}
	if b.destroyed {
		h.Destroy()
		return
	}
	b.handles = append(b.handles, h)
}

// OnInvalidate sets the host callback run by Invalidate.
func (b *Base[P]) OnInvalidate(fn func()) {
	b.invalidator = fn
}

// Invalidate marks the widget dirty and asks the host to render it again.
func (b *Base[P]) Invalidate() {
	if b.destroyed {
		return
	}
	b.invalidations++
	b.dirty = true
	b.Emit(simpleEvent(EventInvalidated))
	if b.invalidator != nil {
		b.invalidator()
	}
}

// Invalidations returns how many times Invalidate has run.
func (b *Base[P]) Invalidations() int {
	return b.invalidations
}

// Dirty reports whether the widget was invalidated since the last ClearDirty.
func (b *Base[P]) Dirty() bool {
	return b.dirty
}

// ClearDirty is called by hosts after rendering.
func (b *Base[P]) ClearDirty() {
	b.dirty = false
}

// Destroy releases owned handles in reverse order and drops all listeners.
// It is idempotent.
func (b *Base[P]) Destroy() {
	if b.destroyed {
		return
	}
	b.Emit(simpleEvent(EventDestroyed))
	b.destroyed = true

	handles := b.handles
	b.handles = nil
	for i := len(handles) - 1; i >= 0; i-- {
		handles[i].Destroy()
	}
	b.listeners = make(map[string][]*listener)
	b.invalidator = nil
	b.state = make(map[string]any)
}

// Destroyed reports whether Destroy has run.
func (b *Base[P]) Destroyed() bool {
	return b.destroyed
}
