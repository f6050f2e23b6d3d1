package widget

// Event types emitted by Base.
const (
	EventPropertiesChanged = "properties:changed"
	EventStateChanged      = "state:changed"
	EventInvalidated       = "invalidated"
	EventDestroyed         = "destroyed"
)

// Event is anything dispatched through a widget's event bus.
type Event interface {
	EventType() string
}

// PropertiesChanged is emitted by SetProperties when at least one property
// differs from the previous bag.
type PropertiesChanged[P any] struct {
	ChangedPropertyKeys []string
	Properties          P
	Previous            P
}

// EventType implements Event.
func (PropertiesChanged[P]) EventType() string { return EventPropertiesChanged }

// Changed reports whether key is among the changed property keys.
func (e PropertiesChanged[P]) Changed(key string) bool {
	for _, k := range e.ChangedPropertyKeys {
		if k == key {
			return true
		}
	}
	return false
}

// StateChanged is emitted by SetState.
type StateChanged struct {
	Key   string
	Value any
}

// EventType implements Event.
func (StateChanged) EventType() string { return EventStateChanged }

// simpleEvent carries only a type.
type simpleEvent string

func (e simpleEvent) EventType() string { return string(e) }

// Handle releases a subscription or other owned resource.
type Handle interface {
	Destroy()
}

// HandleFunc adapts a function to Handle.
type HandleFunc func()

// Destroy implements Handle.
func (f HandleFunc) Destroy() {
	if f != nil {
		f()
	}
}

type listener struct {
	fn     func(Event)
	active bool
}
