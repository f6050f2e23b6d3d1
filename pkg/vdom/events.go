package vdom

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events. Handler: func().
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnDblClick handles double-click events. Handler: func().
func OnDblClick(handler any) EventHandler { return event("dblclick", handler) }

// OnInput handles input events (fired when value changes). Handler: func(string).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed). Handler: func(string).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnKeyDown handles keydown events. Handler: func(string) receiving the key.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }

// OnBlur handles blur events. Handler: func().
func OnBlur(handler any) EventHandler { return event("blur", handler) }

// Dispatch invokes handler with value. It supports the handler shapes the
// element constructors document: func(), func(string) and func(any).
// It reports whether the handler shape was recognised.
func Dispatch(handler any, value string) bool {
	switch h := handler.(type) {
	case func():
		h()
	case func(string):
		h(value)
	case func(any):
		h(value)
	default:
		return false
	}
	return true
}
