// Package widget is the small runtime contract dgrid widgets are written
// against.
//
// A widget embeds Base, which owns a typed properties bag and an ad-hoc state
// map, emits "properties:changed" and "state:changed" events, and forwards
// Invalidate calls to whatever host renders the widget (an HTTP session, a
// terminal program, a test). Handles returned by On and registered with Own
// are released by Destroy.
//
// Child widgets are looked up through a Registry owned by the parent instance:
// an explicit map from a capability tag ("dgrid-cell") to a Factory. There is
// no process-wide registry.
//
// Widgets are not safe for concurrent use. A host drives each instance from a
// single goroutine.
package widget
