// Package vdom provides the virtual DOM node model used by dgrid widgets.
//
// VNode is the building block representing elements, text, fragments,
// components, and raw HTML. Props holds attributes and event handlers. Attr and
// EventHandler are used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Td(Class("dgrid-cell"), Key("name"),
//	    Input(Type("text"), Value("Ada"), OnChange(func(v string) { ... })),
//	)
//
// # Hydration
//
// AssignHIDs walks the tree and assigns hydration IDs to interactive elements
// (those with event handlers). A host that renders the tree to a remote
// client uses the IDs to route client events back to the handlers with
// FindByHID and Dispatch.
//
// There is no diffing here: hosts re-render a widget as a whole when it is
// invalidated.
package vdom
