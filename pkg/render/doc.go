// Package render renders dgrid VNode trees to HTML.
//
// Output is deterministic: attributes are written in key order, void elements
// have no closing tag, boolean attributes are written bare, and every text
// node and attribute value is escaped. Elements that carry a hydration ID are
// written with data-hid, and each of their handlers with a data-on-<event>
// marker, so a live client can route events back by ID.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderPage wraps a tree in a full document produced by a safehtml template.
package render
