package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}

	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Repeat creates n nodes using the given function.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	result := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// TextContent concatenates the text of node and its descendants.
// Component children are rendered to collect their text.
func TextContent(node *VNode) string {
	if node == nil {
		return ""
	}
	switch node.Kind {
	case KindText, KindRaw:
		return node.Text
	case KindComponent:
		if node.Comp == nil {
			return ""
		}
		return TextContent(node.Comp.Render())
	}
	var s string
	for _, child := range node.Children {
		s += TextContent(child)
	}
	return s
}

// Find returns the first node in depth-first order for which match returns true.
func Find(node *VNode, match func(*VNode) bool) *VNode {
	if node == nil {
		return nil
	}
	if match(node) {
		return node
	}
	for _, child := range node.Children {
		if found := Find(child, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in depth-first order for which match returns true.
func FindAll(node *VNode, match func(*VNode) bool) []*VNode {
	var out []*VNode
	var walk func(*VNode)
	walk = func(n *VNode) {
		if n == nil {
			return
		}
		if match(n) {
			out = append(out, n)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return out
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*VNode) bool {
	return func(n *VNode) bool {
		return n.Kind == KindElement && n.Tag == tag
	}
}

// ByAttr matches elements whose attribute key equals value.
func ByAttr(key string, value any) func(*VNode) bool {
	return func(n *VNode) bool {
		return n.Kind == KindElement && n.Props[key] == value
	}
}
