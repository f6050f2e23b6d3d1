package vdom

import (
	"fmt"
	"strings"
	"sync"
)

// HIDGenerator generates unique hydration IDs for interactive elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Reset resets the counter to 0.
func (g *HIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// AssignHIDs walks the tree and assigns HIDs to interactive elements.
// Component nodes are expanded in place so that their output is addressable.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}

	for node.Kind == KindComponent && node.Comp != nil {
		out := node.Comp.Render()
		if out == nil {
			node.Comp = nil
			break
		}
		*node = *out
	}

	if node.Kind == KindElement && node.IsInteractive() {
		node.HID = gen.Next()
	}

	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(node *VNode, hid string) *VNode {
	if hid == "" {
		return nil
	}
	return Find(node, func(n *VNode) bool { return n.HID == hid })
}

// CollectHandlers returns the event handlers of every node with a HID,
// keyed "hid_eventname" (e.g., "h1_onclick").
func CollectHandlers(node *VNode) map[string]any {
	handlers := make(map[string]any)
	for _, n := range FindAll(node, func(n *VNode) bool { return n.HID != "" }) {
		for key, value := range n.Props {
			if strings.HasPrefix(key, "on") && value != nil {
				handlers[n.HID+"_"+key] = value
			}
		}
	}
	return handlers
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(node *VNode) int {
	return len(FindAll(node, (*VNode).IsInteractive))
}

// ClearHIDs removes all HIDs from the tree.
func ClearHIDs(node *VNode) {
	if node == nil {
		return
	}
	node.HID = ""
	for _, child := range node.Children {
		ClearHIDs(child)
	}
}
