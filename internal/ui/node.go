package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, button. It has optional class and id for CSS matching,
// bounds (position and size), optional text, and an optional click action.
type Node struct {
	Type    string // "panel", "label", "button"
	Class   string // e.g. "row" for .row
	ID      string // e.g. "controls" for #controls
	Bounds  rl.Rectangle
	Text    string
	OnClick func()
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{
		Type:  typ,
		Class: class,
		ID:    id,
		Text:  text,
	}
}

// NewButton creates a clickable node.
func NewButton(class, text string, onClick func()) *Node {
	n := NewNode("button", class, "", text)
	n.OnClick = onClick
	return n
}
