package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	controlsPad     = 8
	titleHeight     = 30
	sectionHeight   = 24
	modelRowHeight  = 28
	nodeRowHeight   = 22
	rowGap          = 2
	toggleWidth     = 52
	removeWidth     = 28
	highlightPrefix = "> "
)

// ModelRow is one loaded model as shown in the panel.
type ModelRow struct {
	Name    string
	Visible bool
	Active  bool
}

// NodeRow is one discovered node of the active model.
type NodeRow struct {
	Label       string
	Highlighted bool
}

// PanelState is the data shown by Controls. Pass it from the viewer layer; ui does not
// depend on the registry.
type PanelState struct {
	Models []ModelRow
	Nodes  []NodeRow
}

// Actions are run when panel buttons are clicked. Indices are 0-based. Nil actions hide
// their buttons.
type Actions struct {
	Select    func(i int)
	Toggle    func(i int)
	Remove    func(i int)
	Highlight func(i int)
	Restore   func()
}

// Controls is the model list panel: one row per model (select, show/hide, remove) and
// below it the node list of the active model (click to highlight).
type Controls struct {
	bounds  rl.Rectangle
	actions Actions
	state   PanelState
	nodes   []*Node
}

// NewControls creates an empty panel occupying the given screen rectangle.
func NewControls(x, y, w, h float32, a Actions) *Controls {
	c := &Controls{bounds: rl.NewRectangle(x, y, w, h), actions: a}
	c.layout()
	return c
}

// Bounds returns the panel rectangle.
func (c *Controls) Bounds() rl.Rectangle { return c.bounds }

// SetState replaces the panel content and rebuilds its nodes.
func (c *Controls) SetState(s PanelState) {
	c.state = s
	c.layout()
}

// Nodes returns the panel nodes in draw order.
func (c *Controls) Nodes() []*Node { return c.nodes }

func (c *Controls) place(n *Node, x, y, w, h float32) *Node {
	n.Bounds = rl.NewRectangle(x, y, w, h)
	c.nodes = append(c.nodes, n)
	return n
}

func (c *Controls) layout() {
	c.nodes = nil
	b := c.bounds
	left := b.X + controlsPad
	inner := b.Width - 2*controlsPad
	bottom := b.Y + b.Height - controlsPad
	y := b.Y + controlsPad

	c.place(NewNode("panel", "controls", "controls", ""), b.X, b.Y, b.Width, b.Height)
	c.place(NewNode("label", "controls-title", "", "Models"), left, y, inner, titleHeight)
	y += titleHeight

	if len(c.state.Models) == 0 {
		c.place(NewNode("label", "muted", "", "No models loaded"), left, y, inner, modelRowHeight)
		y += modelRowHeight
	}
	for i, m := range c.state.Models {
		if y+modelRowHeight > bottom {
			break
		}
		class := "row"
		switch {
		case m.Active:
			class = "row-active"
		case !m.Visible:
			class = "row-hidden"
		}
		label := fmt.Sprintf("%d. %s", i+1, m.Name)
		nameW := inner - toggleWidth - removeWidth - 2*rowGap
		c.place(NewButton(class, label, c.bind(c.actions.Select, i)), left, y, nameW, modelRowHeight)
		toggle := "Hide"
		if !m.Visible {
			toggle = "Show"
		}
		if c.actions.Toggle != nil {
			c.place(NewButton("toggle", toggle, c.bind(c.actions.Toggle, i)), left+nameW+rowGap, y, toggleWidth, modelRowHeight)
		}
		if c.actions.Remove != nil {
			c.place(NewButton("remove", "x", c.bind(c.actions.Remove, i)), left+inner-removeWidth, y, removeWidth, modelRowHeight)
		}
		y += modelRowHeight + rowGap
	}

	if len(c.state.Nodes) == 0 || y+sectionHeight > bottom {
		return
	}
	y += rowGap * 4
	c.place(NewNode("label", "section", "", "Nodes"), left, y, inner-60, sectionHeight)
	if c.actions.Restore != nil {
		c.place(NewButton("clear", "Clear", c.actions.Restore), left+inner-56, y, 56, sectionHeight)
	}
	y += sectionHeight + rowGap
	for i, nr := range c.state.Nodes {
		if y+2*nodeRowHeight > bottom && i < len(c.state.Nodes)-1 {
			more := fmt.Sprintf("+%d more (cmd nodes)", len(c.state.Nodes)-i)
			c.place(NewNode("label", "muted", "", more), left, y, inner, nodeRowHeight)
			return
		}
		class, label := "node-row", nr.Label
		if nr.Highlighted {
			class, label = "node-highlighted", highlightPrefix+nr.Label
		}
		c.place(NewButton(class, label, c.bind(c.actions.Highlight, i)), left, y, inner, nodeRowHeight)
		y += nodeRowHeight + rowGap
	}
}

// bind returns a click action calling fn(i), or nil when fn is nil.
func (c *Controls) bind(fn func(int), i int) func() {
	if fn == nil {
		return nil
	}
	return func() { fn(i) }
}
