package highlight

import (
	"fmt"
	"log/slog"

	"github.com/jinzhu/copier"

	"model-viewer/internal/bus"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

const (
	DefaultColor    = 0xff0000
	DefaultEmissive = 0x550000
)

// Appearance is the part of a material the highlight overrides.
type Appearance struct {
	Color    scenegraph.Color
	Emissive *scenegraph.Color
}

func capture(m *scenegraph.Material) Appearance {
	var a Appearance
	if err := copier.CopyWithOption(&a, m, copier.Option{DeepCopy: true}); err != nil {
		a.Color = m.Color
		if m.Emissive != nil {
			e := *m.Emissive
			a.Emissive = &e
		}
	}
	return a
}

func (a Appearance) apply(m *scenegraph.Material) {
	m.Color = a.Color
	if a.Emissive != nil && m.Emissive != nil {
		*m.Emissive = *a.Emissive
	}
}

type saved struct {
	mat *scenegraph.Material
	was Appearance
}

// state holds the appearance of each distinct material of node, captured
// before the tint. A material listed twice is captured once.
type state struct {
	node  *scenegraph.Node
	saved []saved
}

// Highlighter keeps at most one node tinted and the node list of the model
// most recently announced for discovery.
type Highlighter struct {
	color    scenegraph.Color
	emissive scenegraph.Color
	log      *slog.Logger

	current *state
	root    *scenegraph.Node
	nodes   []NodeDescriptor
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithColors sets the tint as 0xRRGGBB color and emissive values.
func WithColors(color, emissive uint32) Option {
	return func(h *Highlighter) {
		h.color = scenegraph.ColorHex(color)
		h.emissive = scenegraph.ColorHex(emissive)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Highlighter) { h.log = l }
}

// New returns a highlighter with the default red tint.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		color:    scenegraph.ColorHex(DefaultColor),
		emissive: scenegraph.ColorHex(DefaultEmissive),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = slog.New(slog.DiscardHandler)
	}
	return h
}

// Attach subscribes h to discovery requests on b and drops any state tied to
// models removed from reg.
func (h *Highlighter) Attach(b *bus.Bus, reg *registry.Registry) bus.Subscription {
	reg.OnRemove(func(e *registry.ModelEntry) { h.forget(e.Root) })
	return bus.Subscribe(b, func(ev bus.NodeDiscoveryRequested) {
		h.Refresh(ev.Root)
	})
}

// Refresh rebuilds the node list from root.
func (h *Highlighter) Refresh(root *scenegraph.Node) []NodeDescriptor {
	h.root = root
	h.nodes = Discover(root)
	if len(h.nodes) == 0 {
		h.log.Info("no named nodes found")
	} else {
		h.log.Info("discovered nodes", "root", root.Name, "count", len(h.nodes))
	}
	return h.nodes
}

// Nodes returns the current node list.
func (h *Highlighter) Nodes() []NodeDescriptor { return h.nodes }

// Current returns the highlighted node or nil.
func (h *Highlighter) Current() *scenegraph.Node {
	if h.current == nil {
		return nil
	}
	return h.current.node
}

// Highlight restores the previous highlight, saves n's per-surface
// appearance and tints every surface of n.
func (h *Highlighter) Highlight(n *scenegraph.Node) {
	h.Restore()
	if n == nil {
		return
	}
	st := &state{node: n}
	seen := make(map[*scenegraph.Material]bool, len(n.Materials))
	for _, m := range n.Materials {
		if m == nil || seen[m] {
			continue
		}
		seen[m] = true
		st.saved = append(st.saved, saved{mat: m, was: capture(m)})
		m.Color = h.color
		if m.Emissive != nil {
			*m.Emissive = h.emissive
		}
	}
	h.current = st
	h.log.Debug("highlighted node", "node", n.Name, "surfaces", len(n.Materials))
}

// HighlightByIndex highlights entry i of the node list.
func (h *Highlighter) HighlightByIndex(i int) (NodeDescriptor, error) {
	if i < 0 || i >= len(h.nodes) {
		return NodeDescriptor{}, fmt.Errorf("highlight node %d of %d: %w", i+1, len(h.nodes), registry.ErrInvalidIndex)
	}
	d := h.nodes[i]
	h.Highlight(d.Node)
	return d, nil
}

// Restore puts back the appearance saved for the highlighted node.
func (h *Highlighter) Restore() {
	st := h.current
	if st == nil {
		return
	}
	h.current = nil
	for _, s := range st.saved {
		s.was.apply(s.mat)
	}
}

func (h *Highlighter) forget(root *scenegraph.Node) {
	if h.current != nil && h.current.node.IsDescendantOf(root) {
		h.Restore()
	}
	if h.root == root {
		h.root = nil
		h.nodes = nil
	}
}
