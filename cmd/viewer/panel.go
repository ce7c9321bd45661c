package main

import (
	"log/slog"

	"model-viewer/internal/bus"
	"model-viewer/internal/engineconfig"
	"model-viewer/internal/highlight"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
	"model-viewer/internal/ui"
)

// panel keeps the controls panel in step with the registry and the highlighter.
type panel struct {
	reg      *registry.Registry
	hl       *highlight.Highlighter
	ui       *ui.Engine
	controls *ui.Controls
	log      *slog.Logger

	dirty       bool
	highlighted *scenegraph.Node
}

func newPanel(b *bus.Bus, reg *registry.Registry, hl *highlight.Highlighter, r engineconfig.Region, log *slog.Logger) *panel {
	p := &panel{reg: reg, hl: hl, ui: ui.New(), log: log, dirty: true}
	p.controls = ui.NewControls(float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), ui.Actions{
		Select:    func(i int) { reg.Select(i) },
		Toggle:    func(i int) { reg.ToggleVisible(i) },
		Remove:    func(i int) { reg.Remove(i) },
		Highlight: p.highlight,
		Restore:   hl.Restore,
	})
	bus.Subscribe(b, func(bus.ModelListChanged) { p.dirty = true })
	bus.Subscribe(b, func(bus.ModelSelected) { p.dirty = true })
	bus.Subscribe(b, func(bus.NodeDiscoveryRequested) { p.dirty = true })
	return p
}

func (p *panel) highlight(i int) {
	if _, err := p.hl.HighlightByIndex(i); err != nil {
		p.log.Warn("could not highlight node", "index", i+1, "err", err)
	}
}

// refresh rebuilds the panel when models, nodes or the highlight changed.
func (p *panel) refresh() {
	if cur := p.hl.Current(); cur != p.highlighted {
		p.highlighted = cur
		p.dirty = true
	}
	if !p.dirty {
		return
	}
	p.dirty = false

	var st ui.PanelState
	for i, s := range p.reg.Snapshots() {
		st.Models = append(st.Models, ui.ModelRow{
			Name:    s.DisplayName,
			Visible: s.Visible,
			Active:  i == p.reg.ActiveIndex(),
		})
	}
	for _, d := range p.hl.Nodes() {
		st.Nodes = append(st.Nodes, ui.NodeRow{Label: d.String(), Highlighted: d.Node == p.highlighted})
	}
	p.controls.SetState(st)
	p.ui.SetNodes(p.controls.Nodes())
}

func (p *panel) draw() { p.ui.Draw() }
