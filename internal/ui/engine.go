package ui

import (
	_ "embed"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 20

//go:embed controls.css
var defaultCSS string

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached and only recomputed when sheet or nodes change to avoid per-frame allocations.
type Engine struct {
	sheet        *Stylesheet
	nodes        []*Node
	cachedStyles []ComputedStyle
	cacheValid   bool
}

// New creates a UI engine with the built-in controls stylesheet and no nodes.
func New() *Engine {
	e := &Engine{}
	if sheet, err := ParseCSS(defaultCSS); err == nil {
		e.sheet = sheet
	}
	return e
}

// LoadCSS loads and parses a CSS file from path and appends its rules to the
// current stylesheet, so it overrides the built-in look.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	if e.sheet == nil {
		e.sheet = &Stylesheet{}
	}
	e.sheet.Rules = append(e.sheet.Rules, sheet.Rules...)
	e.cacheValid = false
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded or merged CSS).
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cacheValid = false
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
	e.cacheValid = false
}

// resolveProps returns merged properties for a node (type, class and id matched; last wins).
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for _, rule := range e.sheet.Rules {
		sel := rule.Selector
		if sel == "" {
			continue
		}
		var matches bool
		switch sel[0] {
		case '.':
			matches = n.Class == sel[1:]
		case '#':
			matches = n.ID == sel[1:]
		default:
			matches = n.Type == sel
		}
		if matches {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// resolveBounds applies explicit size and position from style to n.Bounds.
func resolveBounds(n *Node, style ComputedStyle) {
	if style.Width > 0 {
		n.Bounds.Width = float32(style.Width)
	}
	if style.Height > 0 {
		n.Bounds.Height = float32(style.Height)
	}
	if style.HasLeft {
		n.Bounds.X = float32(style.Left)
	}
	if style.HasTop {
		n.Bounds.Y = float32(style.Top)
	}
}

func (e *Engine) ensureStyles() {
	if e.cacheValid {
		return
	}
	e.cachedStyles = make([]ComputedStyle, len(e.nodes))
	for i, n := range e.nodes {
		e.cachedStyles[i] = ResolveProps(e.resolveProps(n))
		resolveBounds(n, e.cachedStyles[i])
	}
	e.cacheValid = true
}

// rect returns the on-screen rectangle of node i, applying percentage positioning.
func (e *Engine) rect(i int, screenW, screenH int32) (x, y, w, h int32) {
	n, style := e.nodes[i], e.cachedStyles[i]
	w, h = int32(n.Bounds.Width), int32(n.Bounds.Height)
	x, y = int32(n.Bounds.X), int32(n.Bounds.Y)
	if style.LeftPct >= 0 {
		x = (screenW - w) * style.LeftPct / 100
	}
	if style.TopPct >= 0 {
		y = (screenH - h) * style.TopPct / 100
	}
	return x, y, w, h
}

// Contains reports whether (x, y) lies on a panel, so pointer input there
// belongs to the UI.
func (e *Engine) Contains(px, py float64) bool {
	e.ensureStyles()
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	for i, n := range e.nodes {
		if n.Type != "panel" {
			continue
		}
		if e.hit(i, px, py, sw, sh) {
			return true
		}
	}
	return false
}

// Click runs the action of the topmost clickable node under (x, y) and
// reports whether one ran.
func (e *Engine) Click(px, py float64) bool {
	e.ensureStyles()
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	for i := len(e.nodes) - 1; i >= 0; i-- {
		n := e.nodes[i]
		if n.OnClick == nil || !e.hit(i, px, py, sw, sh) {
			continue
		}
		n.OnClick()
		return true
	}
	return false
}

func (e *Engine) hit(i int, px, py float64, sw, sh int32) bool {
	x, y, w, h := e.rect(i, sw, sh)
	return px >= float64(x) && px < float64(x+w) && py >= float64(y) && py < float64(y+h)
}

// Draw draws all nodes: for each node, resolve style (cached), update bounds from style, then draw background, border, and text.
func (e *Engine) Draw() {
	e.ensureStyles()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	mouse := rl.GetMousePosition()
	for i, n := range e.nodes {
		style := e.cachedStyles[i]
		x, y, w, h := e.rect(i, screenW, screenH)

		if style.Background.A > 0 {
			bg := style.Background
			if n.OnClick != nil && e.hit(i, float64(mouse.X), float64(mouse.Y), screenW, screenH) {
				bg = rl.ColorBrightness(bg, 0.25)
			}
			rl.DrawRectangle(x, y, w, h, bg)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text != "" {
			pad := style.Padding
			if pad <= 0 {
				pad = 4
			}
			rl.DrawText(n.Text, x+pad, y+pad, style.FontSize, style.Color)
		}
	}
}

// HasStylesheet returns whether any CSS rules are loaded.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}
