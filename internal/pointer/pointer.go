// Package pointer turns pointer and keyboard input into selection and
// planar drag of registry entries.
//
// The engine is a two-state machine. A pointer-down that hits a visible
// model starts a drag session bound to that model; pointer-up or Cancel
// ends it. While idle, pointer moves only update the cursor hint.
package pointer

import (
	"log/slog"

	"cogentcore.org/core/math32"

	"model-viewer/internal/bus"
	"model-viewer/internal/geom"
	"model-viewer/internal/registry"
)

// State is the drag state of an Engine.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Cursor is the pointer affordance the UI should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
)

// Key is a keyboard shortcut understood by the engine.
type Key int

const (
	KeyNone Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyNext
	KeyEscape
	KeyLight
)

// RayProvider converts normalized device coordinates to a world ray.
type RayProvider interface {
	RayAt(ndc math32.Vector2) math32.Ray
}

// OrbitLock lets the engine suspend camera orbit input during a drag.
type OrbitLock interface {
	SetOrbitEnabled(enabled bool)
}

// Session binds an in-progress drag to one entry.
type Session struct {
	EntryID string
	// Offset is the hit point minus the entry position at drag start.
	Offset math32.Vector3
	Plane  math32.Plane
}

// Engine is the pointer state machine. Like the registry it drives, it is
// used from a single goroutine.
type Engine struct {
	reg      *registry.Registry
	rays     RayProvider
	bus      *bus.Bus
	reserved ReservedRegion
	orbit    OrbitLock
	log      *slog.Logger

	width, height float64

	state   State
	session *Session
	cursor  Cursor
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus sets the bus that receives light toggle requests.
func WithBus(b *bus.Bus) Option { return func(e *Engine) { e.bus = b } }

// WithReservedRegion sets the screen area where pointer-down is ignored.
func WithReservedRegion(r ReservedRegion) Option { return func(e *Engine) { e.reserved = r } }

// WithOrbitLock sets the camera control toggled during drags.
func WithOrbitLock(o OrbitLock) Option { return func(e *Engine) { e.orbit = o } }

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithViewport sets the pixel size used to normalize pointer positions.
func WithViewport(w, h float64) Option {
	return func(e *Engine) { e.SetViewport(w, h) }
}

// New returns an idle engine for reg. The engine ends any drag session whose
// entry is removed from reg.
func New(reg *registry.Registry, rays RayProvider, opts ...Option) *Engine {
	e := &Engine{reg: reg, rays: rays, width: 1, height: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	reg.OnRemove(func(m *registry.ModelEntry) {
		if e.session != nil && e.session.EntryID == m.ID {
			e.endDrag()
		}
	})
	return e
}

// SetViewport updates the pixel size used to normalize pointer positions.
func (e *Engine) SetViewport(w, h float64) {
	if w > 0 && h > 0 {
		e.width, e.height = w, h
	}
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Cursor returns the current cursor hint.
func (e *Engine) Cursor() Cursor { return e.cursor }

// Session returns a copy of the live drag session.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

func (e *Engine) ray(x, y float64) math32.Ray {
	ndc := geom.NDC(float32(x), float32(y), float32(e.width), float32(e.height))
	return e.rays.RayAt(ndc)
}

func (e *Engine) inReserved(x, y float64) bool {
	return e.reserved != nil && e.reserved.Contains(x, y)
}

// PointerDown starts a drag if the pointer at (x, y) hits a visible model.
// A hit on a model other than the active one selects it first. It reports
// whether a drag started.
func (e *Engine) PointerDown(x, y float64) bool {
	if e.state == Dragging || e.reg.Active() == nil || e.inReserved(x, y) {
		return false
	}
	hit, ok := HitTest(e.reg, e.ray(x, y))
	if !ok {
		return false
	}
	if hit.Index != e.reg.ActiveIndex() {
		e.reg.Select(hit.Index)
	}
	target := e.reg.Active()
	pos := target.Root.Position
	e.session = &Session{
		EntryID: target.ID,
		Offset:  hit.Point.Sub(pos),
		Plane:   geom.HorizontalPlane(pos),
	}
	e.state = Dragging
	e.cursor = CursorGrabbing
	if e.orbit != nil {
		e.orbit.SetOrbitEnabled(false)
	}
	e.log.Debug("drag started", "model", target.DisplayName, "node", hit.Node.Name)
	return true
}

// PointerMove moves the dragged model along its drag plane, or updates the
// hover cursor when idle.
func (e *Engine) PointerMove(x, y float64) {
	if e.state == Dragging {
		e.drag(x, y)
		return
	}
	if e.inReserved(x, y) {
		e.cursor = CursorDefault
		return
	}
	if _, ok := HitTest(e.reg, e.ray(x, y)); ok {
		e.cursor = CursorGrab
	} else {
		e.cursor = CursorDefault
	}
}

func (e *Engine) drag(x, y float64) {
	target := e.reg.Entry(e.reg.IndexOf(e.session.EntryID))
	if target == nil {
		e.endDrag()
		return
	}
	r := e.ray(x, y)
	p, ok := r.IntersectPlane(e.session.Plane)
	if !ok {
		return
	}
	next := p.Sub(e.session.Offset)
	target.Root.Position.X = next.X
	target.Root.Position.Z = next.Z
}

// PointerUp ends the drag session, if any.
func (e *Engine) PointerUp() {
	if e.state == Dragging {
		e.endDrag()
	}
}

// Cancel ends the drag session without a pointer-up and stops any movement
// command.
func (e *Engine) Cancel() {
	if e.state == Dragging {
		e.endDrag()
	}
	e.reg.StopMove()
}

func (e *Engine) endDrag() {
	e.session = nil
	e.state = Idle
	e.cursor = CursorDefault
	if e.orbit != nil {
		e.orbit.SetOrbitEnabled(true)
	}
}

// KeyDown handles a shortcut and reports whether it was consumed.
func (e *Engine) KeyDown(k Key) bool {
	switch {
	case k >= Key1 && k <= Key9:
		i := int(k - Key1)
		if i >= e.reg.Len() {
			return false
		}
		e.reg.Select(i)
	case k == KeyNext:
		if e.reg.Len() <= 1 {
			return false
		}
		e.reg.Select((e.reg.ActiveIndex() + 1) % e.reg.Len())
	case k == KeyEscape:
		e.Cancel()
	case k == KeyLight:
		if e.bus != nil {
			e.bus.Publish(bus.LightToggleRequested{})
		}
	default:
		return false
	}
	return true
}
