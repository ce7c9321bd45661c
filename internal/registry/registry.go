// Package registry tracks the independently loaded models of the viewer:
// their order, which one is active, visibility, movement, scale and yaw.
// Lookups are positional, so every public operation validates its index.
package registry

import (
	"errors"
	"log/slog"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"model-viewer/internal/bus"
	"model-viewer/internal/sanitize"
	"model-viewer/internal/scenegraph"
)

var (
	ErrInvalidIndex   = errors.New("registry: index out of range")
	ErrNoActiveEntry  = errors.New("registry: no active model")
	ErrLoadSuperseded = errors.New("registry: load superseded by a newer replace")
	ErrInvalidFactor  = errors.New("registry: scale factor must be positive")
)

const (
	DefaultMoveSpeed = 0.01
	DefaultMinScale  = 0.05
	DefaultMaxScale  = 10
)

// Scene is the attach/detach primitive of the live scene.
type Scene interface {
	Attach(n *scenegraph.Node)
	Detach(n *scenegraph.Node) bool
}

// ModelEntry is one loaded top-level model.
type ModelEntry struct {
	ID          string
	DisplayName string
	SourcePath  string
	Visible     bool
	Root        *scenegraph.Node

	baseScale math32.Vector3
}

// Position returns the model's position in scene space.
func (e *ModelEntry) Position() math32.Vector3 { return e.Root.Position }

// Rotation returns the model's Euler rotation.
func (e *ModelEntry) Rotation() math32.Vector3 { return e.Root.Rotation }

// Scale returns the model's current scale.
func (e *ModelEntry) Scale() math32.Vector3 { return e.Root.Scale }

// BaseScale returns the scale the model had when it was ingested.
func (e *ModelEntry) BaseScale() math32.Vector3 { return e.baseScale }

// Direction is a horizontal movement vector.
type Direction struct {
	X, Z float32
}

var (
	Forward  = Direction{X: 0, Z: -1}
	Backward = Direction{X: 0, Z: 1}
	Left     = Direction{X: -1, Z: 0}
	Right    = Direction{X: 1, Z: 0}
)

// Registry owns the ordered list of models. It is not safe for concurrent
// use; every call is expected on the frame/input goroutine.
type Registry struct {
	scene     Scene
	sanitizer *sanitize.Sanitizer
	bus       *bus.Bus
	log       *slog.Logger

	entries []*ModelEntry
	active  int
	owners  map[*scenegraph.Node]*ModelEntry

	moving bool
	move   Direction
	speed  float32

	minScale, maxScale float32
	shadows            bool

	generation uint64
	onRemove   []func(*ModelEntry)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lifecycle and sanitizer records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithBus sets the bus that receives selection and list notifications.
func WithBus(b *bus.Bus) Option {
	return func(r *Registry) { r.bus = b }
}

// WithMoveSpeed sets the per-tick movement distance.
func WithMoveSpeed(speed float32) Option {
	return func(r *Registry) { r.speed = speed }
}

// WithScaleLimits sets the clamp applied by ScaleActive, relative to the
// ingest-time scale of each model.
func WithScaleLimits(lo, hi float32) Option {
	return func(r *Registry) {
		if lo > 0 && hi >= lo {
			r.minScale, r.maxScale = lo, hi
		}
	}
}

// New returns an empty registry attaching models to scene.
func New(scene Scene, opts ...Option) *Registry {
	r := &Registry{
		scene:    scene,
		active:   -1,
		owners:   make(map[*scenegraph.Node]*ModelEntry),
		speed:    DefaultMoveSpeed,
		minScale: DefaultMinScale,
		maxScale: DefaultMaxScale,
		shadows:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	r.sanitizer = sanitize.New(r.log)
	return r
}

// OnRemove registers fn to run for every entry leaving the registry,
// including entries cleared by a replacing ingest.
func (r *Registry) OnRemove(fn func(*ModelEntry)) {
	r.onRemove = append(r.onRemove, fn)
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns the entries in order. The slice is a copy.
func (r *Registry) Entries() []*ModelEntry {
	return append([]*ModelEntry(nil), r.entries...)
}

// Entry returns the entry at i or nil.
func (r *Registry) Entry(i int) *ModelEntry {
	if !r.valid(i) {
		return nil
	}
	return r.entries[i]
}

// ActiveIndex returns the index of the active entry, or -1.
func (r *Registry) ActiveIndex() int { return r.active }

// Active returns the active entry or nil.
func (r *Registry) Active() *ModelEntry {
	if !r.valid(r.active) {
		return nil
	}
	return r.entries[r.active]
}

// IndexOf returns the position of the entry with the given ID, or -1.
func (r *Registry) IndexOf(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// OwnerOf resolves any node of a loaded model to its entry and index.
func (r *Registry) OwnerOf(n *scenegraph.Node) (int, *ModelEntry) {
	if n == nil {
		return -1, nil
	}
	e, ok := r.owners[n]
	if !ok {
		return -1, nil
	}
	return r.IndexOf(e.ID), e
}

func (r *Registry) valid(i int) bool {
	return i >= 0 && i < len(r.entries)
}

// Ingest sanitizes root, prepares it for shadowing, attaches it to the
// scene and records it as a new entry. Unless add is set, every existing
// entry is removed first. The new entry becomes active when it replaced the
// previous models or is the only one.
func (r *Registry) Ingest(root *scenegraph.Node, displayName, sourcePath string, add bool) *ModelEntry {
	if root == nil {
		return nil
	}
	if !add {
		r.clear()
	}

	rep := r.sanitizer.Run(root)
	if len(rep.Removed) > 0 {
		r.log.Warn("sanitized model", "name", displayName, "removed", len(rep.Removed))
	}
	enableShadows(root, r.shadows)
	root.Visible = true

	e := &ModelEntry{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		SourcePath:  sourcePath,
		Visible:     true,
		Root:        root,
		baseScale:   root.Scale,
	}
	root.Walk(func(n *scenegraph.Node, _ int) bool {
		r.owners[n] = e
		return true
	})
	r.scene.Attach(root)
	r.entries = append(r.entries, e)
	r.log.Info("model loaded", "name", displayName, "source", sourcePath, "entries", len(r.entries))

	if !add || len(r.entries) == 1 {
		r.active = len(r.entries) - 1
		r.publishSelected()
	} else {
		r.publish(bus.NodeDiscoveryRequested{EntryID: e.ID, Root: root})
	}
	r.publishList()
	return e
}

// Select makes the entry at i active and returns it. An out-of-range index
// returns nil and leaves the selection unchanged.
func (r *Registry) Select(i int) *ModelEntry {
	if !r.valid(i) {
		return nil
	}
	r.active = i
	r.publishSelected()
	return r.entries[i]
}

// Remove detaches the entry at i and re-derives the active index so it keeps
// pointing at the same logical entry where possible.
func (r *Registry) Remove(i int) bool {
	if !r.valid(i) {
		return false
	}
	e := r.entries[i]
	r.detach(e)
	r.entries = append(r.entries[:i], r.entries[i+1:]...)

	activeChanged := false
	switch {
	case len(r.entries) == 0:
		r.active = -1
	case i == r.active:
		r.active = 0
		activeChanged = true
	case i < r.active:
		r.active--
	}
	r.log.Info("model removed", "name", e.DisplayName, "index", i, "entries", len(r.entries))
	r.notifyRemoved(e)
	if activeChanged {
		r.publishSelected()
	}
	r.publishList()
	return true
}

// ToggleVisible flips the visibility of the entry at i and returns the new
// state. An out-of-range index returns false.
func (r *Registry) ToggleVisible(i int) bool {
	if !r.valid(i) {
		return false
	}
	e := r.entries[i]
	e.Visible = !e.Visible
	e.Root.Visible = e.Visible
	r.publishList()
	return e.Visible
}

// StartMove starts continuous movement of whichever entry is active on
// each Tick.
func (r *Registry) StartMove(d Direction) {
	r.move = d
	r.moving = true
}

// StopMove stops continuous movement.
func (r *Registry) StopMove() {
	r.move = Direction{}
	r.moving = false
}

// Moving reports whether a movement command is in effect.
func (r *Registry) Moving() bool { return r.moving }

// Tick advances the active entry horizontally by one frame of movement.
func (r *Registry) Tick() {
	e := r.Active()
	if !r.moving || e == nil {
		return
	}
	e.Root.Position.X += r.move.X * r.speed
	e.Root.Position.Z += r.move.Z * r.speed
}

// ScaleActive multiplies the active entry's scale by factor, clamped to the
// configured range relative to its ingest-time scale. Non-positive factors
// are ignored.
func (r *Registry) ScaleActive(factor float32) {
	e := r.Active()
	if e == nil || !(factor > 0) {
		return
	}
	basis := e.baseScale.X
	if basis == 0 {
		basis = 1
	}
	rel := e.Root.Scale.X / basis * factor
	rel = max(r.minScale, min(r.maxScale, rel))
	e.Root.Scale = e.baseScale.MulScalar(rel)
	if e.baseScale.X == 0 {
		e.Root.Scale = math32.Vec3(rel, rel, rel)
	}
}

// RotateActive adds delta radians to the active entry's yaw.
func (r *Registry) RotateActive(delta float32) {
	if e := r.Active(); e != nil {
		e.Root.Rotation.Y += delta
	}
}

// SetShadows switches shadow casting and receiving on every loaded mesh.
// Enabling converts surfaces that cannot take part in shadowing.
func (r *Registry) SetShadows(enabled bool) {
	r.shadows = enabled
	for _, e := range r.entries {
		enableShadows(e.Root, enabled)
	}
	r.log.Info("shadows toggled", "enabled", enabled)
}

// Shadows reports whether shadows are enabled for loaded models.
func (r *Registry) Shadows() bool { return r.shadows }

func enableShadows(root *scenegraph.Node, enabled bool) {
	for _, m := range root.Meshes(nil) {
		m.CastShadow = enabled
		m.ReceiveShadow = enabled
		if !enabled {
			continue
		}
		for i, mat := range m.Materials {
			if mat != nil && !mat.ShadowCapable() {
				m.Materials[i] = mat.Lambert()
			}
		}
	}
}

func (r *Registry) clear() {
	old := r.entries
	r.entries = nil
	r.active = -1
	for _, e := range old {
		r.detach(e)
		r.notifyRemoved(e)
	}
	if len(old) > 0 {
		r.log.Info("models cleared", "count", len(old))
	}
}

func (r *Registry) detach(e *ModelEntry) {
	r.scene.Detach(e.Root)
	e.Root.Walk(func(n *scenegraph.Node, _ int) bool {
		delete(r.owners, n)
		return true
	})
}

func (r *Registry) notifyRemoved(e *ModelEntry) {
	for _, fn := range r.onRemove {
		fn(e)
	}
}

func (r *Registry) publish(ev bus.Event) {
	if r.bus != nil {
		r.bus.Publish(ev)
	}
}

func (r *Registry) publishSelected() {
	e := r.Active()
	if e == nil {
		return
	}
	r.publish(bus.ModelSelected{Index: r.active, Entry: Snapshot(e)})
	r.publish(bus.NodeDiscoveryRequested{EntryID: e.ID, Root: e.Root})
}

func (r *Registry) publishList() {
	r.publish(bus.ModelListChanged{Entries: r.Snapshots(), ActiveIndex: r.active})
}
