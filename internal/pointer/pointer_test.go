package pointer

import (
	"math/rand/v2"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/bus"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

// topDown casts straight down from y=10; ndc (±1, ±1) maps to world ±10 on
// x and ∓10 on z.
type topDown struct{ calls int }

func (r *topDown) RayAt(ndc math32.Vector2) math32.Ray {
	r.calls++
	return math32.Ray{Origin: math32.Vec3(ndc.X*10, 10, -ndc.Y*10), Dir: math32.Vec3(0, -1, 0)}
}

type orbit struct{ enabled []bool }

func (o *orbit) SetOrbitEnabled(v bool) { o.enabled = append(o.enabled, v) }

// quad returns a 2x2 horizontal model centred on pos.
func quad(name string, pos math32.Vector3) *scenegraph.Node {
	root := scenegraph.NewNode(name, scenegraph.TypeGroup)
	root.Position = pos
	g := &scenegraph.Geometry{
		Positions: []math32.Vector3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	root.Add(scenegraph.NewMesh(name+"-surface", g, scenegraph.NewMaterial(scenegraph.MaterialStandard)))
	return root
}

type fixture struct {
	reg      *registry.Registry
	bus      *bus.Bus
	rays     *topDown
	orbit    *orbit
	engine   *Engine
	selected []int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{bus: bus.New(), rays: &topDown{}, orbit: &orbit{}}
	f.reg = registry.New(scenegraph.NewScene(), registry.WithBus(f.bus))
	opts = append([]Option{WithBus(f.bus), WithOrbitLock(f.orbit), WithViewport(200, 200)}, opts...)
	f.engine = New(f.reg, f.rays, opts...)
	return f
}

func (f *fixture) watchSelection() {
	bus.Subscribe(f.bus, func(e bus.ModelSelected) { f.selected = append(f.selected, e.Index) })
}

func TestDragIsPlanar(t *testing.T) {
	f := newFixture(t)
	dozer := f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0.5, 0)), "Dozer", "", false)

	require.True(t, f.engine.PointerDown(105, 100))
	assert.Equal(t, Dragging, f.engine.State())
	assert.Equal(t, CursorGrabbing, f.engine.Cursor())
	s, ok := f.engine.Session()
	require.True(t, ok)
	assert.Equal(t, dozer.ID, s.EntryID)
	assert.InDelta(t, 0.5, s.Offset.X, 1e-5)

	f.engine.PointerMove(150, 100)
	assert.InDelta(t, 4.5, dozer.Root.Position.X, 1e-4)
	assert.InDelta(t, 0, dozer.Root.Position.Z, 1e-4)
	assert.Equal(t, float32(0.5), dozer.Root.Position.Y)

	f.engine.PointerMove(150, 50)
	assert.InDelta(t, -5, dozer.Root.Position.Z, 1e-4)

	f.engine.PointerUp()
	assert.Equal(t, Idle, f.engine.State())
	assert.Equal(t, []bool{false, true}, f.orbit.enabled)
	_, ok = f.engine.Session()
	assert.False(t, ok)
}

func TestDragNeverChangesHeight(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 20 {
		f := newFixture(t)
		y := float32(rng.Float64() * 3)
		e := f.reg.Ingest(quad("m", math32.Vec3(0, y, 0)), "m", "", false)
		if !f.engine.PointerDown(100, 100) {
			t.Fatal("drag did not start")
		}
		for range 30 {
			f.engine.PointerMove(rng.Float64()*200, rng.Float64()*200)
		}
		f.engine.PointerUp()
		assert.Equal(t, y, e.Root.Position.Y)
	}
}

func TestPointerDownSelectsHitEntryFirst(t *testing.T) {
	f := newFixture(t)
	f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)
	tree := f.reg.Ingest(quad("Tree", math32.Vec3(5, 0, 0)), "Tree", "", true)
	f.watchSelection()

	require.True(t, f.engine.PointerDown(150, 100))
	assert.Equal(t, []int{1}, f.selected)
	assert.Same(t, tree, f.reg.Active())
	s, _ := f.engine.Session()
	assert.Equal(t, tree.ID, s.EntryID)
	assert.InDelta(t, 0, s.Offset.X, 1e-5)
}

func TestNearestSurfaceWins(t *testing.T) {
	f := newFixture(t)
	f.reg.Ingest(quad("low", math32.Vec3(0, 0, 0)), "low", "", false)
	high := f.reg.Ingest(quad("high", math32.Vec3(0, 2, 0)), "high", "", true)

	hit, ok := HitTest(f.reg, f.rays.RayAt(math32.Vector2{}))
	require.True(t, ok)
	assert.Same(t, high, hit.Entry)
	assert.Equal(t, 1, hit.Index)
	assert.InDelta(t, 8, hit.Distance, 1e-5)
	assert.InDelta(t, 2, hit.Point.Y, 1e-5)

	f.reg.ToggleVisible(1)
	hit, ok = HitTest(f.reg, f.rays.RayAt(math32.Vector2{}))
	require.True(t, ok)
	assert.Equal(t, "low", hit.Entry.DisplayName)
}

func TestPointerDownMissIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)
	f.watchSelection()

	assert.False(t, f.engine.PointerDown(190, 190))
	assert.Equal(t, Idle, f.engine.State())
	assert.Empty(t, f.selected)
	assert.Empty(t, f.orbit.enabled)
}

func TestReservedRegionSkipsRayCast(t *testing.T) {
	f := newFixture(t, WithReservedRegion(Rect{X: 0, Y: 80, W: 200, H: 40}))
	f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)

	assert.False(t, f.engine.PointerDown(100, 100))
	assert.Zero(t, f.rays.calls)
	assert.Equal(t, Idle, f.engine.State())
}

func TestNoActiveEntryIgnoresPointer(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.engine.PointerDown(100, 100))
	assert.Zero(t, f.rays.calls)
}

func TestHoverCursor(t *testing.T) {
	f := newFixture(t)
	e := f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)

	f.engine.PointerMove(100, 100)
	assert.Equal(t, CursorGrab, f.engine.Cursor())
	f.engine.PointerMove(190, 10)
	assert.Equal(t, CursorDefault, f.engine.Cursor())
	assert.Equal(t, Idle, f.engine.State())
	assert.Equal(t, math32.Vec3(0, 0, 0), e.Root.Position)
}

func TestCancelEndsDragAndMovement(t *testing.T) {
	f := newFixture(t)
	f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)
	f.reg.StartMove(registry.Forward)
	require.True(t, f.engine.PointerDown(100, 100))

	assert.True(t, f.engine.KeyDown(KeyEscape))
	assert.Equal(t, Idle, f.engine.State())
	assert.False(t, f.reg.Moving())
	assert.Equal(t, []bool{false, true}, f.orbit.enabled)
}

func TestRemovalEndsDrag(t *testing.T) {
	f := newFixture(t)
	f.reg.Ingest(quad("Dozer", math32.Vec3(0, 0, 0)), "Dozer", "", false)
	require.True(t, f.engine.PointerDown(100, 100))

	require.True(t, f.reg.Remove(0))
	assert.Equal(t, Idle, f.engine.State())
	_, ok := f.engine.Session()
	assert.False(t, ok)
	f.engine.PointerMove(150, 100)
}

func TestKeys(t *testing.T) {
	f := newFixture(t)
	var lights int
	bus.Subscribe(f.bus, func(bus.LightToggleRequested) { lights++ })
	f.reg.Ingest(quad("a", math32.Vec3(0, 0, 0)), "a", "", false)
	assert.False(t, f.engine.KeyDown(KeyNext))
	f.reg.Ingest(quad("b", math32.Vec3(3, 0, 0)), "b", "", true)
	f.reg.Ingest(quad("c", math32.Vec3(6, 0, 0)), "c", "", true)

	assert.True(t, f.engine.KeyDown(Key3))
	assert.Equal(t, 2, f.reg.ActiveIndex())
	assert.False(t, f.engine.KeyDown(Key4))
	assert.Equal(t, 2, f.reg.ActiveIndex())

	assert.True(t, f.engine.KeyDown(KeyNext))
	assert.Equal(t, 0, f.reg.ActiveIndex())
	assert.True(t, f.engine.KeyDown(KeyNext))
	assert.Equal(t, 1, f.reg.ActiveIndex())

	assert.True(t, f.engine.KeyDown(KeyLight))
	assert.Equal(t, 1, lights)
	assert.Equal(t, 1, f.reg.ActiveIndex())
	assert.False(t, f.engine.KeyDown(KeyNone))
}

func TestRegions(t *testing.T) {
	rs := Regions{Rect{X: 0, Y: 0, W: 10, H: 10}, RegionFunc(func(x, _ float64) bool { return x > 100 })}
	assert.True(t, rs.Contains(5, 5))
	assert.True(t, rs.Contains(150, 500))
	assert.False(t, rs.Contains(10, 5))
	assert.False(t, Regions{nil}.Contains(0, 0))
}
