package commands

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/bus"
	"model-viewer/internal/highlight"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

type loadCall struct {
	source string
	add    bool
}

type fakeLoads struct{ calls []loadCall }

func (f *fakeLoads) StartLoad(source string, add bool) {
	f.calls = append(f.calls, loadCall{source, add})
}

type fakeDisplay struct {
	grid, fps bool
	light     [3]float32
	sphere    bool
}

func (d *fakeDisplay) SetGridVisible(v bool)            { d.grid = v }
func (d *fakeDisplay) SetShowFPS(v bool)                { d.fps = v }
func (d *fakeDisplay) SetLightPosition(x, y, z float32) { d.light = [3]float32{x, y, z} }
func (d *fakeDisplay) ResetLight()                      { d.light = [3]float32{5, 10, 5} }
func (d *fakeDisplay) ToggleLightSphere() bool {
	d.sphere = !d.sphere
	return d.sphere
}

type harness struct {
	reg     *Registry
	models  *registry.Registry
	nodes   *highlight.Highlighter
	loads   *fakeLoads
	display *fakeDisplay
	out     []string
	prefs   map[string]any
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := bus.New()
	h := &harness{
		reg:     NewRegistry(),
		models:  registry.New(scenegraph.NewScene(), registry.WithBus(b)),
		nodes:   highlight.New(),
		loads:   &fakeLoads{},
		display: &fakeDisplay{},
		prefs:   map[string]any{},
	}
	h.nodes.Attach(b, h.models)
	printLine := func(s string) { h.out = append(h.out, s) }
	RegisterViewer(h.reg, &Viewer{
		Models:         h.models,
		Nodes:          h.nodes,
		Loads:          h.loads,
		Display:        h.display,
		Print:          printLine,
		OnPrefsChanged: func(k string, v any) { h.prefs[k] = v },
	})
	RegisterHelp(h.reg, printLine)
	return h
}

func (h *harness) run(t *testing.T, line string) error {
	t.Helper()
	ok, err := h.reg.ExecuteLine(line)
	require.True(t, ok, "%q not recognised as a command", line)
	return err
}

func model(name string) *scenegraph.Node {
	root := scenegraph.NewNode(name, scenegraph.TypeGroup)
	g := &scenegraph.Geometry{Positions: []math32.Vector3{{X: -1}, {X: 1}, {Y: 1}}}
	root.Add(scenegraph.NewMesh("Bucket", g, scenegraph.NewMaterial(scenegraph.MaterialStandard)))
	return root
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd select 2", []string{"select", "2"}, true},
		{"cmd   list  ", []string{"list"}, true},
		{"cmd ", nil, true},
		{"select 2", nil, false},
		{"CMD list", nil, false},
	}
	for _, tt := range tests {
		args, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.args, args, tt.line)
	}
}

func TestExecuteErrors(t *testing.T) {
	h := newHarness(t)

	ok, err := h.reg.ExecuteLine("hello there")
	assert.False(t, ok)
	assert.NoError(t, err)

	assert.ErrorContains(t, h.run(t, "cmd "), "missing subcommand")
	assert.ErrorContains(t, h.run(t, "cmd fly"), "unknown command: fly")
	assert.ErrorContains(t, h.run(t, "cmd load -nope x"), "load:")
	assert.ErrorIs(t, h.run(t, "cmd select"), ErrUsage)
	assert.ErrorIs(t, h.run(t, "cmd select two"), ErrUsage)
	assert.ErrorIs(t, h.run(t, "cmd shadows maybe"), ErrUsage)
	assert.ErrorIs(t, h.run(t, "cmd move up"), ErrUsage)
}

func TestLoadCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "cmd load models/dozer.gltf"))
	require.NoError(t, h.run(t, "cmd load -append models/tree.gltf"))
	require.NoError(t, h.run(t, "cmd add https://example.com/rock.gltf"))

	assert.Equal(t, []loadCall{
		{"models/dozer.gltf", false},
		{"models/tree.gltf", true},
		{"https://example.com/rock.gltf", true},
	}, h.loads.calls)
}

func TestModelCommands(t *testing.T) {
	h := newHarness(t)
	h.models.Ingest(model("Dozer"), "Dozer", "", false)
	h.models.Ingest(model("Tree"), "Tree", "", true)

	require.NoError(t, h.run(t, "cmd select 2"))
	assert.Equal(t, 1, h.models.ActiveIndex())

	assert.ErrorIs(t, h.run(t, "cmd select 3"), registry.ErrInvalidIndex)
	assert.ErrorIs(t, h.run(t, "cmd select 0"), registry.ErrInvalidIndex)
	assert.Equal(t, 1, h.models.ActiveIndex())

	require.NoError(t, h.run(t, "cmd toggle 1"))
	assert.False(t, h.models.Entry(0).Visible)

	h.out = nil
	require.NoError(t, h.run(t, "cmd list"))
	assert.Equal(t, []string{"1. Dozer (hidden)", "2. Tree (active)"}, h.out)

	require.NoError(t, h.run(t, "cmd scale up"))
	assert.InDelta(t, 1.1, h.models.Active().Scale().X, 1e-5)
	require.NoError(t, h.run(t, "cmd scale 2"))
	assert.InDelta(t, 2.2, h.models.Active().Scale().X, 1e-5)
	assert.ErrorIs(t, h.run(t, "cmd scale 0"), registry.ErrInvalidFactor)

	require.NoError(t, h.run(t, "cmd rotate 180"))
	require.NoError(t, h.run(t, "cmd rotate -90"))
	assert.InDelta(t, 1.5708, h.models.Active().Rotation().Y, 1e-4)

	require.NoError(t, h.run(t, "cmd move right"))
	h.models.Tick()
	require.NoError(t, h.run(t, "cmd stop"))
	h.models.Tick()
	assert.InDelta(t, registry.DefaultMoveSpeed, h.models.Active().Position().X, 1e-6)

	require.NoError(t, h.run(t, "cmd shadows on"))
	assert.True(t, h.models.Shadows())
	assert.Equal(t, true, h.prefs["shadows"])

	require.NoError(t, h.run(t, "cmd remove 1"))
	assert.Equal(t, 1, h.models.Len())
	assert.Equal(t, "Tree", h.models.Active().DisplayName)
}

func TestNoActiveModel(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run(t, "cmd scale up"), registry.ErrNoActiveEntry)
	assert.ErrorIs(t, h.run(t, "cmd rotate 15"), registry.ErrNoActiveEntry)
	assert.ErrorIs(t, h.run(t, "cmd remove 1"), registry.ErrInvalidIndex)

	h.out = nil
	require.NoError(t, h.run(t, "cmd list"))
	assert.Equal(t, []string{"no models loaded"}, h.out)
}

func TestNodeCommands(t *testing.T) {
	h := newHarness(t)
	h.models.Ingest(model("Dozer"), "Dozer", "", false)

	h.out = nil
	require.NoError(t, h.run(t, "cmd nodes"))
	require.Len(t, h.out, 2)
	assert.Contains(t, h.out[1], "Bucket")

	bucket := h.nodes.Nodes()[1].Node
	before := bucket.Materials[0].Color

	require.NoError(t, h.run(t, "cmd highlight 2"))
	assert.Same(t, bucket, h.nodes.Current())
	assert.Equal(t, uint32(highlight.DefaultColor), bucket.Materials[0].Color.Hex())

	require.NoError(t, h.run(t, "cmd highlight off"))
	assert.Nil(t, h.nodes.Current())
	assert.Equal(t, before, bucket.Materials[0].Color)

	assert.ErrorIs(t, h.run(t, "cmd highlight 9"), registry.ErrInvalidIndex)
}

func TestDisplayCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "cmd grid on"))
	require.NoError(t, h.run(t, "cmd fps on"))
	require.NoError(t, h.run(t, "cmd light 1 2 3"))
	require.NoError(t, h.run(t, "cmd light sphere"))
	assert.ErrorIs(t, h.run(t, "cmd light 1 2"), ErrUsage)

	assert.True(t, h.display.grid)
	assert.True(t, h.display.fps)
	assert.True(t, h.display.sphere)
	assert.Equal(t, [3]float32{1, 2, 3}, h.display.light)
	assert.Equal(t, true, h.prefs["grid_visible"])

	require.NoError(t, h.run(t, "cmd light reset"))
	assert.Equal(t, [3]float32{5, 10, 5}, h.display.light)
	assert.ErrorIs(t, h.run(t, "cmd light dim"), ErrUsage)
}

func TestHelpListsEveryCommand(t *testing.T) {
	h := newHarness(t)
	h.out = nil
	require.NoError(t, h.run(t, "cmd help"))
	assert.Len(t, h.out, len(h.reg.Names()))
	assert.Contains(t, h.out, "help - help lists commands")
}

func TestDisplayCommandsNeedDisplay(t *testing.T) {
	r := NewRegistry()
	RegisterViewer(r, &Viewer{
		Models: registry.New(scenegraph.NewScene()),
		Nodes:  highlight.New(),
		Loads:  &fakeLoads{},
	})
	assert.NotContains(t, r.Names(), "grid")
	assert.Contains(t, r.Names(), "select")
}
