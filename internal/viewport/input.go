package viewport

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"model-viewer/internal/pointer"
)

// Clicker takes pointer presses before the scene does (the controls panel).
type Clicker interface {
	Click(x, y float64) bool
}

var keyMap = []struct {
	raylib int32
	key    pointer.Key
}{
	{rl.KeyOne, pointer.Key1},
	{rl.KeyTwo, pointer.Key2},
	{rl.KeyThree, pointer.Key3},
	{rl.KeyFour, pointer.Key4},
	{rl.KeyFive, pointer.Key5},
	{rl.KeySix, pointer.Key6},
	{rl.KeySeven, pointer.Key7},
	{rl.KeyEight, pointer.Key8},
	{rl.KeyNine, pointer.Key9},
	{rl.KeyTab, pointer.KeyNext},
	{rl.KeyEscape, pointer.KeyEscape},
	{rl.KeyL, pointer.KeyLight},
}

// Input translates raylib mouse and keyboard state into pointer engine events.
type Input struct {
	engine  *pointer.Engine
	clicker Clicker
	lastX   float32
	lastY   float32
	cursor  pointer.Cursor
}

// releaseButtons end a drag when any of them is let go.
var releaseButtons = []rl.MouseButton{rl.MouseButtonLeft, rl.MouseButtonRight, rl.MouseButtonMiddle}

func anyReleased(released func(rl.MouseButton) bool) bool {
	return slices.ContainsFunc(releaseButtons, released)
}

// NewInput routes input to e. Presses accepted by clicker never reach e.
func NewInput(e *pointer.Engine, clicker Clicker) *Input {
	return &Input{engine: e, clicker: clicker, lastX: -1, lastY: -1}
}

// Update polls raylib once per frame. Keys are forwarded only when keyboard is true (the
// terminal is closed).
func (in *Input) Update(keyboard bool) {
	e := in.engine
	e.SetViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))

	m := rl.GetMousePosition()
	x, y := float64(m.X), float64(m.Y)
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if in.clicker == nil || !in.clicker.Click(x, y) {
			e.PointerDown(x, y)
		}
	}
	if m.X != in.lastX || m.Y != in.lastY {
		in.lastX, in.lastY = m.X, m.Y
		e.PointerMove(x, y)
	}
	if anyReleased(rl.IsMouseButtonReleased) {
		e.PointerUp()
	}

	if keyboard {
		for _, k := range keyMap {
			if rl.IsKeyPressed(k.raylib) {
				e.KeyDown(k.key)
			}
		}
	}

	if c := e.Cursor(); c != in.cursor {
		in.cursor = c
		rl.SetMouseCursor(mouseCursor(c))
	}
}

func mouseCursor(c pointer.Cursor) int32 {
	switch c {
	case pointer.CursorGrab:
		return rl.MouseCursorPointingHand
	case pointer.CursorGrabbing:
		return rl.MouseCursorResizeAll
	}
	return rl.MouseCursorDefault
}
