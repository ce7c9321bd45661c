package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"model-viewer/internal/commands"
	"model-viewer/internal/logger"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Number of log lines drawn above the input bar when the terminal is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxHistory       = 50
	maxLineChars     = 200
)

var (
	// Reused every frame when drawing the terminal bar to avoid per-frame color allocations.
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the command prompt at the bottom of the screen, shown and hidden with the
// grave key (`). Escape also closes it. While open it captures the keyboard and its area
// is reserved: pointer presses there do not reach the scene.
// Lines starting with "cmd " are parsed as subcommand + flags and executed via the command registry.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	history  []string
	recall   int // index into history while browsing with up/down; len(history) = not browsing
}

// New returns a Terminal that logs lines and runs "cmd ..." through reg. It starts closed.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen returns true when the terminal is visible and capturing keyboard input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Open shows the terminal.
func (t *Terminal) Open() { t.open = true }

// Close hides the terminal and drops the unsent input.
func (t *Terminal) Close() {
	t.open = false
	t.inputBuf = ""
}

// Update handles the toggle key and, when open, typing, history, backspace and enter.
// Call once per frame. It returns true when the keyboard belonged to the terminal this
// frame, so the caller must not route key presses elsewhere.
func (t *Terminal) Update() bool {
	if rl.IsKeyPressed(rl.KeyGrave) {
		if t.open {
			t.Close()
		} else {
			t.Open()
		}
		// Drop the grave character queued by the toggle press.
		for rl.GetCharPressed() != 0 {
		}
		return true
	}
	if !t.open {
		return false
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.Close()
		return true
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += strings.ReplaceAll(pasted, "\n", " ")
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		t.browse(-1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		t.browse(1)
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && strings.TrimSpace(t.inputBuf) != "" {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
	return true
}

// Submit logs line, remembers it in the history and runs it when it is a command.
func (t *Terminal) Submit(line string) {
	t.log.Log(prompt + line)
	if len(t.history) == 0 || t.history[len(t.history)-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > maxHistory {
			t.history = t.history[1:]
		}
	}
	t.recall = len(t.history)

	ok, err := t.reg.ExecuteLine(line)
	switch {
	case !ok:
		t.log.Log(`commands start with "cmd ", try "cmd help"`)
	case err != nil:
		t.log.Log(err.Error())
	}
}

func (t *Terminal) browse(step int) {
	if len(t.history) == 0 {
		return
	}
	t.recall = max(0, min(len(t.history), t.recall+step))
	if t.recall == len(t.history) {
		t.inputBuf = ""
		return
	}
	t.inputBuf = t.history[t.recall]
}

// top returns the y of the top of the log area for the current screen.
func top(screenH int) (chatY, barY int) {
	barY = screenH - BarHeight
	chatY = barY - maxLinesOnScreen*lineHeight
	if chatY < 0 {
		chatY = 0
	}
	return chatY, barY
}

// Contains reports whether (x, y) lies on the open terminal.
func (t *Terminal) Contains(x, y float64) bool {
	if !t.open {
		return false
	}
	chatY, _ := top(int(rl.GetScreenHeight()))
	return y >= float64(chatY) && x >= 0
}

// Draw draws the input bar at the bottom when open, and the recent log lines above it.
// Uses GetScreenWidth/GetScreenHeight so the bar follows window resizes.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	chatY, barY := top(screenH)

	if chatHeight := barY - chatY; chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Tail(maxLinesOnScreen)
	for i, line := range lines {
		y := chatY + i*lineHeight + padding
		if len(line) > maxLineChars {
			line = line[:maxLineChars-3] + "..."
		}
		rl.DrawText(line, int32(padding), int32(y), int32(fontSize), rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	rl.DrawText(prompt+t.inputBuf+"|", int32(padding), int32(barY+padding), int32(fontSize), rl.White)
}
