package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"model-viewer/internal/highlight"
	"model-viewer/internal/registry"
)

// Scale steps used by "scale up" and "scale down".
const (
	ScaleUpFactor   = 1.1
	ScaleDownFactor = 0.9
)

// LoadStarter begins an asynchronous model load.
type LoadStarter interface {
	StartLoad(source string, add bool)
}

// Display is the part of the viewport the commands toggle.
type Display interface {
	SetGridVisible(visible bool)
	SetShowFPS(show bool)
	SetLightPosition(x, y, z float32)
	ResetLight()
	ToggleLightSphere() bool
}

// Viewer bundles what the viewer commands drive. Display may be nil.
type Viewer struct {
	Models  *registry.Registry
	Nodes   *highlight.Highlighter
	Loads   LoadStarter
	Display Display
	// Print writes a line to the terminal log.
	Print func(string)
	// OnPrefsChanged runs after a command changed a persisted preference.
	OnPrefsChanged func(key string, value any)
}

func (v *Viewer) printf(format string, args ...any) {
	if v.Print != nil {
		v.Print(fmt.Sprintf(format, args...))
	}
}

func (v *Viewer) prefChanged(key string, value any) {
	if v.OnPrefsChanged != nil {
		v.OnPrefsChanged(key, value)
	}
}

// RegisterViewer adds the model viewer commands to r.
func RegisterViewer(r *Registry, v *Viewer) {
	loadFS := NewFlagSet("load")
	appendFlag := loadFS.Bool("append", false, "keep loaded models")
	r.Register("load", "load <path|url|primitive:kind> replaces all models (-append keeps them)", loadFS, func() error {
		src, err := oneArg(loadFS.Args(), "load <path|url>")
		if err != nil {
			return err
		}
		v.Loads.StartLoad(src, *appendFlag)
		v.printf("loading %s", src)
		return nil
	})

	addFS := NewFlagSet("add")
	r.Register("add", "add <path|url|primitive:kind> loads a model next to the others", addFS, func() error {
		src, err := oneArg(addFS.Args(), "add <path|url>")
		if err != nil {
			return err
		}
		v.Loads.StartLoad(src, true)
		v.printf("adding %s", src)
		return nil
	})

	selectFS := NewFlagSet("select")
	r.Register("select", "select <n> makes model n active", selectFS, func() error {
		i, err := index(selectFS.Args(), "select <n>")
		if err != nil {
			return err
		}
		e, err := v.Models.SelectErr(i)
		if err != nil {
			return err
		}
		v.printf("selected %d. %s", i+1, e.DisplayName)
		return nil
	})

	removeFS := NewFlagSet("remove")
	r.Register("remove", "remove <n> unloads model n", removeFS, func() error {
		i, err := index(removeFS.Args(), "remove <n>")
		if err != nil {
			return err
		}
		name := ""
		if e := v.Models.Entry(i); e != nil {
			name = e.DisplayName
		}
		if err := v.Models.RemoveErr(i); err != nil {
			return err
		}
		v.printf("removed %s", name)
		return nil
	})

	toggleFS := NewFlagSet("toggle")
	r.Register("toggle", "toggle <n> shows or hides model n", toggleFS, func() error {
		i, err := index(toggleFS.Args(), "toggle <n>")
		if err != nil {
			return err
		}
		visible, err := v.Models.ToggleVisibleErr(i)
		if err != nil {
			return err
		}
		v.printf("model %d %s", i+1, onOff(visible, "shown", "hidden"))
		return nil
	})

	scaleFS := NewFlagSet("scale")
	r.Register("scale", "scale up|down|<factor> scales the active model", scaleFS, func() error {
		arg, err := oneArg(scaleFS.Args(), "scale up|down|<factor>")
		if err != nil {
			return err
		}
		var f float64
		switch arg {
		case "up":
			f = ScaleUpFactor
		case "down":
			f = ScaleDownFactor
		default:
			if f, err = strconv.ParseFloat(arg, 32); err != nil {
				return fmt.Errorf("%w: scale up|down|<factor>", ErrUsage)
			}
		}
		if err := v.Models.ScaleActiveErr(float32(f)); err != nil {
			return err
		}
		v.printf("scale %.2f", v.Models.Active().Scale().X)
		return nil
	})

	rotateFS := NewFlagSet("rotate")
	r.Register("rotate", "rotate <degrees> turns the active model about the vertical axis", rotateFS, func() error {
		arg, err := oneArg(rotateFS.Args(), "rotate <degrees>")
		if err != nil {
			return err
		}
		deg, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("%w: rotate <degrees>", ErrUsage)
		}
		return v.Models.RotateActiveErr(float32(deg * math.Pi / 180))
	})

	moveFS := NewFlagSet("move")
	r.Register("move", "move forward|backward|left|right moves the active model until stop", moveFS, func() error {
		arg, err := oneArg(moveFS.Args(), "move forward|backward|left|right")
		if err != nil {
			return err
		}
		dirs := map[string]registry.Direction{
			"forward":  registry.Forward,
			"backward": registry.Backward,
			"left":     registry.Left,
			"right":    registry.Right,
		}
		d, ok := dirs[arg]
		if !ok {
			return fmt.Errorf("%w: move forward|backward|left|right", ErrUsage)
		}
		return v.Models.StartMoveErr(d)
	})

	r.Register("stop", "stop ends movement", NewFlagSet("stop"), func() error {
		v.Models.StopMove()
		return nil
	})

	shadowsFS := NewFlagSet("shadows")
	r.Register("shadows", "shadows on|off", shadowsFS, func() error {
		on, err := onOffArg(shadowsFS.Args(), "shadows on|off")
		if err != nil {
			return err
		}
		v.Models.SetShadows(on)
		v.prefChanged("shadows", on)
		v.printf("shadows %s", onOff(on, "on", "off"))
		return nil
	})

	r.Register("list", "list shows loaded models", NewFlagSet("list"), func() error {
		snaps := v.Models.Snapshots()
		if len(snaps) == 0 {
			v.printf("no models loaded")
			return nil
		}
		for i, s := range snaps {
			var tags []string
			if i == v.Models.ActiveIndex() {
				tags = append(tags, "active")
			}
			if !s.Visible {
				tags = append(tags, "hidden")
			}
			line := fmt.Sprintf("%d. %s", i+1, s.DisplayName)
			if len(tags) > 0 {
				line += " (" + strings.Join(tags, ", ") + ")"
			}
			v.printf("%s", line)
		}
		return nil
	})

	r.Register("nodes", "nodes lists the named nodes of the active model", NewFlagSet("nodes"), func() error {
		nodes := v.Nodes.Nodes()
		if len(nodes) == 0 {
			v.printf("no named nodes found")
			return nil
		}
		for i, d := range nodes {
			v.printf("%d. %s", i+1, d)
		}
		return nil
	})

	hlFS := NewFlagSet("highlight")
	r.Register("highlight", "highlight <n>|off tints node n of the node list", hlFS, func() error {
		arg, err := oneArg(hlFS.Args(), "highlight <n>|off")
		if err != nil {
			return err
		}
		if arg == "off" {
			v.Nodes.Restore()
			return nil
		}
		i, err := index([]string{arg}, "highlight <n>|off")
		if err != nil {
			return err
		}
		d, err := v.Nodes.HighlightByIndex(i)
		if err != nil {
			return err
		}
		v.printf("highlighted %s", d.Name)
		return nil
	})

	if v.Display == nil {
		return
	}

	gridFS := NewFlagSet("grid")
	r.Register("grid", "grid on|off", gridFS, func() error {
		on, err := onOffArg(gridFS.Args(), "grid on|off")
		if err != nil {
			return err
		}
		v.Display.SetGridVisible(on)
		v.prefChanged("grid_visible", on)
		return nil
	})

	fpsFS := NewFlagSet("fps")
	r.Register("fps", "fps on|off", fpsFS, func() error {
		on, err := onOffArg(fpsFS.Args(), "fps on|off")
		if err != nil {
			return err
		}
		v.Display.SetShowFPS(on)
		v.prefChanged("show_fps", on)
		return nil
	})

	lightFS := NewFlagSet("light")
	r.Register("light", "light <x> <y> <z> moves the light; light reset restores it; light sphere toggles its marker", lightFS, func() error {
		args := lightFS.Args()
		if len(args) == 1 {
			switch args[0] {
			case "sphere":
				v.printf("light sphere %s", onOff(v.Display.ToggleLightSphere(), "shown", "hidden"))
				return nil
			case "reset":
				v.Display.ResetLight()
				v.printf("light reset")
				return nil
			}
		}
		if len(args) != 3 {
			return fmt.Errorf("%w: light <x> <y> <z> | light reset | light sphere", ErrUsage)
		}
		var p [3]float32
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return fmt.Errorf("%w: light <x> <y> <z>", ErrUsage)
			}
			p[i] = float32(f)
		}
		v.Display.SetLightPosition(p[0], p[1], p[2])
		return nil
	})
}

// RegisterHelp adds "help", listing every registered command.
func RegisterHelp(r *Registry, out func(string)) {
	r.Register("help", "help lists commands", NewFlagSet("help"), func() error {
		for _, line := range r.Help() {
			out(line)
		}
		return nil
	})
}

func oneArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return args[0], nil
}

// index parses a 1-based position into a 0-based index.
func index(args []string, usage string) (int, error) {
	arg, err := oneArg(args, usage)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return n - 1, nil
}

func onOffArg(args []string, usage string) (bool, error) {
	arg, err := oneArg(args, usage)
	if err != nil {
		return false, err
	}
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUsage, usage)
}

func onOff(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
