package engineconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the viewer preferences file, relative to the process working directory.
const ConfigPath = "config/viewer.yaml"

// Environment variables that override persisted preferences.
const (
	EnvInitialModel = "VIEWER_INITIAL_MODEL"
	EnvMoveSpeed    = "VIEWER_MOVE_SPEED"
)

// Region is a screen rectangle in pixels.
type Region struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ViewerPrefs holds viewer preferences (overlays, grid, movement and scale
// tuning, highlight tint). Persisted across runs; loaded models are not.
type ViewerPrefs struct {
	WindowTitle  string `yaml:"window_title"`
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	GridVisible  bool   `yaml:"grid_visible"`
	Shadows      bool   `yaml:"shadows"`
	InitialModel string `yaml:"initial_model,omitempty"`

	MoveSpeed float32 `yaml:"move_speed"`
	MinScale  float32 `yaml:"min_scale"`
	MaxScale  float32 `yaml:"max_scale"`

	HighlightColor    uint32 `yaml:"highlight_color"`
	HighlightEmissive uint32 `yaml:"highlight_emissive"`

	// ControlsPanel is where the model list is drawn; pointer presses there
	// never reach the scene.
	ControlsPanel Region `yaml:"controls_panel"`
	// ControlsCSS optionally restyles the controls panel.
	ControlsCSS string `yaml:"controls_css,omitempty"`
}

// Default returns default viewer preferences (overlays off, grid and shadows on).
func Default() ViewerPrefs {
	return ViewerPrefs{
		WindowTitle:       "Model Viewer",
		GridVisible:       true,
		Shadows:           true,
		MoveSpeed:         0.01,
		MinScale:          0.05,
		MaxScale:          10,
		HighlightColor:    0xff0000,
		HighlightEmissive: 0x550000,
		ControlsPanel:     Region{X: 10, Y: 10, Width: 300, Height: 460},
	}
}

// Load reads preferences from ConfigPath. If the file is missing or invalid,
// it returns Default() and does not create a file.
func Load() (ViewerPrefs, error) {
	return LoadFrom(ConfigPath)
}

// LoadFrom reads preferences from path. Fields missing from the file keep
// their defaults; out-of-range values are replaced by defaults.
func LoadFrom(path string) (ViewerPrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalized(), nil
}

// Save writes preferences to ConfigPath, creating the config directory if needed.
func Save(p ViewerPrefs) error {
	return SaveTo(ConfigPath, p)
}

// SaveTo writes preferences to path as YAML.
func SaveTo(path string, p ViewerPrefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p ViewerPrefs) normalized() ViewerPrefs {
	d := Default()
	if p.WindowTitle == "" {
		p.WindowTitle = d.WindowTitle
	}
	if !(p.MoveSpeed > 0) {
		p.MoveSpeed = d.MoveSpeed
	}
	if !(p.MinScale > 0) || !(p.MaxScale >= p.MinScale) {
		p.MinScale, p.MaxScale = d.MinScale, d.MaxScale
	}
	if p.HighlightColor > 0xffffff {
		p.HighlightColor = d.HighlightColor
	}
	if p.HighlightEmissive > 0xffffff {
		p.HighlightEmissive = d.HighlightEmissive
	}
	return p
}

// ErrBadOverride reports an environment override that could not be parsed.
var ErrBadOverride = errors.New("engineconfig: invalid environment override")

// ApplyEnv overrides preferences from the environment via lookup (usually
// os.LookupEnv). A malformed value is ignored and reported.
func (p ViewerPrefs) ApplyEnv(lookup func(string) (string, bool)) (ViewerPrefs, error) {
	var err error
	if v, ok := lookup(EnvInitialModel); ok && v != "" {
		p.InitialModel = v
	}
	if v, ok := lookup(EnvMoveSpeed); ok && v != "" {
		f, perr := strconv.ParseFloat(v, 32)
		if perr != nil || f <= 0 {
			err = errors.Join(ErrBadOverride, errors.New(EnvMoveSpeed+"="+v))
		} else {
			p.MoveSpeed = float32(f)
		}
	}
	return p, err
}

// ErrUnknownPref reports a preference key that ViewerPrefs does not have.
var ErrUnknownPref = errors.New("engineconfig: unknown preference")

// Set updates the preference stored under the YAML key (e.g. "grid_visible").
// A value of the wrong type leaves p unchanged.
func (p *ViewerPrefs) Set(key string, value any) error {
	data, err := yaml.Marshal(map[string]any{key: value})
	if err != nil {
		return err
	}
	next := *p
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&next); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %s", ErrUnknownPref, key)
		}
		return fmt.Errorf("set %s: %w", key, err)
	}
	*p = next.normalized()
	return nil
}
