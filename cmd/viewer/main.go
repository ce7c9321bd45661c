package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"model-viewer/internal/bus"
	"model-viewer/internal/commands"
	"model-viewer/internal/debug"
	"model-viewer/internal/engineconfig"
	"model-viewer/internal/graphics"
	"model-viewer/internal/highlight"
	"model-viewer/internal/loader"
	"model-viewer/internal/logger"
	"model-viewer/internal/pointer"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
	"model-viewer/internal/terminal"
	"model-viewer/internal/viewport"
)

func main() {
	lines := logger.New()
	log := lines.Slog(slog.LevelInfo)

	if err := engineconfig.LoadDotEnv(".env"); err != nil {
		log.Warn("could not read .env", "err", err)
	}
	prefs, _ := engineconfig.Load()
	prefs, err := prefs.ApplyEnv(os.LookupEnv)
	if err != nil {
		log.Warn("ignoring environment override", "err", err)
	}

	model := flag.String("model", prefs.InitialModel, "model file or URL to load at start")
	flag.Parse()

	b := bus.New()
	scene := scenegraph.NewScene()
	reg := registry.New(scene,
		registry.WithLogger(log),
		registry.WithBus(b),
		registry.WithMoveSpeed(prefs.MoveSpeed),
		registry.WithScaleLimits(prefs.MinScale, prefs.MaxScale),
	)
	reg.SetShadows(prefs.Shadows)

	hl := highlight.New(
		highlight.WithColors(prefs.HighlightColor, prefs.HighlightEmissive),
		highlight.WithLogger(log),
	)
	hl.Attach(b, reg)

	view := viewport.New(reg, log)
	view.SetGridVisible(prefs.GridVisible)
	view.Attach(b)

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)

	cmds := commands.NewRegistry()
	term := terminal.New(lines, cmds)

	ld := newLoads(context.Background(), reg, loader.New(loader.WithLogger(log)), log, lines.Log)

	pnl := newPanel(b, reg, hl, prefs.ControlsPanel, log)
	if prefs.ControlsCSS != "" {
		if err := pnl.ui.LoadCSS(prefs.ControlsCSS); err != nil {
			log.Warn("could not load controls stylesheet", "path", prefs.ControlsCSS, "err", err)
		}
	}

	eng := pointer.New(reg, view,
		pointer.WithBus(b),
		pointer.WithReservedRegion(pointer.Regions{pnl.ui, term}),
		pointer.WithOrbitLock(view),
		pointer.WithLogger(log),
	)
	input := viewport.NewInput(eng, pnl.ui)

	commands.RegisterViewer(cmds, &commands.Viewer{
		Models:  reg,
		Nodes:   hl,
		Loads:   ld,
		Display: display{view: view, debug: dbg},
		Print:   lines.Log,
		OnPrefsChanged: func(key string, value any) {
			if err := prefs.Set(key, value); err != nil {
				log.Warn("could not update preference", "key", key, "err", err)
				return
			}
			if err := engineconfig.Save(prefs); err != nil {
				log.Warn("could not save preferences", "err", err)
			}
		},
	})
	commands.RegisterHelp(cmds, lines.Log)

	if *model != "" {
		ld.StartLoad(*model, false)
	}
	lines.Log("press ` for the command prompt, then cmd help")

	update := func() {
		keyboardTaken := term.Update()
		view.Update()
		input.Update(!keyboardTaken)
		reg.Tick()
		ld.drain()
		pnl.refresh()
		dbg.SetStatus(status(reg, eng, ld.pending())...)
	}
	draw := func() {
		view.Draw()
		pnl.draw()
		term.Draw()
		dbg.Draw()
	}
	graphics.Run(prefs.WindowTitle, update, draw)
}

// display routes the display commands to the viewport and the overlay.
type display struct {
	view  *viewport.Viewport
	debug *debug.Debug
}

func (d display) SetGridVisible(v bool)            { d.view.SetGridVisible(v) }
func (d display) SetShowFPS(v bool)                { d.debug.SetShowFPS(v) }
func (d display) SetLightPosition(x, y, z float32) { d.view.SetLightPosition(x, y, z) }
func (d display) ResetLight()                      { d.view.ResetLight() }
func (d display) ToggleLightSphere() bool          { return d.view.ToggleLightSphere() }

func status(reg *registry.Registry, eng *pointer.Engine, pending int) []string {
	var out []string
	if e := reg.Active(); e != nil {
		out = append(out, fmt.Sprintf("%d/%d %s", reg.ActiveIndex()+1, reg.Len(), e.DisplayName))
	}
	switch {
	case eng.State() == pointer.Dragging:
		out = append(out, "dragging")
	case reg.Moving():
		out = append(out, "moving (Esc stops)")
	}
	if pending > 0 {
		out = append(out, fmt.Sprintf("loading %d...", pending))
	}
	return out
}
