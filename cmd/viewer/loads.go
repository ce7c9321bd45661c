package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"model-viewer/internal/loader"
	"model-viewer/internal/registry"
)

type loadTag struct {
	ticket registry.Ticket
	source string
}

// loads starts model loads in the background and ingests the results on the frame loop.
type loads struct {
	ctx   context.Context
	reg   *registry.Registry
	queue *loader.Queue[loadTag]
	log   *slog.Logger
	print func(string)
}

func newLoads(ctx context.Context, reg *registry.Registry, l *loader.Loader, log *slog.Logger, out func(string)) *loads {
	return &loads{
		ctx:   ctx,
		reg:   reg,
		queue: loader.NewQueue[loadTag](l, log),
		log:   log,
		print: out,
	}
}

// StartLoad implements commands.LoadStarter.
func (l *loads) StartLoad(source string, add bool) {
	l.queue.Start(l.ctx, source, loadTag{ticket: l.reg.BeginLoad(add), source: source})
}

func (l *loads) pending() int { return l.queue.Pending() }

// drain ingests every finished load. Call once per frame.
func (l *loads) drain() {
	l.queue.Drain(func(c loader.Completed[loadTag]) {
		if c.Err != nil {
			l.log.Error("load failed", "source", c.Tag.source, "err", c.Err)
			l.print(fmt.Sprintf("could not load %s: %v", c.Tag.source, c.Err))
			return
		}
		name := loader.DisplayName(c.Result.Source, c.Result.FileName, l.reg.IndexFor(c.Tag.ticket))
		e, err := l.reg.IngestTicket(c.Tag.ticket, c.Result.Root, name, c.Result.Source)
		switch {
		case errors.Is(err, registry.ErrLoadSuperseded):
			l.log.Info("discarded superseded load", "source", c.Tag.source)
		case err != nil:
			l.print(err.Error())
		case e != nil:
			l.print(fmt.Sprintf("loaded %s", e.DisplayName))
		}
	})
}
