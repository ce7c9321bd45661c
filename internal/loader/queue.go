package loader

import (
	"context"
	"log/slog"
	"sync"

	"model-viewer/internal/logger"
)

// Completed is a finished background load.
type Completed[T any] struct {
	Tag    T
	Result Result
	Err    error
}

// Queue runs loads on background goroutines and hands the results back to
// whichever goroutine calls Drain or Wait, so scene mutation stays on the
// frame loop.
type Queue[T any] struct {
	loader *Loader
	log    *slog.Logger
	done   chan Completed[T]

	mu      sync.Mutex
	pending int
}

// NewQueue returns a queue loading through l.
func NewQueue[T any](l *Loader, log *slog.Logger) *Queue[T] {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Queue[T]{loader: l, log: log, done: make(chan Completed[T], 16)}
}

// Start loads source in the background. tag is returned with the result.
func (q *Queue[T]) Start(ctx context.Context, source string, tag T) {
	q.mu.Lock()
	q.pending++
	q.mu.Unlock()
	ctx = logger.WithContext(ctx, q.log.With("source", source))
	go func() {
		res, err := q.loader.Load(ctx, source)
		q.done <- Completed[T]{Tag: tag, Result: res, Err: err}
	}()
}

// Pending returns the number of loads not yet handed back.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

// Drain calls fn for every load that has finished, without blocking.
func (q *Queue[T]) Drain(fn func(Completed[T])) {
	for {
		select {
		case c := <-q.done:
			q.finish()
			fn(c)
		default:
			return
		}
	}
}

// Wait blocks until one load finishes or ctx is done.
func (q *Queue[T]) Wait(ctx context.Context) (Completed[T], error) {
	select {
	case c := <-q.done:
		q.finish()
		return c, nil
	case <-ctx.Done():
		return Completed[T]{}, ctx.Err()
	}
}

func (q *Queue[T]) finish() {
	q.mu.Lock()
	q.pending--
	q.mu.Unlock()
}
