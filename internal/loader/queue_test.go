package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueHandsBackResults(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "dozer.gltf")
	require.NoError(t, os.WriteFile(good, []byte(dozerDoc), 0o644))

	q := NewQueue[int](New(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q.Start(ctx, good, 1)
	q.Start(ctx, filepath.Join(dir, "missing.gltf"), 2)
	assert.Equal(t, 2, q.Pending())

	got := map[int]Completed[int]{}
	for range 2 {
		c, err := q.Wait(ctx)
		require.NoError(t, err)
		got[c.Tag] = c
	}
	assert.Zero(t, q.Pending())

	require.NoError(t, got[1].Err)
	assert.Equal(t, "Dozer", got[1].Result.Root.Name)
	assert.ErrorIs(t, got[2].Err, ErrLoadFailure)

	var drained int
	q.Drain(func(Completed[int]) { drained++ })
	assert.Zero(t, drained)
}

func TestQueueWaitHonoursContext(t *testing.T) {
	q := NewQueue[string](New(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
