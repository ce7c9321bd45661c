package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/bus"
	"model-viewer/internal/engineconfig"
	"model-viewer/internal/highlight"
	"model-viewer/internal/registry"
	"model-viewer/internal/scenegraph"
)

func TestPanelHighlight(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	b := bus.New()
	reg := registry.New(scenegraph.NewScene(), registry.WithBus(b))
	hl := highlight.New()
	hl.Attach(b, reg)
	p := newPanel(b, reg, hl, engineconfig.Region{Width: 200, Height: 400}, log)

	root := scenegraph.NewNode("Dozer", scenegraph.TypeGroup)
	root.Add(scenegraph.NewMesh("Bucket", &scenegraph.Geometry{}, scenegraph.NewMaterial(scenegraph.MaterialBasic)))
	reg.Ingest(root, "Dozer", "", false)
	require.Len(t, hl.Nodes(), 2)

	p.highlight(1)
	assert.Equal(t, "Bucket", hl.Current().Name)
	assert.Empty(t, buf.String())

	p.highlight(5)
	assert.Contains(t, buf.String(), "could not highlight node")
	assert.Contains(t, buf.String(), "index=6")
	assert.Contains(t, buf.String(), registry.ErrInvalidIndex.Error())
}
