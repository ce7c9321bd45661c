package loader

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"model-viewer/internal/archive"
	"model-viewer/internal/logger"
	"model-viewer/internal/primitives"
	"model-viewer/internal/scenegraph"
)

// PrimitivePrefix marks a source naming a built-in shape, e.g. "primitive:sphere".
const PrimitivePrefix = "primitive:"

// modelExts are the document types looked for inside a zip bundle, in order of preference.
var modelExts = []string{".gltf", ".json", ".yaml", ".yml"}

var zipMagic = []byte("PK\x03\x04")

// decode turns raw bytes into a model, choosing the format from the file name and
// content: zip bundles are unpacked, YAML files are primitive definitions, anything
// else is a JSON scene document. It returns the name of the file that was decoded.
func (l *Loader) decode(name string, data []byte) (*scenegraph.Node, string, error) {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case ext == ".zip" || bytes.HasPrefix(data, zipMagic):
		e, err := archive.FindModel(data, l.maxBytes, modelExts...)
		if err != nil {
			return nil, name, fmt.Errorf("%w: %w", ErrLoadFailure, err)
		}
		if strings.EqualFold(path.Ext(e.Name), ".zip") {
			return nil, name, failf("nested bundle %s", e.Name)
		}
		return l.decode(e.Name, e.Data)
	case ext == ".yaml" || ext == ".yml":
		d, err := primitives.ParseDef(data)
		if err != nil {
			return nil, name, fmt.Errorf("%w: %w", ErrLoadFailure, err)
		}
		if d.Name == "" {
			d.Name = stripExt(name)
		}
		root, err := primitives.Build(d)
		if err != nil {
			return nil, name, fmt.Errorf("%w: %w", ErrLoadFailure, err)
		}
		return root, name, nil
	}
	root, err := Parse(data)
	return root, name, err
}

// Primitive builds the built-in shape kind.
func (l *Loader) Primitive(ctx context.Context, kind string) (Result, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	root, err := primitives.Build(primitives.PrimitiveDef{Type: kind})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	logger.FromContextOr(ctx, l.log).Info("built primitive", "kind", kind)
	return Result{Root: root, Source: PrimitivePrefix + kind, FileName: kind}, nil
}
