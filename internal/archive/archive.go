// Package archive pulls a model document out of a zip bundle without
// touching the disk.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNoModel reports a bundle without any entry of an accepted type.
var ErrNoModel = errors.New("archive: no model in bundle")

// Entry is a file extracted from a bundle.
type Entry struct {
	Name string
	Data []byte
}

// FindModel returns the first entry of data (a zip archive) whose extension
// is in exts, preferring earlier extensions. Directories and names that
// would escape the bundle root are skipped. No entry may exceed maxBytes.
// When nothing matches, the error wraps ErrNoModel and lists the entries
// the bundle does hold.
func FindModel(data []byte, maxBytes int64, exts ...string) (Entry, error) {
	r, err := open(data)
	if err != nil {
		return Entry{}, err
	}
	for _, ext := range exts {
		for _, f := range r.File {
			if f.FileInfo().IsDir() || !safeName(f.Name) {
				continue
			}
			if !strings.EqualFold(path.Ext(f.Name), ext) {
				continue
			}
			b, err := read(f, maxBytes)
			if err != nil {
				return Entry{}, err
			}
			return Entry{Name: path.Base(f.Name), Data: b}, nil
		}
	}
	if names := fileNames(r); len(names) > 0 {
		return Entry{}, fmt.Errorf("%w (has %s)", ErrNoModel, strings.Join(names, ", "))
	}
	return Entry{}, ErrNoModel
}

// fileNames lists the file entries of r in archive order.
func fileNames(r *zip.Reader) []string {
	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	return names
}

// open reads the zip directory. Bundles with unsafe names are still opened;
// FindModel skips those entries itself.
func open(data []byte) (*zip.Reader, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	return r, nil
}

func safeName(name string) bool {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return false
	}
	clean := path.Clean(name)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func read(f *zip.File, maxBytes int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("unzip %s: %w", f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("unzip %s: %w", f.Name, err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("unzip %s: entry exceeds %d bytes", f.Name, maxBytes)
	}
	return b, nil
}
