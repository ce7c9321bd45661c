package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"model-viewer/internal/logger"
	"model-viewer/internal/scenegraph"
)

const (
	defaultUserAgent = "model-viewer/1.0"
	defaultTimeout   = 60 * time.Second
	// DefaultMaxBytes bounds the size of a scene document.
	DefaultMaxBytes = 64 << 20
)

// Result is a parsed document with the file name it arrived under.
type Result struct {
	Root     *scenegraph.Node
	Source   string
	FileName string
}

// Loader reads scene documents from disk or over HTTP.
type Loader struct {
	client   *http.Client
	log      *slog.Logger
	maxBytes int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used by Fetch.
func WithHTTPClient(c *http.Client) Option { return func(l *Loader) { l.client = c } }

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option { return func(l *Loader) { l.log = lg } }

// WithMaxBytes bounds the accepted document size.
func WithMaxBytes(n int64) Option { return func(l *Loader) { l.maxBytes = n } }

// New returns a Loader with a 60 second HTTP timeout.
func New(opts ...Option) *Loader {
	l := &Loader{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: defaultTimeout}
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	return l
}

// Load reads source: an http(s) URL, a built-in shape ("primitive:cube") or
// a file path.
func (l *Loader) Load(ctx context.Context, source string) (Result, error) {
	if IsURL(source) {
		return l.Fetch(ctx, source)
	}
	if kind, ok := strings.CutPrefix(source, PrimitivePrefix); ok {
		return l.Primitive(ctx, kind)
	}
	return l.LoadFile(ctx, source)
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LoadFile reads and parses the document at p.
func (l *Loader) LoadFile(ctx context.Context, p string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	f, err := os.Open(p)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	defer f.Close()
	data, err := l.readAll(f)
	if err != nil {
		return Result{}, err
	}
	root, name, err := l.decode(path.Base(strings.ReplaceAll(p, "\\", "/")), data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", p, err)
	}
	logger.FromContextOr(ctx, l.log).Info("loaded scene file", "path", p, "bytes", len(data), "file", name)
	return Result{Root: root, Source: p, FileName: name}, nil
}

// Fetch downloads and parses the document at url. The file name comes from
// Content-Disposition when present, else from the URL path.
func (l *Loader) Fetch(ctx context.Context, url string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: fetch: %w", ErrLoadFailure, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := l.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: fetch: %w", ErrLoadFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: fetch: HTTP %d", ErrLoadFailure, resp.StatusCode)
	}
	data, err := l.readAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	root, name, err := l.decode(name, data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", url, err)
	}
	logger.FromContextOr(ctx, l.log).Info("fetched scene", "url", url, "bytes", len(data), "file", name)
	return Result{Root: root, Source: url, FileName: name}, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrLoadFailure, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrLoadFailure, l.maxBytes)
	}
	return data, nil
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\"")
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\" ")
	}
	return ""
}

func filenameFromURL(url string) string {
	p := url
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+3:]
		if j := strings.Index(p, "/"); j >= 0 {
			p = p[j:]
		} else {
			return ""
		}
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return ""
	}
	return base
}
