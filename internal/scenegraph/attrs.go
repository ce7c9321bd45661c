package scenegraph

import "sort"

// Attributed is the capability every scene object exposes for arbitrary
// named properties. Loaders put everything they do not model explicitly in
// here, which is where untrusted callback- or script-shaped fields end up.
type Attributed interface {
	AttrNames() []string
	Attr(name string) (any, bool)
	SetAttr(name string, v any)
	DeleteAttr(name string) bool
}

// AttrBag is an embeddable Attributed implementation.
type AttrBag struct {
	attrs map[string]any
}

// AttrNames returns the property names in sorted order.
func (b *AttrBag) AttrNames() []string {
	names := make([]string, 0, len(b.attrs))
	for k := range b.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (b *AttrBag) Attr(name string) (any, bool) {
	v, ok := b.attrs[name]
	return v, ok
}

func (b *AttrBag) SetAttr(name string, v any) {
	if b.attrs == nil {
		b.attrs = make(map[string]any)
	}
	b.attrs[name] = v
}

// DeleteAttr removes name and reports whether it was present.
func (b *AttrBag) DeleteAttr(name string) bool {
	if _, ok := b.attrs[name]; !ok {
		return false
	}
	delete(b.attrs, name)
	return true
}
