// Package bus is the typed in-process notification channel between the
// viewer core and its UI collaborators. Event kinds are enumerated and each
// kind has exactly one payload type.
package bus

import (
	"sync"

	"cogentcore.org/core/math32"

	"model-viewer/internal/scenegraph"
)

// Kind enumerates the events carried by a Bus.
type Kind int

const (
	KindModelSelected Kind = iota + 1
	KindModelListChanged
	KindNodeDiscoveryRequested
	KindLightToggleRequested
)

func (k Kind) String() string {
	switch k {
	case KindModelSelected:
		return "modelSelected"
	case KindModelListChanged:
		return "modelListChanged"
	case KindNodeDiscoveryRequested:
		return "nodeDiscoveryRequested"
	case KindLightToggleRequested:
		return "lightToggleRequested"
	}
	return "unknown"
}

// Event is implemented by every payload type.
type Event interface {
	Kind() Kind
}

// EntrySnapshot is a detached copy of a registry entry's public state.
type EntrySnapshot struct {
	ID          string
	DisplayName string
	SourcePath  string
	Visible     bool
	Position    math32.Vector3
	Rotation    math32.Vector3
	Scale       math32.Vector3
}

// ModelSelected announces that the active entry changed.
type ModelSelected struct {
	Index int
	Entry EntrySnapshot
}

// ModelListChanged announces an ingest, removal or visibility change.
// ActiveIndex is -1 when the list is empty.
type ModelListChanged struct {
	Entries     []EntrySnapshot
	ActiveIndex int
}

// NodeDiscoveryRequested asks for the node list of Root to be rebuilt.
type NodeDiscoveryRequested struct {
	EntryID string
	Root    *scenegraph.Node
}

// LightToggleRequested asks the lighting collaborator to flip the light marker.
type LightToggleRequested struct{}

func (ModelSelected) Kind() Kind          { return KindModelSelected }
func (ModelListChanged) Kind() Kind       { return KindModelListChanged }
func (NodeDiscoveryRequested) Kind() Kind { return KindNodeDiscoveryRequested }
func (LightToggleRequested) Kind() Kind   { return KindLightToggleRequested }

type handler struct {
	id int
	fn func(Event)
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers may publish and subscribe.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Kind][]handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Kind][]handler)}
}

// Subscription identifies one registered handler.
type Subscription struct {
	bus  *Bus
	kind Kind
	id   int
}

// Unsubscribe removes the handler. It is safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	hs := s.bus.subs[s.kind]
	for i, h := range hs {
		if h.id == s.id {
			s.bus.subs[s.kind] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

// Subscribe registers fn for events of payload type E.
func Subscribe[E Event](b *Bus, fn func(E)) Subscription {
	var zero E
	kind := zero.Kind()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], handler{id: id, fn: func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	}})
	return Subscription{bus: b, kind: kind, id: id}
}

// Publish delivers e to every handler subscribed to its kind.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	b.mu.Lock()
	hs := append([]handler(nil), b.subs[e.Kind()]...)
	b.mu.Unlock()
	for _, h := range hs {
		h.fn(e)
	}
}

// Subscribers returns how many handlers listen for kind.
func (b *Bus) Subscribers(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}
