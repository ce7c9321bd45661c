package registry

import (
	"github.com/jinzhu/copier"

	"model-viewer/internal/bus"
)

// Snapshot returns a detached copy of e's public state.
func Snapshot(e *ModelEntry) bus.EntrySnapshot {
	var s bus.EntrySnapshot
	if e == nil {
		return s
	}
	// Position, Rotation and Scale come from the entry's accessor methods.
	if err := copier.Copy(&s, e); err != nil {
		s = bus.EntrySnapshot{
			ID:          e.ID,
			DisplayName: e.DisplayName,
			SourcePath:  e.SourcePath,
			Visible:     e.Visible,
			Position:    e.Position(),
			Rotation:    e.Rotation(),
			Scale:       e.Scale(),
		}
	}
	return s
}

// Snapshot returns a copy of the entry at i.
func (r *Registry) Snapshot(i int) (bus.EntrySnapshot, bool) {
	if !r.valid(i) {
		return bus.EntrySnapshot{}, false
	}
	return Snapshot(r.entries[i]), true
}

// Snapshots returns copies of every entry in order.
func (r *Registry) Snapshots() []bus.EntrySnapshot {
	out := make([]bus.EntrySnapshot, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Snapshot(e))
	}
	return out
}
