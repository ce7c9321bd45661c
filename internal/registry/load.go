package registry

import "model-viewer/internal/scenegraph"

// Ticket identifies one outstanding asynchronous load.
type Ticket struct {
	Add        bool
	generation uint64
}

// BeginLoad issues a ticket for a load that will complete later. A replacing
// load invalidates every ticket issued before it, so when several loads
// overlap only those issued after the last replace are ingested.
func (r *Registry) BeginLoad(add bool) Ticket {
	if !add {
		r.generation++
	}
	return Ticket{Add: add, generation: r.generation}
}

// IndexFor returns the index a model ingested with t would take: 0 for a
// replacing load, since the registry is cleared first, and Len otherwise.
func (r *Registry) IndexFor(t Ticket) int {
	if !t.Add {
		return 0
	}
	return r.Len()
}

// IngestTicket ingests root for a load started with BeginLoad. A ticket
// issued before a newer replacing load yields ErrLoadSuperseded and leaves
// the registry unchanged.
func (r *Registry) IngestTicket(t Ticket, root *scenegraph.Node, displayName, sourcePath string) (*ModelEntry, error) {
	if t.generation != r.generation {
		r.log.Info("discarded superseded load", "name", displayName, "source", sourcePath)
		return nil, ErrLoadSuperseded
	}
	return r.Ingest(root, displayName, sourcePath, t.Add), nil
}
