package registry

import "fmt"

// SelectErr is Select reporting ErrInvalidIndex instead of nil.
func (r *Registry) SelectErr(i int) (*ModelEntry, error) {
	e := r.Select(i)
	if e == nil {
		return nil, fmt.Errorf("select %d of %d: %w", i+1, len(r.entries), ErrInvalidIndex)
	}
	return e, nil
}

// RemoveErr is Remove reporting ErrInvalidIndex instead of false.
func (r *Registry) RemoveErr(i int) error {
	if !r.Remove(i) {
		return fmt.Errorf("remove %d of %d: %w", i+1, len(r.entries), ErrInvalidIndex)
	}
	return nil
}

// ToggleVisibleErr is ToggleVisible reporting ErrInvalidIndex.
func (r *Registry) ToggleVisibleErr(i int) (bool, error) {
	if !r.valid(i) {
		return false, fmt.Errorf("toggle %d of %d: %w", i+1, len(r.entries), ErrInvalidIndex)
	}
	return r.ToggleVisible(i), nil
}

// ScaleActiveErr is ScaleActive reporting why nothing changed.
func (r *Registry) ScaleActiveErr(factor float32) error {
	if !(factor > 0) {
		return fmt.Errorf("scale by %g: %w", factor, ErrInvalidFactor)
	}
	if r.Active() == nil {
		return ErrNoActiveEntry
	}
	r.ScaleActive(factor)
	return nil
}

// RotateActiveErr is RotateActive reporting ErrNoActiveEntry.
func (r *Registry) RotateActiveErr(delta float32) error {
	if r.Active() == nil {
		return ErrNoActiveEntry
	}
	r.RotateActive(delta)
	return nil
}

// StartMoveErr is StartMove reporting ErrNoActiveEntry. Movement is still
// armed so a model loaded afterwards starts moving.
func (r *Registry) StartMoveErr(d Direction) error {
	r.StartMove(d)
	if r.Active() == nil {
		return ErrNoActiveEntry
	}
	return nil
}
