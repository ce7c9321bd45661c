package pointer

// ReservedRegion reports whether a screen position belongs to UI chrome.
type ReservedRegion interface {
	Contains(x, y float64) bool
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Regions is the union of several regions.
type Regions []ReservedRegion

// Contains reports whether any region contains (x, y).
func (rs Regions) Contains(x, y float64) bool {
	for _, r := range rs {
		if r != nil && r.Contains(x, y) {
			return true
		}
	}
	return false
}

// RegionFunc adapts a function to ReservedRegion.
type RegionFunc func(x, y float64) bool

// Contains calls f.
func (f RegionFunc) Contains(x, y float64) bool { return f(x, y) }
