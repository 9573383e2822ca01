package polar

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Radius limits for orbiting (non-fixed) items, relative to the disk radius.
const (
	DefaultRadius = 0.9
	MinRadius     = 0.1
	MaxRadius     = 0.95
)

// Item is one element placed on the disk.
type Item struct {
	ID string

	// Fixed items ignore spin for their position and ignore azimuth for
	// their render rotation. Their radius is ignored (they sit on the pole).
	Fixed bool

	// Radius is the distance from the pole relative to the disk radius.
	// Use SetRadius to get clamping.
	Radius float64

	// Azimuth is the clockwise angle in degrees from the positive x axis.
	Azimuth float64

	// Orientation is the item's own rotation in degrees.
	Orientation float64

	// KeepOrientation controls how spin and orientation combine for
	// orbiting items (see render.Rotation and hittest.Router).
	KeepOrientation bool

	// Width and Height are the measured size of the item.
	Width  float64
	Height float64

	// Interactive items take part in hit-testing.
	Interactive bool

	bbox r2.Rect
}

// NewItem returns an orbiting, interactive item at the default radius.
func NewItem(id string) *Item {
	return &Item{
		ID:              id,
		Radius:          DefaultRadius,
		KeepOrientation: true,
		Interactive:     true,
	}
}

// SetRadius assigns the relative radius, clamped to [MinRadius, MaxRadius].
// Zero leaves the current value in place. Fixed items are clamped too, so
// the radius stays valid if the item is later released to orbit.
func (it *Item) SetRadius(r float64) {
	if r == 0 {
		return
	}
	it.Radius = ClampRadius(r)
}

// ClampRadius limits r to [MinRadius, MaxRadius].
func ClampRadius(r float64) float64 {
	if r > MaxRadius {
		return MaxRadius
	}
	if r < MinRadius {
		return MinRadius
	}
	return r
}

// IsRotatable reports whether spinning the disk moves the item.
func (it *Item) IsRotatable() bool {
	return !it.Fixed
}

// Angle returns the item's azimuth in degrees.
func (it *Item) Angle() float64 {
	return it.Azimuth
}

// BBox returns the last placed, unrotated bounding box in container pixels.
func (it *Item) BBox() r2.Rect {
	return it.bbox
}

// Center returns the bounding box center, which is the rotation pivot.
func (it *Item) Center() r2.Point {
	return it.bbox.Center()
}

// TopLeft returns the bounding box's top-left corner.
func (it *Item) TopLeft() r2.Point {
	return it.bbox.Lo()
}

// HalfExtents returns half the item's width and height.
func (it *Item) HalfExtents() r2.Point {
	return r2.Point{X: it.Width / 2, Y: it.Height / 2}
}

func (it *Item) String() string {
	return fmt.Sprintf("%s: %d°, %.2f, orientation=%d, fixed=%t, keepOrientation=%t",
		it.ID, int(it.Azimuth), it.Radius, int(it.Orientation), it.Fixed, it.KeepOrientation)
}
