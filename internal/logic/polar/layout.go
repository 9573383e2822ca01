// Package polar places items on a disk by azimuth and relative radius.
package polar

import (
	"github.com/golang/geo/r2"

	"github.com/cjeanneret/PolarGo/internal/debug"
)

// Layout is the placement state of one disk: its size, its spin and its
// items in insertion order. Every mutation re-places the affected items, so
// bounding boxes always reflect the current state.
//
// A Layout is not safe for concurrent use.
type Layout struct {
	side         float64
	centerOffset float64
	spin         float64
	items        []*Item
}

// NewLayout creates a layout for a square container of the given side.
func NewLayout(side float64) *Layout {
	l := &Layout{}
	l.SetContainerSide(side)
	return l
}

// ContainerSide returns the side of the square container.
func (l *Layout) ContainerSide() float64 {
	return l.side
}

// CenterOffset returns half the container side.
func (l *Layout) CenterOffset() float64 {
	return l.centerOffset
}

// Pole returns the disk center in container pixels.
func (l *Layout) Pole() r2.Point {
	return r2.Point{X: l.centerOffset, Y: l.centerOffset}
}

// SetContainerSide updates the container size. Items are re-placed only
// when the side actually changes.
func (l *Layout) SetContainerSide(side float64) {
	if side == l.side {
		return
	}
	l.side = side
	l.centerOffset = side / 2
	l.Place()
}

// Spin returns the current global rotation in degrees.
func (l *Layout) Spin() float64 {
	return l.spin
}

// SetSpin stores the global rotation and re-places the orbiting items.
// The value is never wrapped.
func (l *Layout) SetSpin(spin float64) {
	l.spin = spin
	for _, it := range l.items {
		if !it.Fixed {
			l.placeItem(it)
		}
	}
}

// Add appends items (z-order follows insertion order) and places them.
func (l *Layout) Add(items ...*Item) {
	for _, it := range items {
		l.items = append(l.items, it)
		l.placeItem(it)
	}
}

// Remove drops the item with the given id. It reports whether it was found.
func (l *Layout) Remove(id string) bool {
	for i, it := range l.items {
		if it.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Item returns the item with the given id, or nil.
func (l *Layout) Item(id string) *Item {
	for _, it := range l.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Items returns the items in insertion order. The slice is shared; callers
// that change item parameters must call Place afterwards.
func (l *Layout) Items() []*Item {
	return l.items
}

// Len returns the number of items.
func (l *Layout) Len() int {
	return len(l.items)
}

// Place recomputes every bounding box from scratch.
func (l *Layout) Place() {
	for _, it := range l.items {
		l.placeItem(it)
	}
}

func (l *Layout) placeItem(it *Item) {
	it.bbox = Place(l.centerOffset, it, l.spin)
	debug.Placement(it.ID, it.bbox.X.Lo, it.bbox.Y.Lo, it.bbox.X.Hi, it.bbox.Y.Hi)
}
