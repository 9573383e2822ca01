// Package hittest finds which placed item a pointer lands on.
//
// Candidates are pre-filtered by how far their placement angle is from the
// pointer's angle around the pole, then tested exactly by mapping the
// pointer into each item's rotated local frame.
package hittest

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/geometry"
	"github.com/cjeanneret/PolarGo/internal/logic/polar"
)

// DefaultMaxAngleDifference is the widest angular gap between the pointer
// and an item's placement angle that is still tested for containment.
const DefaultMaxAngleDifference = 60

// Hit is a matched item and the pointer expressed in its frame.
type Hit struct {
	ID    string
	Index int // position in the layout's insertion order

	// Local is the pointer relative to the item's center, in the item's
	// unrotated frame.
	Local r2.Point

	// Event is Local offset by the item's top-left: the coordinates an
	// input event forwarded to the item should carry.
	Event r2.Point
}

// Router performs hit-tests against a polar.Layout.
type Router struct {
	MaxAngleDifference float64

	// Inspect, when set, is called with the id of every item that reaches
	// the containment test.
	Inspect func(id string)
}

// NewRouter returns a router with the default angular threshold.
func NewRouter() *Router {
	return &Router{MaxAngleDifference: DefaultMaxAngleDifference}
}

type candidate struct {
	item     *polar.Item
	index    int
	distance float64
}

// Route returns the item under (x, y), in container pixels. The second
// result is false when the pointer lands on the container itself.
func (r *Router) Route(x, y float64, l *polar.Layout) (Hit, bool) {
	pointer := r2.Point{X: x, Y: y}
	angle := geometry.AngleOf(pointer, l.Pole())

	candidates := r.candidates(l, angle)
	if len(candidates) == 0 {
		debug.Route(x, y, angle, "")
		return Hit{}, false
	}

	for _, c := range candidates {
		if c.distance > r.MaxAngleDifference {
			// sorted: everything after is farther
			break
		}
		if r.Inspect != nil {
			r.Inspect(c.item.ID)
		}
		local, ok := Contains(c.item, pointer, l.Spin())
		if !ok {
			continue
		}
		debug.Route(x, y, angle, c.item.ID)
		return Hit{
			ID:    c.item.ID,
			Index: c.index,
			Local: local,
			Event: local.Add(c.item.HalfExtents()),
		}, true
	}

	debug.Route(x, y, angle, "")
	return Hit{}, false
}

func (r *Router) candidates(l *polar.Layout, angle float64) []candidate {
	var out []candidate
	for i, it := range l.Items() {
		if !it.Interactive {
			continue
		}
		c := candidate{
			item:     it,
			index:    i,
			distance: geometry.AngularDistance(polar.PlacementAngle(it, l.Spin()), angle),
		}
		if debug.IsEnabled(debug.LevelTrace) {
			debug.Trace("Candidate %s: %.2f° from pointer", it.ID, c.distance)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].distance < out[j].distance
	})
	return out
}

// Orientation returns the rotation used to bring a pointer into an item's
// frame. Azimuth is deliberately absent: the bounding box position already
// carries it.
func Orientation(it *polar.Item, spin float64) float64 {
	deg := it.Orientation
	if !it.Fixed && !it.KeepOrientation {
		deg += spin
	}
	return deg
}

// Contains maps p into the item's centered local frame and reports whether
// it falls inside the item's extent (edges included).
func Contains(it *polar.Item, p r2.Point, spin float64) (r2.Point, bool) {
	local := geometry.RotatePoint(p, it.Center(), Orientation(it, spin))
	half := it.HalfExtents()
	return local, math.Abs(local.X) <= half.X && math.Abs(local.Y) <= half.Y
}

// ContainerPoint converts a pointer to coordinates relative to the pole,
// used when no item matched.
func ContainerPoint(x, y, centerOffset float64) r2.Point {
	return r2.Point{X: x - centerOffset, Y: y - centerOffset}
}
