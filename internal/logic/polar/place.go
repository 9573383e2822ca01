package polar

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/cjeanneret/PolarGo/internal/logic/geometry"
)

// PlacementAngle returns the direction of the item from the pole in degrees.
// Fixed items ignore spin.
func PlacementAngle(it *Item, spin float64) float64 {
	if it.Fixed {
		return it.Azimuth
	}
	return it.Azimuth + spin
}

// Place computes the unrotated bounding box of an item around its pivot.
// It is a pure function of its inputs.
func Place(centerOffset float64, it *Item, spin float64) r2.Rect {
	theta := geometry.Radians(PlacementAngle(it, spin))

	radius := it.Radius
	if it.Fixed {
		radius = 0
	}

	pivotX := centerOffset * (1 + radius*math.Cos(theta))
	pivotY := centerOffset * (1 + radius*math.Sin(theta))

	halfW := it.Width / 2
	halfH := it.Height / 2
	return r2.Rect{
		X: r1.Interval{Lo: pivotX - halfW, Hi: pivotX + halfW},
		Y: r1.Interval{Lo: pivotY - halfH, Hi: pivotY + halfH},
	}
}
