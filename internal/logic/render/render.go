// Package render computes how each placed item must be rotated when it is
// painted. It never touches pixels.
package render

import (
	"math"

	"github.com/golang/geo/r2"
	"golang.org/x/image/math/f64"

	"github.com/cjeanneret/PolarGo/internal/logic/geometry"
	"github.com/cjeanneret/PolarGo/internal/logic/polar"
)

// Rotation returns the rotation in degrees applied to an item's content
// about its pivot.
//
// Fixed items use their orientation only. Orbiting items follow their
// orbital angle (spin + azimuth), plus their orientation when they keep it.
func Rotation(it *polar.Item, spin float64) float64 {
	if it.Fixed {
		return it.Orientation
	}
	deg := spin + it.Azimuth
	if it.KeepOrientation {
		deg += it.Orientation
	}
	return deg
}

// Pivot returns the point the item's content rotates about.
func Pivot(it *polar.Item) r2.Point {
	return it.Center()
}

// Transform maps item-local content coordinates (origin at the item's
// top-left, unrotated) to container coordinates: move the content center to
// the origin, rotate clockwise by Rotation, then move it to the pivot.
//
// The result uses the f64.Aff3 layout expected by golang.org/x/image/draw:
// x' = m[0]*x + m[1]*y + m[2], y' = m[3]*x + m[4]*y + m[5].
func Transform(it *polar.Item, spin float64) f64.Aff3 {
	half := it.HalfExtents()
	pivot := Pivot(it)
	sin, cos := math.Sincos(geometry.Radians(Rotation(it, spin)))

	m := translate(-half.X, -half.Y)
	m = mul(rotate(sin, cos), m)
	return mul(translate(pivot.X, pivot.Y), m)
}

// Apply maps p through m.
func Apply(m f64.Aff3, p r2.Point) r2.Point {
	return r2.Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Corners returns the four corners of the item's rotated content, clockwise
// from the local top-left.
func Corners(it *polar.Item, spin float64) [4]r2.Point {
	m := Transform(it, spin)
	return [4]r2.Point{
		Apply(m, r2.Point{}),
		Apply(m, r2.Point{X: it.Width}),
		Apply(m, r2.Point{X: it.Width, Y: it.Height}),
		Apply(m, r2.Point{Y: it.Height}),
	}
}

func translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

func rotate(sin, cos float64) f64.Aff3 {
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}

// mul returns a*b, i.e. b applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
