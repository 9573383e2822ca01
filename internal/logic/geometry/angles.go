// Package geometry holds the angle and point helpers shared by placement,
// rendering and hit-testing. All angles are in degrees, measured clockwise
// from the positive x axis of a y-down screen.
package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// -1e-14 + 360 rounds to 360
	if a >= 360 {
		a -= 360
	}
	return a
}

// AngularDistance returns the smallest absolute angle between two directions,
// in [0, 180].
func AngularDistance(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a - b))
	return math.Min(d, 360-d)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return s1.Angle(rad).Degrees()
}

// AngleOf returns the direction of p as seen from center, in [0, 360).
// A point at the center yields 0 (atan2(0, 0) == 0).
func AngleOf(p, center r2.Point) float64 {
	d := p.Sub(center)
	return NormalizeAngle(Degrees(math.Atan2(d.Y, d.X)))
}

// RotatePoint maps p into a frame centered on center and rotated by deg.
// It applies the inverse rotation, so a point drawn at local (x, y) inside
// content rotated by deg about center maps back to (x, y).
func RotatePoint(p, center r2.Point, deg float64) r2.Point {
	d := p.Sub(center)
	sin, cos := math.Sincos(Radians(-deg))
	return r2.Point{
		X: d.X*cos - d.Y*sin,
		Y: d.X*sin + d.Y*cos,
	}
}
