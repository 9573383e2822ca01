package spin

import (
	"math"
	"time"

	"github.com/cjeanneret/PolarGo/internal/logic/geometry"
)

// Rotatable is implemented by anything the disk can snap into position.
type Rotatable interface {
	IsRotatable() bool
	Angle() float64 // azimuth in degrees
}

// ShortestDeltaToZero returns the rotation in [-180, 180] that brings an
// item at azimuth to 0° given the current spin. Negative and unbounded
// spins are folded into [0, 360) first.
func ShortestDeltaToZero(azimuth, spin float64) float64 {
	t := geometry.NormalizeAngle(azimuth + spin)
	if t <= 180 {
		return -t
	}
	return 360 - t
}

// SnapDelta is ShortestDeltaToZero for a Rotatable. It reports false for
// items that do not move with the disk.
func SnapDelta(r Rotatable, spin float64) (float64, bool) {
	if r == nil || !r.IsRotatable() {
		return 0, false
	}
	return ShortestDeltaToZero(r.Angle(), spin), true
}

// Duration returns how long a rotation of delta degrees takes at
// msPerRevolution milliseconds per full turn.
func Duration(delta float64, msPerRevolution int) time.Duration {
	ms := math.Abs(delta) * float64(msPerRevolution) / 360
	return time.Duration(ms * float64(time.Millisecond))
}
