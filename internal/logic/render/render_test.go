package render

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"golang.org/x/image/math/f64"

	"github.com/cjeanneret/PolarGo/internal/logic/polar"
)

const epsilon = 1e-9

func placed(it *polar.Item, side, spin float64) *polar.Item {
	l := polar.NewLayout(side)
	l.Add(it)
	l.SetSpin(spin)
	return it
}

func TestRotation(t *testing.T) {
	cases := []struct {
		name   string
		fixed  bool
		keep   bool
		az     float64
		orient float64
		spin   float64
		want   float64
	}{
		{"fixed_ignores_spin_and_azimuth", true, true, 45, 10, 90, 10},
		{"fixed_without_keep", true, false, 45, 10, 90, 10},
		{"keep_adds_orientation", false, true, 45, 10, 90, 145},
		{"no_keep_drops_orientation", false, false, 45, 10, 90, 135},
		{"unbounded_spin", false, true, 0, 0, 725, 725},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := polar.NewItem("x")
			it.Fixed = tc.fixed
			it.KeepOrientation = tc.keep
			it.Azimuth = tc.az
			it.Orientation = tc.orient
			if got := Rotation(it, tc.spin); math.Abs(got-tc.want) > epsilon {
				t.Errorf("Rotation = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRotation_FixedConstantUnderSpin(t *testing.T) {
	it := polar.NewItem("hub")
	it.Fixed = true
	it.Orientation = 30
	for _, spin := range []float64{0, 10, 359, -720} {
		if got := Rotation(it, spin); got != 30 {
			t.Errorf("spin=%v: Rotation = %v, want 30", spin, got)
		}
	}
}

func TestTransform_ContentCenterMapsToPivot(t *testing.T) {
	it := polar.NewItem("a")
	it.Azimuth = 30
	it.Width, it.Height = 40, 20
	it.Orientation = 15
	placed(it, 300, 50)

	m := Transform(it, 50)
	got := Apply(m, r2.Point{X: 20, Y: 10})
	want := Pivot(it)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("content center -> %v, want pivot %v", got, want)
	}
}

func TestTransform_NoRotationIsTranslationToTopLeft(t *testing.T) {
	it := polar.NewItem("hub")
	it.Fixed = true
	it.Width, it.Height = 30, 10
	placed(it, 200, 0)

	m := Transform(it, 0)
	want := f64.Aff3{1, 0, 85, 0, 1, 95}
	for i := range m {
		if math.Abs(m[i]-want[i]) > epsilon {
			t.Fatalf("Transform = %v, want %v", m, want)
		}
	}
}

func TestTransform_RotatesClockwiseOnScreen(t *testing.T) {
	it := polar.NewItem("hub")
	it.Fixed = true
	it.Orientation = 90
	it.Width, it.Height = 20, 20
	placed(it, 200, 0)

	// Local right-middle (20,10) sits 10px right of center; after a 90°
	// clockwise turn it sits 10px below the pivot.
	got := Apply(Transform(it, 0), r2.Point{X: 20, Y: 10})
	if math.Abs(got.X-100) > 1e-9 || math.Abs(got.Y-110) > 1e-9 {
		t.Errorf("got %v, want (100,110)", got)
	}
}

func TestCorners_KeepSize(t *testing.T) {
	it := polar.NewItem("a")
	it.Width, it.Height = 30, 12
	it.Orientation = 33
	placed(it, 200, 17)

	c := Corners(it, 17)
	top := c[1].Sub(c[0]).Norm()
	side := c[2].Sub(c[1]).Norm()
	if math.Abs(top-30) > 1e-9 || math.Abs(side-12) > 1e-9 {
		t.Errorf("edges = %v x %v, want 30 x 12", top, side)
	}
}
