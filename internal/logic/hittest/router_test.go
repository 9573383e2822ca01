package hittest

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/polar"
)

const epsilon = 1e-9

func orbiting(id string, azimuth, radius, w, h float64) *polar.Item {
	it := polar.NewItem(id)
	it.Azimuth = azimuth
	it.SetRadius(radius)
	it.Width, it.Height = w, h
	return it
}

func scenarioLayout() (*polar.Layout, *polar.Item) {
	l := polar.NewLayout(200)
	it := orbiting("a", 0, 0.9, 20, 20)
	l.Add(it)
	return l, it
}

func TestRoute_ScenarioDirectHit(t *testing.T) {
	l, _ := scenarioLayout()
	hit, ok := NewRouter().Route(190, 100, l)
	if !ok {
		t.Fatal("expected a hit at (190,100)")
	}
	if hit.ID != "a" || hit.Index != 0 {
		t.Errorf("hit = %+v, want item a at index 0", hit)
	}
	if hit.Local.Norm() > 1e-9 {
		t.Errorf("local = %v, want (0,0)", hit.Local)
	}
	if math.Abs(hit.Event.X-10) > 1e-9 || math.Abs(hit.Event.Y-10) > 1e-9 {
		t.Errorf("event point = %v, want (10,10)", hit.Event)
	}
}

func TestRoute_ScenarioBeyondThreshold(t *testing.T) {
	l, _ := scenarioLayout()
	if hit, ok := NewRouter().Route(100, 0, l); ok {
		t.Errorf("expected no hit at (100,0), got %+v", hit)
	}
}

func TestRoute_FollowsSpin(t *testing.T) {
	l, _ := scenarioLayout()
	l.SetSpin(90)
	if _, ok := NewRouter().Route(190, 100, l); ok {
		t.Error("old position should no longer hit after spin")
	}
	hit, ok := NewRouter().Route(100, 190, l)
	if !ok || hit.ID != "a" {
		t.Errorf("expected hit on a at (100,190), got %+v %v", hit, ok)
	}
}

func TestRoute_EmptyCandidateSet(t *testing.T) {
	l := polar.NewLayout(200)
	hidden := orbiting("hidden", 0, 0.9, 20, 20)
	hidden.Interactive = false
	l.Add(hidden)

	calls := 0
	r := NewRouter()
	r.Inspect = func(string) { calls++ }
	if _, ok := r.Route(190, 100, l); ok {
		t.Error("non-interactive item must not be hit")
	}
	if calls != 0 {
		t.Errorf("Inspect called %d times, want 0", calls)
	}
}

func TestRoute_EarlyExitStopsIteration(t *testing.T) {
	l := polar.NewLayout(400)
	// Sorted by distance from pointer angle 0: near (10°), mid (50°), far (90°), farther (150°).
	l.Add(
		orbiting("far", 90, 0.9, 10, 10),
		orbiting("near", 10, 0.9, 10, 10),
		orbiting("farther", 150, 0.9, 10, 10),
		orbiting("mid", 50, 0.9, 10, 10),
	)

	var examined []string
	r := NewRouter()
	r.Inspect = func(id string) { examined = append(examined, id) }

	// Pointer on the x axis, between items: matches nothing.
	if _, ok := r.Route(250, 200, l); ok {
		t.Fatal("expected no hit")
	}
	want := []string{"near", "mid"}
	if len(examined) != len(want) {
		t.Fatalf("examined = %v, want %v", examined, want)
	}
	for i := range want {
		if examined[i] != want[i] {
			t.Errorf("examined[%d] = %s, want %s", i, examined[i], want[i])
		}
	}
}

func TestRoute_ThresholdIsInclusive(t *testing.T) {
	l := polar.NewLayout(400)
	l.Add(orbiting("edge", 60, 0.9, 10, 10))
	calls := 0
	r := NewRouter()
	r.Inspect = func(string) { calls++ }
	r.Route(300, 200, l) // angle 0
	if calls != 1 {
		t.Errorf("item exactly at the threshold examined %d times, want 1", calls)
	}
}

func TestRoute_TieBrokenByInsertionOrder(t *testing.T) {
	l := polar.NewLayout(200)
	first := orbiting("first", 0, 0.9, 20, 20)
	second := orbiting("second", 0, 0.9, 20, 20)
	l.Add(first, second)

	for i := 0; i < 20; i++ {
		hit, ok := NewRouter().Route(190, 100, l)
		if !ok || hit.ID != "first" {
			t.Fatalf("iteration %d: hit = %+v %v, want first", i, hit, ok)
		}
	}
}

func TestRoute_CenterAlwaysMatches(t *testing.T) {
	for _, side := range []float64{1, 50, 200, 1333} {
		for _, fixed := range []bool{false, true} {
			for _, keep := range []bool{false, true} {
				for _, orient := range []float64{0, 33, 90, 271} {
					for _, spin := range []float64{0, 45, -170, 1000} {
						l := polar.NewLayout(side)
						it := orbiting("x", 123, 0.7, 8, 4)
						it.Fixed = fixed
						if fixed {
							// A fixed item sits on the pole, where the pointer
							// angle is 0; its azimuth must pass the pre-filter.
							it.Azimuth = 20
						}
						it.KeepOrientation = keep
						it.Orientation = orient
						l.Add(it)
						l.SetSpin(spin)

						c := it.Center()
						hit, ok := NewRouter().Route(c.X, c.Y, l)
						if !ok || hit.ID != "x" {
							t.Errorf("side=%v fixed=%v keep=%v orient=%v spin=%v: center did not match",
								side, fixed, keep, orient, spin)
						}
					}
				}
			}
		}
	}
}

func TestRoute_RotatedItemRejectsAxisAlignedCorner(t *testing.T) {
	l := polar.NewLayout(200)
	hub := polar.NewItem("hub")
	hub.Fixed = true
	hub.Azimuth = 45
	hub.Width, hub.Height = 40, 4
	hub.Orientation = 90
	l.Add(hub)

	r := NewRouter()
	// Inside the unrotated 40x4 box but outside once it stands upright.
	if _, ok := r.Route(115, 100.5, l); ok {
		t.Error("point outside the rotated extent matched")
	}
	// Outside the unrotated box, inside the upright one.
	hit, ok := r.Route(100.5, 115, l)
	if !ok {
		t.Fatal("point inside the rotated extent did not match")
	}
	if math.Abs(hit.Local.X-15) > 1e-9 || math.Abs(hit.Local.Y+0.5) > 1e-9 {
		t.Errorf("local = %v, want (15,-0.5)", hit.Local)
	}
}

func TestRoute_FixedItemFilteredByAzimuth(t *testing.T) {
	l := polar.NewLayout(200)
	hub := polar.NewItem("hub")
	hub.Fixed = true
	hub.Azimuth = 180
	hub.Width, hub.Height = 50, 50
	l.Add(hub)

	// (110,100) is inside the hub but at angle 0, 180° away from its azimuth.
	if _, ok := NewRouter().Route(110, 100, l); ok {
		t.Error("fixed item should be pre-filtered by its azimuth")
	}
	if _, ok := NewRouter().Route(90, 100, l); !ok {
		t.Error("fixed item should match on the side of its azimuth")
	}
}

func TestOrientation(t *testing.T) {
	it := polar.NewItem("x")
	it.Azimuth = 80
	it.Orientation = 10

	it.KeepOrientation = true
	if got := Orientation(it, 30); got != 10 {
		t.Errorf("keep: Orientation = %v, want 10", got)
	}
	it.KeepOrientation = false
	if got := Orientation(it, 30); got != 40 {
		t.Errorf("no keep: Orientation = %v, want 40", got)
	}
	it.Fixed = true
	if got := Orientation(it, 30); got != 10 {
		t.Errorf("fixed: Orientation = %v, want 10", got)
	}
}

func TestContains_EdgesIncluded(t *testing.T) {
	l := polar.NewLayout(200)
	hub := polar.NewItem("hub")
	hub.Fixed = true
	hub.Width, hub.Height = 20, 10
	l.Add(hub)

	if _, ok := Contains(hub, r2.Point{X: 110, Y: 105}, 0); !ok {
		t.Error("corner point should be contained")
	}
	if _, ok := Contains(hub, r2.Point{X: 110.001, Y: 105}, 0); ok {
		t.Error("point just outside should not be contained")
	}
}

func TestContainerPoint(t *testing.T) {
	got := ContainerPoint(30, 250, 100)
	if math.Abs(got.X+70) > epsilon || math.Abs(got.Y-150) > epsilon {
		t.Errorf("ContainerPoint = %v, want (-70,150)", got)
	}
}

func TestRoute_TracesCandidates(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.Init(debug.LevelTrace)
	t.Cleanup(func() {
		debug.Init(debug.LevelOff)
		debug.SetOutput(os.Stdout)
	})

	l, _ := scenarioLayout()
	NewRouter().Route(190, 100, l)

	got := buf.String()
	if !strings.Contains(got, "[TRACE] Candidate a: 0.00° from pointer") {
		t.Errorf("missing candidate trace in %q", got)
	}
	if !strings.Contains(got, "-> a") {
		t.Errorf("missing route decision in %q", got)
	}
}
