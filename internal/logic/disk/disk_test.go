package disk

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cjeanneret/PolarGo/internal/config"
	"github.com/cjeanneret/PolarGo/internal/logic/polar"
	"github.com/cjeanneret/PolarGo/internal/logic/spin"
)

func near(a, b r2.Point) bool {
	return math.Abs(a.X-b.X) <= 1e-6 && math.Abs(a.Y-b.Y) <= 1e-6
}

func mustItem(t *testing.T, d *Disk, id string) polar.Item {
	t.Helper()
	it, ok := d.Item(id)
	if !ok {
		t.Fatalf("item %q not found", id)
	}
	return it
}

func scenarioDisk() *Disk {
	it := polar.NewItem("a")
	it.SetRadius(0.9)
	it.Width, it.Height = 20, 20
	return New(200, 0, it)
}

func TestDisk_SetSpinReplaces(t *testing.T) {
	d := scenarioDisk()
	if it := mustItem(t, d, "a"); !near(it.Center(), r2.Point{X: 190, Y: 100}) {
		t.Fatalf("initial center = %v", it.Center())
	}
	d.SetSpin(90)
	if it := mustItem(t, d, "a"); !near(it.Center(), r2.Point{X: 100, Y: 190}) {
		t.Errorf("center after spin = %v, want (100,190)", it.Center())
	}
	if d.Spin() != 90 {
		t.Errorf("spin = %v, want 90", d.Spin())
	}
}

func TestDisk_InitialSpinApplied(t *testing.T) {
	it := polar.NewItem("a")
	it.Width, it.Height = 20, 20
	d := New(200, 90, it)
	if !near(it.Center(), r2.Point{X: 100, Y: 190}) {
		t.Errorf("center = %v, want (100,190)", it.Center())
	}
	if d.Spin() != 90 {
		t.Errorf("Spin = %v", d.Spin())
	}
}

func TestDisk_DispatchItem(t *testing.T) {
	d := scenarioDisk()
	got := d.Dispatch(195, 100)
	if got.OnContainer() || got.ItemID != "a" {
		t.Fatalf("dispatch = %+v, want item a", got)
	}
	if !near(got.Local, r2.Point{X: 5, Y: 0}) {
		t.Errorf("local = %v, want (5,0)", got.Local)
	}
	if !near(got.Point, r2.Point{X: 15, Y: 10}) {
		t.Errorf("point = %v, want (15,10)", got.Point)
	}
}

func TestDisk_DispatchContainer(t *testing.T) {
	d := scenarioDisk()
	got := d.Dispatch(100, 0)
	if !got.OnContainer() {
		t.Fatalf("dispatch = %+v, want container", got)
	}
	if !near(got.Point, r2.Point{X: 0, Y: -100}) {
		t.Errorf("container point = %v, want (0,-100)", got.Point)
	}
}

func TestDisk_Activate(t *testing.T) {
	it := polar.NewItem("a")
	it.Azimuth = 190
	d := New(200, 0, it)

	snap, err := d.Activate("a")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if snap.Delta != 170 || snap.Target != 170 || snap.From != 0 {
		t.Errorf("snap = %+v, want delta/target 170", snap)
	}
	want := spin.Duration(170, int(spin.Normal))
	if snap.Duration != want {
		t.Errorf("duration = %v, want %v", snap.Duration, want)
	}

	d.SetSpeed(spin.Fastest)
	snap, _ = d.Activate("a")
	if snap.Duration != spin.Duration(170, 1000) {
		t.Errorf("fastest duration = %v", snap.Duration)
	}
}

func TestDisk_ActivateErrors(t *testing.T) {
	hub := polar.NewItem("hub")
	hub.Fixed = true
	d := New(200, 0, hub)

	if _, err := d.Activate("hub"); !errors.Is(err, ErrNotRotatable) {
		t.Errorf("fixed item: err = %v, want ErrNotRotatable", err)
	}
	if _, err := d.Activate("missing"); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestDisk_Frames(t *testing.T) {
	it := polar.NewItem("a")
	it.Width, it.Height = 20, 10
	it.Orientation = 5
	hub := polar.NewItem("hub")
	hub.Fixed = true
	hub.Orientation = 30
	hub.Width, hub.Height = 4, 4
	d := New(200, 45, it, hub)

	frames := d.Frames()
	if len(frames) != 2 || frames[0].ID != "a" || frames[1].ID != "hub" {
		t.Fatalf("frames = %+v", frames)
	}
	if frames[0].Rotation != 50 {
		t.Errorf("orbiting rotation = %v, want 50", frames[0].Rotation)
	}
	if frames[1].Rotation != 30 {
		t.Errorf("fixed rotation = %v, want 30", frames[1].Rotation)
	}
	if !near(frames[0].Pivot(), it.Center()) {
		t.Errorf("frame pivot = %v, want %v", frames[0].Pivot(), it.Center())
	}
	if !near(frames[1].Pivot(), r2.Point{X: 100, Y: 100}) {
		t.Errorf("hub pivot = %v", frames[1].Pivot())
	}
}

func TestDisk_Resize(t *testing.T) {
	d := scenarioDisk()
	d.Resize(400)
	a := mustItem(t, d, "a")
	if c := a.Center(); !near(c, r2.Point{X: 380, Y: 200}) {
		t.Errorf("center after resize = %v", c)
	}
	if d.Side() != 400 {
		t.Errorf("Side = %v", d.Side())
	}
}

func TestDisk_WrapSpin(t *testing.T) {
	d := scenarioDisk()
	d.SetSpin(450)
	before := mustItem(t, d, "a")
	center := before.Center()
	d.WrapSpin()
	if d.Spin() != 90 {
		t.Errorf("Spin after wrap = %v, want 90", d.Spin())
	}
	after := mustItem(t, d, "a")
	if c := after.Center(); !near(c, center) {
		t.Errorf("wrap moved the item: %v -> %v", center, c)
	}
}

func TestFromConfig(t *testing.T) {
	radius := 2.0
	keep := false
	inactive := false
	cfg := &config.Config{
		Disk: config.DiskConfig{Side: 300, Spin: 10, SpinSpeedMs: 2500},
		Items: []config.ItemConfig{
			{ID: "a", Azimuth: 80, Radius: &radius, KeepOrientation: &keep, Width: 10, Height: 10, Label: "Alpha"},
			{ID: "hub", Fixed: true, Interactive: &inactive, Width: 30, Height: 30},
		},
	}
	d := FromConfig(cfg)

	a := mustItem(t, d, "a")
	if a.Radius != polar.MaxRadius {
		t.Errorf("radius = %v, want clamped %v", a.Radius, polar.MaxRadius)
	}
	if a.KeepOrientation {
		t.Error("keep_orientation should be false")
	}
	if !a.Interactive {
		t.Error("nil interactive should default to true")
	}
	hub := mustItem(t, d, "hub")
	if hub.Interactive || !hub.Fixed {
		t.Errorf("hub = %+v", hub)
	}
	if hub.Radius != polar.DefaultRadius {
		t.Errorf("omitted radius = %v, want default", hub.Radius)
	}
	if d.Speed() != spin.Fast {
		t.Errorf("speed = %v, want fast", d.Speed())
	}
	if d.Label("a") != "Alpha" || d.Label("hub") != "hub" || d.Label("zzz") != "zzz" {
		t.Errorf("labels: %q %q %q", d.Label("a"), d.Label("hub"), d.Label("zzz"))
	}
	if d.Spin() != 10 {
		t.Errorf("Spin = %v, want 10", d.Spin())
	}
}

func TestDisk_SpinHasSingleOwner(t *testing.T) {
	d := scenarioDisk()
	d.SetSpin(90)

	// Placement, paint rotation and routing all read the same spin.
	it := mustItem(t, d, "a")
	if !near(it.Center(), r2.Point{X: 100, Y: 190}) {
		t.Errorf("center = %v, want (100,190)", it.Center())
	}
	if f := d.Frames()[0]; f.Rotation != 90 {
		t.Errorf("frame rotation = %v, want 90", f.Rotation)
	}
	if disp := d.Dispatch(100, 190); disp.ItemID != "a" {
		t.Errorf("dispatch = %+v, want item a", disp)
	}

	// Items handed out are copies: editing one changes nothing on the disk.
	it.Azimuth = 180
	it.Radius = 0.2
	if again := mustItem(t, d, "a"); again.Azimuth != 0 || again.Radius != 0.9 {
		t.Errorf("disk item changed through a copy: %v", again)
	}
	if _, ok := d.Item("ghost"); ok {
		t.Error("unknown item reported as found")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}
