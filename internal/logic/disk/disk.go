// Package disk ties placement, spin, rendering and hit-testing together for
// one disk instance.
package disk

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/r2"
	"golang.org/x/image/math/f64"

	"github.com/cjeanneret/PolarGo/internal/config"
	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/hittest"
	"github.com/cjeanneret/PolarGo/internal/logic/polar"
	"github.com/cjeanneret/PolarGo/internal/logic/render"
	"github.com/cjeanneret/PolarGo/internal/logic/spin"
)

// ErrNotRotatable is returned when activating an item that does not move
// with the disk.
var ErrNotRotatable = errors.New("item does not rotate with the disk")

// Disk is one polar layout with its spin and router. It is not safe for
// concurrent use: hosts must serialize every call on a given Disk.
type Disk struct {
	layout *polar.Layout
	spin   *spin.Controller
	router *hittest.Router
	speed  spin.Speed
	labels map[string]string
}

// New creates a disk of the given side holding items.
func New(side, initialSpin float64, items ...*polar.Item) *Disk {
	d := &Disk{
		layout: polar.NewLayout(side),
		spin:   spin.NewController(initialSpin),
		router: hittest.NewRouter(),
		speed:  spin.Normal,
		labels: make(map[string]string),
	}
	d.layout.SetSpin(initialSpin)
	d.layout.Add(items...)
	// spin changes mark placement dirty
	d.spin.OnChange(d.layout.SetSpin)
	return d
}

// FromConfig builds a disk from configuration.
func FromConfig(cfg *config.Config) *Disk {
	items := make([]*polar.Item, 0, len(cfg.Items))
	for _, ic := range cfg.Items {
		it := polar.NewItem(ic.ID)
		it.Fixed = ic.Fixed
		it.Azimuth = ic.Azimuth
		it.Orientation = ic.Orientation
		it.Width = ic.Width
		it.Height = ic.Height
		it.KeepOrientation = ic.KeepOrientation == nil || *ic.KeepOrientation
		it.Interactive = ic.Interactive == nil || *ic.Interactive
		it.SetRadius(ic.RadiusOrZero())
		items = append(items, it)
	}

	d := New(cfg.Disk.Side, cfg.Disk.Spin, items...)
	d.speed = spin.SpeedOf(cfg.Disk.SpinSpeedMs)
	for _, ic := range cfg.Items {
		d.labels[ic.ID] = ic.Label
	}
	debug.Disk(d.layout.ContainerSide(), d.layout.Len())
	return d
}

// Item returns a copy of the item with the given id. The disk keeps sole
// ownership of placement and spin.
func (d *Disk) Item(id string) (polar.Item, bool) {
	it := d.layout.Item(id)
	if it == nil {
		return polar.Item{}, false
	}
	return *it, true
}

// Len returns the number of items.
func (d *Disk) Len() int {
	return d.layout.Len()
}

// Side returns the container side.
func (d *Disk) Side() float64 {
	return d.layout.ContainerSide()
}

// Resize changes the container side and re-places every item.
func (d *Disk) Resize(side float64) {
	d.layout.SetContainerSide(side)
}

// Spin returns the current spin in degrees.
func (d *Disk) Spin() float64 {
	return d.spin.Get()
}

// SetSpin rotates the disk to an absolute spin value.
func (d *Disk) SetSpin(v float64) {
	d.spin.Set(v)
}

// WrapSpin folds the spin into [0, 360). Call it between animations only.
func (d *Disk) WrapSpin() {
	d.spin.Wrap()
}

// Speed returns the spinning speed used by Activate.
func (d *Disk) Speed() spin.Speed {
	return d.speed
}

// SetSpeed changes the spinning speed used by Activate.
func (d *Disk) SetSpeed(s spin.Speed) {
	d.speed = s
}

// Label returns the display label of an item, falling back to its id.
func (d *Disk) Label(id string) string {
	if l, ok := d.labels[id]; ok && l != "" {
		return l
	}
	return id
}

// Dispatch is the routing decision for one pointer event.
type Dispatch struct {
	// ItemID is empty when the event belongs to the container.
	ItemID string `json:"item_id,omitempty"`
	// Point is the event position in the receiver's coordinates: the
	// item's local top-left frame, or the container relative to the pole.
	Point r2.Point `json:"point"`
	// Local is the pointer relative to the item's center (items only).
	Local r2.Point `json:"local"`
}

// OnContainer reports whether no item matched.
func (d Dispatch) OnContainer() bool {
	return d.ItemID == ""
}

// Dispatch routes a pointer at (x, y) in container pixels.
func (d *Disk) Dispatch(x, y float64) Dispatch {
	hit, ok := d.router.Route(x, y, d.layout)
	if !ok {
		return Dispatch{Point: hittest.ContainerPoint(x, y, d.layout.CenterOffset())}
	}
	return Dispatch{ItemID: hit.ID, Point: hit.Event, Local: hit.Local}
}

// Snap describes the rotation that brings an activated item to 0°.
type Snap struct {
	ItemID   string
	From     float64
	Delta    float64
	Target   float64
	Duration time.Duration
}

// Activate computes the snap-to-zero rotation for an item; the caller
// animates the returned Snap. Fixed items yield ErrNotRotatable.
func (d *Disk) Activate(id string) (Snap, error) {
	it := d.layout.Item(id)
	if it == nil {
		return Snap{}, fmt.Errorf("unknown item %q", id)
	}
	from := d.spin.Get()
	delta, ok := spin.SnapDelta(it, from)
	if !ok {
		return Snap{}, fmt.Errorf("activate %q: %w", id, ErrNotRotatable)
	}
	s := Snap{
		ItemID:   id,
		From:     from,
		Delta:    delta,
		Target:   from + delta,
		Duration: spin.Duration(delta, d.speed.MillisPerRevolution()),
	}
	debug.Live("Activate %s: spin %.2f° by %.2f° over %v", id, from, delta, s.Duration)
	return s, nil
}

// Frame is everything a painter needs for one item.
type Frame struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Left      float64  `json:"left"`
	Top       float64  `json:"top"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Rotation  float64  `json:"rotation"`
	Transform f64.Aff3 `json:"transform"`
	Fixed     bool     `json:"fixed"`
	Active    bool     `json:"interactive"`
}

// Pivot returns the rotation center of the frame.
func (f Frame) Pivot() r2.Point {
	return r2.Point{X: f.Left + f.Width/2, Y: f.Top + f.Height/2}
}

// Frames returns the paint data of every item in z-order.
func (d *Disk) Frames() []Frame {
	s := d.spin.Get()
	frames := make([]Frame, 0, d.layout.Len())
	for _, it := range d.layout.Items() {
		tl := it.TopLeft()
		frames = append(frames, Frame{
			ID:        it.ID,
			Label:     d.Label(it.ID),
			Left:      tl.X,
			Top:       tl.Y,
			Width:     it.Width,
			Height:    it.Height,
			Rotation:  render.Rotation(it, s),
			Transform: render.Transform(it, s),
			Fixed:     it.Fixed,
			Active:    it.Interactive,
		})
	}
	return frames
}
