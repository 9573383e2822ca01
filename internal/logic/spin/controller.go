// Package spin owns the disk's global rotation and the "snap to zero"
// arithmetic used when an orbiting item is activated.
package spin

import (
	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/geometry"
)

// Controller holds the single spin value of a disk. Every Set notifies the
// registered listeners so they can re-place what depends on it.
type Controller struct {
	value     float64
	listeners []func(spin float64)
}

func NewController(initial float64) *Controller {
	return &Controller{value: initial}
}

// OnChange registers fn to be called after every Set.
func (c *Controller) OnChange(fn func(spin float64)) {
	c.listeners = append(c.listeners, fn)
}

// Get returns the current spin in degrees.
func (c *Controller) Get() float64 {
	return c.value
}

// Set stores v unchanged (no clamping or wrapping) and notifies listeners.
func (c *Controller) Set(v float64) {
	debug.Spin(c.value, v)
	c.value = v
	for _, fn := range c.listeners {
		fn(v)
	}
}

// Add rotates the disk by delta degrees.
func (c *Controller) Add(delta float64) {
	c.Set(c.value + delta)
}

// Wrap folds the accumulated spin back into [0, 360) and notifies
// listeners. Hosts call it at a boundary they control, e.g. after an
// animation completes, never in the middle of one.
func (c *Controller) Wrap() {
	c.Set(geometry.NormalizeAngle(c.value))
}
