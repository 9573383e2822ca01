// Package animate drives spin values over time. It stands in for the host
// toolkit's animation system: it computes nothing about the disk itself,
// it only calls a setter at a steady cadence.
package animate

import (
	"context"
	"time"

	"github.com/cjeanneret/PolarGo/internal/debug"
)

// SpinParams defines one rotation.
type SpinParams struct {
	From     float64       // spin at the start
	Delta    float64       // rotation to perform, in degrees
	Duration time.Duration // total time; <= 0 jumps straight to the target
}

// Target returns the final spin value.
func (p SpinParams) Target() float64 {
	return p.From + p.Delta
}

// Animator calls a setter once per frame with linearly interpolated values.
type Animator struct {
	interval time.Duration
	now      func() time.Time
}

// NewAnimator creates an animator ticking every interval (default 16ms).
func NewAnimator(interval time.Duration) *Animator {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Animator{interval: interval, now: time.Now}
}

// Interval returns the frame interval.
func (a *Animator) Interval() time.Duration {
	return a.interval
}

// Spin runs the rotation described by p, calling set for every frame. The
// last call always receives exactly p.Target(). If ctx is cancelled the
// animation stops where it is and ctx.Err() is returned.
func (a *Animator) Spin(ctx context.Context, p SpinParams, set func(float64)) error {
	if p.Duration <= 0 || p.Delta == 0 {
		set(p.Target())
		return nil
	}

	debug.Live("Animating spin %.2f° -> %.2f° over %v", p.From, p.Target(), p.Duration)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	start := a.now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			debug.Verbose("Spin animation cancelled after %d frames", frames)
			return ctx.Err()
		case <-ticker.C:
		}

		frames++
		elapsed := a.now().Sub(start)
		if elapsed >= p.Duration {
			set(p.Target())
			debug.Verbose("Spin animation done in %d frames", frames)
			return nil
		}
		progress := float64(elapsed) / float64(p.Duration)
		set(p.From + p.Delta*progress)
	}
}
