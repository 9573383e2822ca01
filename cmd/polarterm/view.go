package main

import (
	"math"

	"github.com/golang/geo/r2"
	"golang.org/x/image/math/f64"

	"github.com/cjeanneret/PolarGo/internal/logic/disk"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2

// view maps terminal cells onto disk pixels. The disk is centered in the
// terminal and scaled so the whole square fits.
type view struct {
	cols, rows int
	side       float64
	scale      float64 // disk px per cell column
	originX    float64 // disk px at the left edge of column 0
	originY    float64 // disk px at the top edge of row 0
}

func newView(cols, rows int, side float64) view {
	v := view{cols: cols, rows: rows, side: side}
	if cols <= 0 || rows <= 0 {
		v.scale = 1
		return v
	}
	v.scale = math.Max(side/float64(cols), side/float64(rows*cellAspect))
	v.originX = side/2 - float64(cols)*v.scale/2
	v.originY = side/2 - float64(rows)*v.scale*cellAspect/2
	return v
}

// toDisk returns the disk pixel at the center of cell (cx, cy).
func (v view) toDisk(cx, cy int) r2.Point {
	return r2.Point{
		X: v.originX + (float64(cx)+0.5)*v.scale,
		Y: v.originY + (float64(cy)+0.5)*v.scale*cellAspect,
	}
}

// insideDisk reports whether p lies on the disk face.
func (v view) insideDisk(p r2.Point) bool {
	r := v.side / 2
	return p.Sub(r2.Point{X: r, Y: r}).Norm() <= r
}

// frameAt returns the index of the top-most frame painted at p, or -1.
func frameAt(frames []disk.Frame, p r2.Point) int {
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		inv, ok := invert(f.Transform)
		if !ok {
			continue
		}
		local := r2.Point{
			X: inv[0]*p.X + inv[1]*p.Y + inv[2],
			Y: inv[3]*p.X + inv[4]*p.Y + inv[5],
		}
		if local.X >= 0 && local.X <= f.Width && local.Y >= 0 && local.Y <= f.Height {
			return i
		}
	}
	return -1
}

// invert returns the inverse of an affine transform.
func invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		return f64.Aff3{}, false
	}
	a, b := m[4]/det, -m[1]/det
	d, e := -m[3]/det, m[0]/det
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}, true
}
