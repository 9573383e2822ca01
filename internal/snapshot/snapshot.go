// Package snapshot paints disk frames into an image, mostly for debugging
// and for the web inspector.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/cjeanneret/PolarGo/internal/logic/disk"
)

var (
	background = color.RGBA{0x20, 0x22, 0x28, 0xff}
	diskFill   = color.RGBA{0x2e, 0x34, 0x40, 0xff}
	palette    = []color.RGBA{
		{0xff, 0x44, 0x44, 0xff},
		{0xff, 0x8c, 0x00, 0xff},
		{0xff, 0xd7, 0x00, 0xff},
		{0x32, 0xcd, 0x32, 0xff},
		{0x00, 0xce, 0xd1, 0xff},
		{0x41, 0x69, 0xe1, 0xff},
		{0x93, 0x70, 0xdb, 0xff},
	}
	fixedColor   = color.RGBA{0xb0, 0xb0, 0xb0, 0xff}
	inertOpacity = uint8(0x80)
)

// Render paints the disk and every frame, in z-order, into a side×side image.
func Render(frames []disk.Frame, side float64) *image.RGBA {
	n := int(math.Ceil(side))
	if n < 1 {
		n = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	fillDisk(img, side/2)

	for i, f := range frames {
		w, h := int(math.Round(f.Width)), int(math.Round(f.Height))
		if w <= 0 || h <= 0 {
			continue
		}
		src := image.NewUniform(itemColor(i, f))
		// Transform maps content space to the image, exactly as painted.
		draw.BiLinear.Transform(img, f.Transform, src, image.Rect(0, 0, w, h), draw.Over, nil)
	}
	return img
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG renders frames to a PNG file.
func WritePNG(path string, frames []disk.Frame, side float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Encode(f, Render(frames, side)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// circleKappa places cubic control points for a quarter circle.
const circleKappa = 0.5522847498307936

// fillDisk paints the disk face of radius r centered in img.
func fillDisk(img *image.RGBA, r float64) {
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())

	c, rr, k := float32(r), float32(r), float32(r*circleKappa)
	z.MoveTo(c+rr, c)
	z.CubeTo(c+rr, c+k, c+k, c+rr, c, c+rr)
	z.CubeTo(c-k, c+rr, c-rr, c+k, c-rr, c)
	z.CubeTo(c-rr, c-k, c-k, c-rr, c, c-rr)
	z.CubeTo(c+k, c-rr, c+rr, c-k, c+rr, c)
	z.ClosePath()

	z.Draw(img, b, image.NewUniform(diskFill), image.Point{})
}

func itemColor(i int, f disk.Frame) color.RGBA {
	c := palette[i%len(palette)]
	if f.Fixed {
		c = fixedColor
	}
	if !f.Active {
		// premultiplied alpha
		c = color.RGBA{
			R: uint8(uint16(c.R) * uint16(inertOpacity) / 0xff),
			G: uint8(uint16(c.G) * uint16(inertOpacity) / 0xff),
			B: uint8(uint16(c.B) * uint16(inertOpacity) / 0xff),
			A: inertOpacity,
		}
	}
	return c
}
