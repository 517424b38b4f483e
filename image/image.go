/*
Package image renders Mandelbrot frame buffers.

A frame buffer holds one 8-bit intensity per pixel, the escape iteration of
that pixel or zero for the interior of the set. It can be written as a
greyscale PNG which preserves the intensities exactly and can be read back,
or as a colourised GIF whose palette is reduced with a median cut quantizer.
*/
package image

import (
	"image"
	"image/color"

	"github.com/bodgit/mandelbrot/frame"
)

const (
	// MaxColors is the largest palette a GIF can carry
	MaxColors = 256
	// DefaultColors is used if no palette size is given
	DefaultColors = 64
)

// Gray returns the frame buffer as a greyscale image.
func Gray(b *frame.Buffer) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
	for y, row := range b.Pix {
		copy(m.Pix[y*m.Stride:], row)
	}
	return m
}

// Ramp maps an intensity to a colour. Zero stays black so the interior of
// the set is drawn black.
func Ramp(v byte) color.RGBA {
	if v == 0 {
		return color.RGBA{0, 0, 0, 0xff}
	}
	// Cycle blue through white to orange every 64 iterations
	t := int(v) & 0x3f
	switch {
	case t < 16:
		return color.RGBA{0, byte(t * 8), byte(0x80 + t*8), 0xff}
	case t < 32:
		t -= 16
		return color.RGBA{byte(t * 16), byte(0x80 + t*8), 0xff, 0xff}
	case t < 48:
		t -= 32
		return color.RGBA{0xff, byte(0xff - t*4), byte(0xff - t*16), 0xff}
	default:
		t -= 48
		return color.RGBA{byte(0xff - t*8), byte(0xc0 - t*12), 0, 0xff}
	}
}

// Colorize returns the frame buffer with every intensity mapped through
// Ramp.
func Colorize(b *frame.Buffer) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	for y, row := range b.Pix {
		for x, v := range row {
			m.SetRGBA(x, y, Ramp(v))
		}
	}
	return m
}
