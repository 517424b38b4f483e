package image

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/bodgit/mandelbrot/frame"
	"github.com/ericpauley/go-quantize/quantize"
)

var errColors = errors.New("image: palette size out of range")

type encoder struct {
	w io.Writer
}

// Unique colours in m, in the order first seen
func uniqueColors(m image.Image) color.Palette {
	seen := make(map[color.Color]struct{})
	var p color.Palette
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				p = append(p, c)
			}
		}
	}
	return p
}

func (e *encoder) palette(m image.Image, colors int) color.Palette {
	// Median cut is only needed if the frame has more colours than allowed
	if p := uniqueColors(m); len(p) <= colors {
		return p
	}
	q := quantize.MedianCutQuantizer{}
	return q.Quantize(make(color.Palette, 0, colors), m)
}

func (e *encoder) encodeGIF(b *frame.Buffer, colors int) error {
	m := Colorize(b)
	r := m.Bounds()

	pm := image.NewPaletted(r, e.palette(m, colors))
	draw.Draw(pm, r, m, r.Min, draw.Src)

	return gif.Encode(e.w, pm, &gif.Options{NumColors: len(pm.Palette)})
}

// EncodePNG writes the frame buffer to w as a greyscale PNG.
func EncodePNG(w io.Writer, b *frame.Buffer) error {
	return png.Encode(w, Gray(b))
}

// EncodeGIF writes the colourised frame buffer to w as a GIF using at most
// colors palette entries.
func EncodeGIF(w io.Writer, b *frame.Buffer, colors int) error {
	if colors == 0 {
		colors = DefaultColors
	}
	if colors < 2 || colors > MaxColors {
		return errColors
	}

	e := encoder{w: w}

	return e.encodeGIF(b, colors)
}
