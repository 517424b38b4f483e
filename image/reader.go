package image

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/mandelbrot/frame"
)

var errEmpty = errors.New("image: empty image")

// Decode reads an image from r and returns its luminance as a frame buffer.
// A greyscale PNG written by EncodePNG decodes back to the original frame
// buffer exactly.
func Decode(r io.Reader) (*frame.Buffer, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := m.Bounds()
	if bounds.Empty() {
		return nil, errEmpty
	}

	b := frame.New(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			g := color.GrayModel.Convert(m.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			b.Set(x, y, g.Y)
		}
	}

	return b, nil
}
