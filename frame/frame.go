/*
Package frame implements the frame buffer the accelerator writes pixel
intensities into, together with a small binary dump format.

A dump is the four byte magic "MBFB", the width and height as little-endian
16-bit values followed by the pixels in raster order, one byte each. There is
no compression so a 640 by 480 frame is 307208 bytes.
*/
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Extension is the expected filename extension used when writing to disk
	Extension = ".fb"

	headerSize = 8
	maxSize    = 1<<16 - 1
)

var magic = [4]byte{'M', 'B', 'F', 'B'}

var (
	errMagic      = errors.New("frame: bad magic")
	errDimensions = errors.New("frame: invalid dimensions")
	errNotEnough  = errors.New("frame: not enough pixel data")
	errTooMuch    = errors.New("frame: too much pixel data")
)

// Buffer is a grid of 8-bit pixel intensities indexed [y][x].
type Buffer struct {
	Pix [][]byte
}

// New returns a zeroed frame buffer.
func New(width, height int) *Buffer {
	b := &Buffer{
		Pix: make([][]byte, height),
	}
	pix := make([]byte, width*height)
	for y := range b.Pix {
		b.Pix[y] = pix[y*width : (y+1)*width : (y+1)*width]
	}
	return b
}

// Width returns the number of pixels per row
func (b *Buffer) Width() int {
	if len(b.Pix) == 0 {
		return 0
	}
	return len(b.Pix[0])
}

// Height returns the number of rows
func (b *Buffer) Height() int {
	return len(b.Pix)
}

// At returns the pixel at (x, y)
func (b *Buffer) At(x, y int) byte {
	return b.Pix[y][x]
}

// Set stores v at (x, y)
func (b *Buffer) Set(x, y int, v byte) {
	b.Pix[y][x] = v
}

// MarshalBinary encodes the frame buffer into binary form and returns the
// result
func (b *Buffer) MarshalBinary() ([]byte, error) {
	w, h := b.Width(), b.Height()
	if w > maxSize || h > maxSize {
		return nil, fmt.Errorf("frame: %dx%d exceeds %d pixels per side", w, h, maxSize)
	}

	buf := new(bytes.Buffer)
	buf.Grow(headerSize + w*h)

	buf.Write(magic[:])
	if err := binary.Write(buf, binary.LittleEndian, [2]uint16{uint16(w), uint16(h)}); err != nil {
		return nil, err
	}

	for _, row := range b.Pix {
		buf.Write(row)
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the frame buffer from binary form
func (b *Buffer) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return errNotEnough
	}
	if m != magic {
		return errMagic
	}

	var dim [2]uint16
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return errNotEnough
	}
	if dim[0] == 0 || dim[1] == 0 {
		return errDimensions
	}

	switch n := int(dim[0]) * int(dim[1]); {
	case r.Len() < n:
		return errNotEnough
	case r.Len() > n:
		return errTooMuch
	}

	nb := New(int(dim[0]), int(dim[1]))
	for _, row := range nb.Pix {
		if _, err := io.ReadFull(r, row); err != nil {
			return errNotEnough
		}
	}

	b.Pix = nb.Pix
	return nil
}
