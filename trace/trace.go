/*
Package trace reads and writes the human readable bus traces that are
compared against the output of the Verilog simulation of the accelerator.

Each frame starts with a header block describing the test vector followed by
one line per pixel written:

	de_data<TAB>de_addr<TAB>de_nbyte

de_data is the 32-bit data word as eight hex digits, de_addr the word address
as five hex digits and de_nbyte the single hex digit active-low byte select.
*/
package trace

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bodgit/mandelbrot/bus"
)

const rule = "--------------------------------------------------------"

// Header describes a frame in a trace.
type Header struct {
	MaxIterations int
	CReal         uint64
	CImag         uint64
	Step          string
	Width         int
	Height        int
}

// Writer writes a bus trace.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w: bufio.NewWriter(w),
	}
}

// WriteHeader starts a new frame.
func (w *Writer) WriteHeader(h Header) error {
	_, err := fmt.Fprintf(w.w, "%s\n"+
		"Maximum iterations:\t\t%4d\n"+
		"Starting 'C' Real:\t\t%04x\n"+
		"Starting 'C' Imaginary:\t%04x\n"+
		"Step size: \t\t\t\t%s\n"+
		"Screen width: \t\t\t%4d\n"+
		"Screen height: \t\t\t%4d\n"+
		"%s\n"+
		"de_data\t\tde_addr\tde_nbyte\n",
		rule, h.MaxIterations, h.CReal, h.CImag, h.Step, h.Width, h.Height, rule)
	return err
}

// WriteTransaction writes a single pixel write.
func (w *Writer) WriteTransaction(t bus.Transaction) error {
	_, err := fmt.Fprintf(w.w, "%08x\t%05x\t%s\n", t.Data, t.Address, t.Select)
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
