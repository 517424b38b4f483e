/*
Package vector parses the test vector files that drive the Mandelbrot model,
one frame per line.

A line holds whitespace separated fields:

	max_iterations c_real c_imag step_high step_low width height

max_iterations, width and height are decimal, the rest are hexadecimal. The
starting coordinates are Q4.12 and the Argand plane step is an unsigned Q0.32
that is either given as one token or split into a high and a low half that
are concatenated as text. The screen dimensions may be omitted, which leaves
the model to use its configured screen size. That gives four layouts:

	4 fields: max c_real c_imag step
	5 fields: max c_real c_imag step_high step_low
	6 fields: max c_real c_imag step width height
	7 fields: max c_real c_imag step_high step_low width height

Blank lines and lines starting with '#' are ignored.
*/
package vector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrFieldCount is returned for a line with an unsupported number of
	// fields.
	ErrFieldCount = errors.New("vector: wrong number of fields")
	// ErrSyntax is returned for a field that is not a valid number.
	ErrSyntax = errors.New("vector: invalid field")
)

// Vector is a single frame worth of accelerator parameters.
type Vector struct {
	MaxIterations int
	CReal         uint64 // Starting real part of c as given
	CImag         uint64 // Starting imaginary part of c as given
	StepReal      uint64
	StepImag      uint64
	Step          string // Step tokens exactly as written, for the trace header
	Width         int
	Height        int
	Sized         bool // Width and Height were given
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrSyntax, s)
	}
	return v, nil
}

func parseDec(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrSyntax, s)
	}
	return v, nil
}

// Parse decodes a single test vector line.
func Parse(line string) (Vector, error) {
	fields := strings.Fields(line)

	var v Vector
	var step []string
	switch len(fields) {
	case 4, 6:
		step = fields[3:4]
	case 5, 7:
		step = fields[3:5]
	default:
		return v, fmt.Errorf("%w: got %d", ErrFieldCount, len(fields))
	}

	var err error
	if v.MaxIterations, err = parseDec(fields[0]); err != nil {
		return v, err
	}
	if v.CReal, err = parseHex(fields[1], 64); err != nil {
		return v, err
	}
	if v.CImag, err = parseHex(fields[2], 64); err != nil {
		return v, err
	}

	v.Step = strings.Join(step, "")
	digits := make([]string, len(step))
	for i, half := range step {
		digits[i] = strings.TrimPrefix(strings.ToLower(half), "0x")
	}
	if v.StepReal, err = parseHex(strings.Join(digits, ""), 32); err != nil {
		return v, err
	}
	v.StepImag = v.StepReal

	if len(fields) > 5 {
		dims := fields[len(fields)-2:]
		if v.Width, err = parseDec(dims[0]); err != nil {
			return v, err
		}
		if v.Height, err = parseDec(dims[1]); err != nil {
			return v, err
		}
		v.Sized = true
	}

	return v, nil
}

// Reader reads test vectors from an input stream.
type Reader struct {
	s    *bufio.Scanner
	line int
}

// NewReader returns a new Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		s: bufio.NewScanner(r),
	}
}

// Read returns the next test vector. It returns io.EOF once the input is
// exhausted.
func (r *Reader) Read() (Vector, error) {
	for r.s.Scan() {
		r.line++
		text := strings.TrimSpace(r.s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := Parse(text)
		if err != nil {
			return v, fmt.Errorf("line %d: %w", r.line, err)
		}
		return v, nil
	}
	if err := r.s.Err(); err != nil {
		return Vector{}, err
	}
	return Vector{}, io.EOF
}

// ReadAll reads all remaining test vectors.
func (r *Reader) ReadAll() ([]Vector, error) {
	var vectors []Vector
	for {
		v, err := r.Read()
		if err == io.EOF {
			return vectors, nil
		}
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
}
