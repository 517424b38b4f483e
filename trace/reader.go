package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bodgit/mandelbrot/bus"
)

var (
	errRecord = errors.New("trace: invalid record")
	errHeader = errors.New("trace: invalid header")
)

// Frame is a header and the transactions that follow it. Traces captured
// from simulation may have no header at all in which case HasHeader is
// false and the Header is empty.
type Frame struct {
	Header       Header
	HasHeader    bool
	Transactions []bus.Transaction
}

func isRule(s string) bool {
	return len(s) > 0 && strings.Trim(s, "-") == ""
}

func parseRecord(s string) (bus.Transaction, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return bus.Transaction{}, errRecord
	}
	data, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return bus.Transaction{}, errRecord
	}
	address, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return bus.Transaction{}, errRecord
	}
	sel, err := strconv.ParseUint(fields[2], 16, 4)
	if err != nil {
		return bus.Transaction{}, errRecord
	}
	return bus.Transaction{
		Data:    uint32(data),
		Address: uint32(address),
		Select:  bus.ByteSelect(sel),
	}, nil
}

func (h *Header) parseField(s string) error {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return errHeader
	}
	key, value := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])

	var err error
	switch key {
	case "Maximum iterations":
		h.MaxIterations, err = strconv.Atoi(value)
	case "Starting 'C' Real":
		h.CReal, err = strconv.ParseUint(value, 16, 64)
	case "Starting 'C' Imaginary":
		h.CImag, err = strconv.ParseUint(value, 16, 64)
	case "Step size":
		h.Step = value
	case "Screen width":
		h.Width, err = strconv.Atoi(value)
	case "Screen height":
		h.Height, err = strconv.Atoi(value)
	}
	if err != nil {
		return errHeader
	}
	return nil
}

// Read parses every frame in a trace.
func Read(r io.Reader) ([]Frame, error) {
	var frames []Frame
	var inHeader bool

	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		switch {
		case text == "":
		case isRule(text):
			if !inHeader {
				frames = append(frames, Frame{HasHeader: true})
			}
			inHeader = !inHeader
		case inHeader:
			if err := frames[len(frames)-1].Header.parseField(text); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case strings.HasPrefix(text, "de_data"):
		default:
			t, err := parseRecord(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if len(frames) == 0 {
				frames = append(frames, Frame{})
			}
			f := &frames[len(frames)-1]
			f.Transactions = append(f.Transactions, t)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}
