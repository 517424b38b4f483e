package mandelbrot

import (
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/mandelbrot/trace"
	"github.com/bodgit/mandelbrot/vector"
	"github.com/sirupsen/logrus"
)

// ErrRegression is returned in strict mode when a frame's signature differs
// from the recorded one.
var ErrRegression = errors.New("mandelbrot: signature differs from recorded run")

// FrameFunc is called with every completed frame and its index in the
// input.
type FrameFunc func(index int, f *Frame) error

// Process runs every test vector read from r, writing the bus trace to w.
// fn, if not nil, is called once per frame.
func (m *Model) Process(r io.Reader, w io.Writer, fn FrameFunc) error {
	vr := vector.NewReader(r)
	tw := trace.NewWriter(w)

	for i := 0; ; i++ {
		v, err := vr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever was traced so far
			tw.Flush()
			return err
		}

		if err := m.process(i, v, tw, fn); err != nil {
			tw.Flush()
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	return tw.Flush()
}

func (m *Model) process(i int, v vector.Vector, tw *trace.Writer, fn FrameFunc) error {
	p, err := m.params(v)
	if err != nil {
		return err
	}

	if err := tw.WriteHeader(trace.Header{
		MaxIterations: v.MaxIterations,
		CReal:         v.CReal,
		CImag:         v.CImag,
		Step:          v.Step,
		Width:         p.width,
		Height:        p.height,
	}); err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"frame":          i,
		"max_iterations": v.MaxIterations,
		"c_real":         m.config.Input.Decode(m.config.Input.Mask(v.CReal)),
		"c_imag":         m.config.Input.Decode(m.config.Input.Mask(v.CImag)),
	}).Info("running")

	f, err := m.Run(v, tw)
	if err != nil {
		return err
	}

	if err := m.check(f); err != nil {
		return err
	}

	if fn != nil {
		return fn(i, f)
	}
	return nil
}

func (m *Model) check(f *Frame) error {
	if m.db == nil {
		return nil
	}

	config := m.config.String()
	previous, ok, err := m.db.FindSignature(config, f)
	if err != nil {
		return err
	}
	if ok && previous != f.Signature {
		m.logger.Warnf("signature %08X differs from recorded %08X", f.Signature, previous)
		if m.config.Strict {
			return ErrRegression
		}
	}

	id, err := m.db.Record(config, f)
	if err != nil {
		return err
	}
	m.logger.Debugf("recorded run %d", id)

	return nil
}
