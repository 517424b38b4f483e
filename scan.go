package mandelbrot

import (
	"fmt"

	"github.com/bodgit/mandelbrot/bus"
	"github.com/bodgit/mandelbrot/crc32"
	"github.com/bodgit/mandelbrot/fixed"
	"github.com/bodgit/mandelbrot/frame"
	"github.com/bodgit/mandelbrot/vector"
	"github.com/sirupsen/logrus"
)

// TransactionWriter receives the bus writes of a frame in raster order.
type TransactionWriter interface {
	WriteTransaction(bus.Transaction) error
}

// Frame is the outcome of running one test vector.
type Frame struct {
	Vector    vector.Vector
	Buffer    *frame.Buffer
	Signature uint32 // CRC-32 of the bus writes
	Escaped   int
	Saturated int
}

// params is a test vector converted into register values
type params struct {
	maxIterations      int
	width, height      int
	cReal, cImag       fixed.Value
	stepReal, stepImag fixed.Value
}

func (m *Model) params(v vector.Vector) (params, error) {
	c := m.config
	p := params{
		maxIterations: v.MaxIterations,
		width:         c.Width,
		height:        c.Height,
		cReal:         c.Register.Encode(v.CReal, c.Input),
		cImag:         c.Register.Encode(v.CImag, c.Input),
		stepReal:      c.Register.EncodeStep(v.StepReal, c.StepFrac),
		stepImag:      c.Register.EncodeStep(v.StepImag, c.StepFrac),
	}
	if v.Sized {
		p.width, p.height = v.Width, v.Height
	}

	switch {
	case p.maxIterations <= 0:
		return p, fmt.Errorf("%w: %d maximum iterations", ErrConfig, p.maxIterations)
	case p.width <= 0 || p.height <= 0:
		return p, fmt.Errorf("%w: screen %dx%d", ErrConfig, p.width, p.height)
	}

	return p, nil
}

// scanner walks the screen in raster order keeping c in step with the pixel.
type scanner struct {
	format       fixed.Format
	p            params
	pixel        Pixel
	cReal, cImag fixed.Value
	state        ScanState
}

func newScanner(f fixed.Format, p params) *scanner {
	return &scanner{
		format: f,
		p:      p,
		cReal:  p.cReal,
		cImag:  p.cImag,
		state:  ScanScanning,
	}
}

func (s *scanner) done() bool {
	return s.state == ScanFrameDone
}

// advance moves to the next pixel. c_real is reset to its starting value at
// the start of every row rather than stepped back.
func (s *scanner) advance() ScanState {
	switch {
	case s.pixel.X+1 < s.p.width:
		s.pixel.X++
		s.cReal = s.format.Add(s.cReal, s.p.stepReal)
		s.state = ScanScanning
	case s.pixel.Y+1 < s.p.height:
		s.pixel.X = 0
		s.pixel.Y++
		s.cReal = s.p.cReal
		s.cImag = s.format.Add(s.cImag, s.p.stepImag)
		s.state = ScanRowDone
	default:
		s.state = ScanFrameDone
	}
	return s.state
}

// frameWriter turns pixel results into frame buffer contents and bus
// writes, strictly in the order they are added.
type frameWriter struct {
	policy Policy
	frame  *Frame
	sig    *crc32.Signature
	w      TransactionWriter
}

func newFrameWriter(v vector.Vector, p params, policy Policy, w TransactionWriter) *frameWriter {
	return &frameWriter{
		policy: policy,
		frame: &Frame{
			Vector: v,
			Buffer: frame.New(p.width, p.height),
		},
		sig: crc32.New(),
		w:   w,
	}
}

func (fw *frameWriter) add(p Pixel, r Result) error {
	switch r.Status {
	case StatusEscaped:
		fw.frame.Escaped++
	case StatusSaturated:
		fw.frame.Saturated++
	}

	value := r.Intensity(fw.policy)
	fw.frame.Buffer.Set(p.X, p.Y, value)

	t := bus.Write(p.X, p.Y, value)
	fw.sig.Add(t)
	if fw.w != nil {
		return fw.w.WriteTransaction(t)
	}
	return nil
}

func (fw *frameWriter) finish() *Frame {
	fw.frame.Signature = fw.sig.Sum32()
	return fw.frame
}

func (m *Model) scan(p params, fw *frameWriter) error {
	s := newScanner(m.config.Register, p)
	for !s.done() {
		r := m.engine.Iterate(s.pixel, s.cReal, s.cImag, p.maxIterations)
		if err := fw.add(s.pixel, r); err != nil {
			return err
		}
		if s.advance() == ScanRowDone {
			m.logger.Tracef("row %d", s.pixel.Y)
		}
	}
	return nil
}

// Run evaluates a single test vector, passing every bus write to w in
// raster order. w may be nil.
func (m *Model) Run(v vector.Vector, w TransactionWriter) (*Frame, error) {
	p, err := m.params(v)
	if err != nil {
		return nil, err
	}

	fw := newFrameWriter(v, p, m.config.Policy, w)
	if m.config.Workers > 1 {
		err = m.scanParallel(p, fw)
	} else {
		err = m.scan(p, fw)
	}
	if err != nil {
		return nil, err
	}

	f := fw.finish()
	m.logger.WithFields(logrus.Fields{
		"width":     p.width,
		"height":    p.height,
		"escaped":   f.Escaped,
		"saturated": f.Saturated,
		"signature": fmt.Sprintf("%08X", f.Signature),
	}).Debug("frame done")

	return f, nil
}
