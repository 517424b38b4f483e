package mandelbrot

import (
	"github.com/bodgit/mandelbrot/fixed"
	"github.com/sirupsen/logrus"
)

// Pixel is a position on screen.
type Pixel struct {
	X, Y int
}

// State holds the registers of a single pixel evaluation.
type State struct {
	ZReal, ZImag fixed.Value
	CReal, CImag fixed.Value
	Iteration    int
}

// Result is the outcome of evaluating one pixel.
type Result struct {
	Iterations int
	Status     Status
}

// Intensity returns the pixel value written to the frame buffer.
func (r Result) Intensity(p Policy) byte {
	if r.Status == StatusSaturated && p == PolicyBlackInterior {
		return 0
	}
	return byte(r.Iterations & 0xff)
}

// Tracer is called once for every iteration step before the escape test,
// with the registers at the start of the step and the computed squared
// magnitude. Tracers used with more than one worker must be safe for
// concurrent use.
type Tracer interface {
	Step(p Pixel, s State, magnitude fixed.Value)
}

// TracerFunc is an adapter to allow the use of ordinary functions as a
// Tracer.
type TracerFunc func(Pixel, State, fixed.Value)

// Step calls f(p, s, magnitude).
func (f TracerFunc) Step(p Pixel, s State, magnitude fixed.Value) {
	f(p, s, magnitude)
}

type logTracer struct {
	logger *logrus.Logger
	format fixed.Format
}

// NewLogTracer returns a Tracer that logs every iteration step at trace
// level.
func NewLogTracer(logger *logrus.Logger, f fixed.Format) Tracer {
	return &logTracer{
		logger: logger,
		format: f,
	}
}

func (t *logTracer) Step(p Pixel, s State, magnitude fixed.Value) {
	if !t.logger.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	t.logger.WithFields(logrus.Fields{
		"x":         p.X,
		"y":         p.Y,
		"iteration": s.Iteration,
		"z_real":    t.format.Decode(s.ZReal),
		"z_imag":    t.format.Decode(s.ZImag),
		"magnitude": t.format.Decode(magnitude),
	}).Trace("step")
}

// Engine evaluates the escape time of a pixel with the accelerator's fixed
// point datapath.
type Engine struct {
	format fixed.Format
	bound  fixed.Value
	tracer Tracer
}

// NewEngine returns an Engine computing in registers of format f. tracer
// may be nil.
func NewEngine(f fixed.Format, tracer Tracer) *Engine {
	return &Engine{
		format: f,
		bound:  f.FromInt(4),
		tracer: tracer,
	}
}

// Iterate runs z = z^2 + c for the point c until |z|^2 exceeds 4 or
// maxIterations is reached.
//
// z starts at c rather than zero and the count at 1, saving the first
// iteration. The squares are computed on operands pre-shifted by half the
// fractional width so they fit back into a register without a widening
// multiplier, and the bound test is strictly greater than.
func (e *Engine) Iterate(p Pixel, cReal, cImag fixed.Value, maxIterations int) Result {
	f := e.format

	var s State
	status := StatusInit

	for {
		switch status {
		case StatusInit:
			s = State{
				ZReal:     cReal,
				ZImag:     cImag,
				CReal:     cReal,
				CImag:     cImag,
				Iteration: 1,
			}
			status = StatusIterating
		case StatusIterating:
			if s.Iteration >= maxIterations {
				status = StatusSaturated
				continue
			}

			op1 := f.PreMultiplyShift(s.ZReal)
			op2 := f.PreMultiplyShift(s.ZImag)
			sqReal := f.Mul(op1, op1)
			sqImag := f.Mul(op2, op2)

			magnitude := f.Add(sqReal, sqImag)
			if e.tracer != nil {
				e.tracer.Step(p, s, magnitude)
			}
			if magnitude > e.bound {
				status = StatusEscaped
				continue
			}

			s.ZReal = f.Add(f.Sub(sqReal, sqImag), s.CReal)
			s.ZImag = f.Add(f.Mul(op1, op2)<<1, s.CImag)
			s.Iteration++
		default:
			return Result{
				Iterations: s.Iteration,
				Status:     status,
			}
		}
	}
}
