/*
Package mandelbrot is a bit exact functional model of a fixed point
Mandelbrot set hardware accelerator.

For every test vector it scans the screen in raster order, evaluates the
escape time of each pixel with the accelerator's datapath and produces the
frame buffer bus writes the hardware would make, so the resulting trace can
be compared line for line against a simulation of the design.
*/
package mandelbrot

import (
	"github.com/sirupsen/logrus"
)

type Model struct {
	config Config
	engine *Engine
	db     *RunDB
	logger *logrus.Logger
}

// New returns a Model for the given configuration. db may be nil in which
// case runs are not recorded or checked.
func New(config Config, db *RunDB, logger *logrus.Logger) (*Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Workers == 0 {
		config.Workers = 1
	}
	return &Model{
		config: config,
		engine: NewEngine(config.Register, nil),
		db:     db,
		logger: logger,
	}, nil
}

// SetTracer installs a Tracer called for every iteration step, nil removes
// it.
func (m *Model) SetTracer(t Tracer) {
	m.engine = NewEngine(m.config.Register, t)
}

// Config returns the configuration of the model.
func (m *Model) Config() Config {
	return m.config
}
