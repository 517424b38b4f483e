package mandelbrot

import (
	"errors"
	"fmt"

	"github.com/bodgit/mandelbrot/fixed"
)

// ErrConfig is returned for a configuration or test vector that cannot be
// run.
var ErrConfig = errors.New("mandelbrot: invalid configuration")

// Policy decides the intensity written for a pixel.
type Policy int

const (
	// PolicyBlackInterior writes zero for pixels that never escape and the
	// low byte of the iteration count otherwise.
	PolicyBlackInterior Policy = iota
	// PolicyRawCount writes the low byte of the iteration count for every
	// pixel.
	PolicyRawCount
)

var policyNames = map[Policy]string{
	PolicyBlackInterior: "black",
	PolicyRawCount:      "raw",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy returns the Policy with the given name.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrConfig, s)
}

// Config holds the accelerator parameters.
type Config struct {
	Register fixed.Format // Internal z and c registers
	Input    fixed.Format // Starting coordinates in a test vector
	StepFrac uint         // Fractional bits of the Argand plane step

	// Screen size used when a test vector doesn't give one
	Width, Height int

	Policy Policy

	// Number of pixels evaluated concurrently, 0 or 1 is sequential
	Workers int

	// Fail a run whose signature differs from the one recorded
	Strict bool
}

// DefaultConfig returns the configuration of the hardware accelerator.
func DefaultConfig() Config {
	return Config{
		Register: fixed.Register,
		Input:    fixed.Input,
		StepFrac: fixed.StepFrac,
		Width:    640,
		Height:   480,
		Policy:   PolicyBlackInterior,
		Workers:  1,
	}
}

// Validate reports whether the configuration describes a model that can be
// run.
func (c Config) Validate() error {
	r, in := c.Register, c.Input
	switch {
	case r.Width < 2 || r.Width > 64:
		return fmt.Errorf("%w: register width %d not in 2..64", ErrConfig, r.Width)
	case r.Frac >= r.Width:
		return fmt.Errorf("%w: %d fractional bits in a %d bit register", ErrConfig, r.Frac, r.Width)
	case r.Frac+3 > r.Width:
		return fmt.Errorf("%w: bound does not fit Q%d.%d", ErrConfig, r.Int(), r.Frac)
	case in.Width == 0 || in.Frac >= in.Width:
		return fmt.Errorf("%w: %d fractional bits in a %d bit input", ErrConfig, in.Frac, in.Width)
	case in.Frac > r.Frac || in.Int() > r.Int():
		return fmt.Errorf("%w: input Q%d.%d does not fit register Q%d.%d", ErrConfig, in.Int(), in.Frac, r.Int(), r.Frac)
	case c.StepFrac > 64:
		return fmt.Errorf("%w: %d step fractional bits", ErrConfig, c.StepFrac)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrConfig, c.Width, c.Height)
	case c.Workers < 0:
		return fmt.Errorf("%w: %d workers", ErrConfig, c.Workers)
	}
	if _, ok := policyNames[c.Policy]; !ok {
		return fmt.Errorf("%w: %s", ErrConfig, c.Policy)
	}
	return nil
}

// String identifies the parts of the configuration that change the output.
func (c Config) String() string {
	return fmt.Sprintf("Q%d.%d/Q%d.%d/S%d/%s", c.Register.Int(), c.Register.Frac, c.Input.Int(), c.Input.Frac, c.StepFrac, c.Policy)
}
