/*
Package fixed implements the two's complement fixed-point registers used by
the Mandelbrot accelerator.

A Format describes a register of Width bits of which Frac are fractional. A
Value is the raw bit pattern held in such a register; it is always kept
masked to the register width so every arithmetic operation wraps silently,
exactly like the hardware does.

The accelerator holds z and c in Q6.44 registers, receives the starting
coordinates as Q4.12 and the Argand plane step as an unsigned Q0.32.
*/
package fixed

// Value is the raw bit pattern of a fixed-point register.
type Value uint64

// Format describes a fixed-point register.
type Format struct {
	Width uint // Total number of bits, sign bit included
	Frac  uint // Number of fractional bits
}

var (
	// Register is the format of the internal z and c registers.
	Register = Format{Width: 50, Frac: 44}
	// Input is the format of the starting coordinates in a test vector.
	Input = Format{Width: 16, Frac: 12}
)

// StepFrac is the number of fractional bits of the Argand plane step.
const StepFrac = 32

// Int returns the number of integer bits, sign bit included.
func (f Format) Int() uint {
	return f.Width - f.Frac
}

// Bits returns the register mask, 2^Width - 1.
func (f Format) Bits() uint64 {
	return ^uint64(0) >> (64 - f.Width)
}

func (f Format) signBit() uint64 {
	return 1 << (f.Width - 1)
}

// Mask truncates v to the register width.
func (f Format) Mask(v uint64) Value {
	return Value(v & f.Bits())
}

// Negative reports whether the sign bit of v is set.
func (f Format) Negative(v Value) bool {
	return uint64(v)&f.signBit() != 0
}

// Add returns a + b truncated to the register width.
func (f Format) Add(a, b Value) Value {
	return f.Mask(uint64(a) + uint64(b))
}

// Sub returns a - b truncated to the register width.
func (f Format) Sub(a, b Value) Value {
	return f.Mask(uint64(a) - uint64(b))
}

// Mul returns the low Width bits of a * b. The operands are raw patterns so
// the result is only meaningful when they were prepared with
// PreMultiplyShift.
func (f Format) Mul(a, b Value) Value {
	// The product wraps at 64 bits which leaves the low Width bits intact
	return f.Mask(uint64(a) * uint64(b))
}

// FromInt returns the encoding of the integer n.
func (f Format) FromInt(n int64) Value {
	return f.Mask(uint64(n) << f.Frac)
}

// Encode widens v, held in the narrower format in, into f. The fractional
// field is padded with zeros and the sign bit of v is replicated into the
// extra integer bits so the integer/fraction split lines up. Bits of v above
// the width of in are ignored.
func (f Format) Encode(v uint64, in Format) Value {
	v &= in.Bits()
	w := v << (f.Frac - in.Frac)
	if v&in.signBit() != 0 {
		w |= f.Bits() &^ (1<<(in.Width+f.Frac-in.Frac) - 1)
	}
	return f.Mask(w)
}

// EncodeStep converts an unsigned step with frac fractional bits into f.
// Precision beyond f's fractional field is dropped.
func (f Format) EncodeStep(v uint64, frac uint) Value {
	if f.Frac >= frac {
		return f.Mask(v << (f.Frac - frac))
	}
	return f.Mask(v >> (frac - f.Frac))
}

// PreMultiplyShift arithmetic shifts v right by half the fractional width,
// replicating the sign bit into the vacated high bits. Multiplying two
// prepared operands then leaves the product aligned to the register's
// fraction so it can be truncated back to Width bits.
func (f Format) PreMultiplyShift(v Value) Value {
	s := 64 - f.Width
	return f.Mask(uint64(int64(uint64(v)<<s) >> (s + f.Frac/2)))
}

// Decode returns v as a real number for diagnostics.
//
// A pattern that fills the whole register with the sign bit set is summed
// bit by bit as two's complement. Anything else, including unmasked values
// wider than the register, is simply scaled by 2^-Frac.
func (f Format) Decode(v Value) float64 {
	if uint64(v)&^f.Bits() != 0 || !f.Negative(v) {
		return float64(v) / float64(uint64(1)<<f.Frac)
	}

	var acc float64
	intLen := int(f.Int())
	for i := 0; i < int(f.Width); i++ {
		if uint64(v)&(1<<(int(f.Width)-1-i)) == 0 {
			continue
		}
		if i == 0 {
			acc -= pow2(intLen - 1)
		} else {
			acc += pow2(intLen - 1 - i)
		}
	}
	return acc
}

func pow2(n int) float64 {
	if n >= 0 {
		return float64(uint64(1) << uint(n))
	}
	return 1 / float64(uint64(1)<<uint(-n))
}
