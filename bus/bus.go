/*
Package bus models the frame buffer write port of the Mandelbrot accelerator.

The frame buffer is 640 pixels wide with one byte per pixel and is accessed
through a 32-bit data bus. Each pixel write drives the pixel byte on all four
byte lanes of the word and selects the lane that is actually latched with an
active-low byte select nibble.
*/
package bus

import "fmt"

// Stride is the number of pixels in one frame buffer row.
const Stride = 640

// ByteSelect is the active-low byte lane strobe of a bus write.
type ByteSelect uint8

// Byte select codes, one zero bit marks the lane written.
const (
	Lane0 ByteSelect = 0xe
	Lane1 ByteSelect = 0xd
	Lane2 ByteSelect = 0xb
	Lane3 ByteSelect = 0x7
	None  ByteSelect = 0xf
)

func (b ByteSelect) String() string {
	return fmt.Sprintf("%x", uint8(b)&0xf)
}

// Select returns the byte select code for a linear byte address.
func Select(address uint32) ByteSelect {
	switch address & 0b11 {
	case 0:
		return Lane0
	case 1:
		return Lane1
	case 2:
		return Lane2
	case 3:
		return Lane3
	default:
		return None
	}
}

// Linear returns the byte address of pixel (x, y).
func Linear(x, y int) uint32 {
	return uint32(y)<<9 + uint32(y)<<7 + uint32(x)
}

// Word replicates b on all four byte lanes.
func Word(b byte) uint32 {
	return uint32(b) * 0x01010101
}

// Transaction is a single frame buffer write as seen on the bus.
type Transaction struct {
	Data    uint32     // Data word
	Address uint32     // Word address
	Select  ByteSelect // Byte lane strobe
}

// Write returns the transaction that stores value at pixel (x, y).
func Write(x, y int, value byte) Transaction {
	address := Linear(x, y)
	return Transaction{
		Data:    Word(value),
		Address: address >> 2,
		Select:  Select(address),
	}
}

// Pixel returns the byte being written, taken from the selected lane.
func (t Transaction) Pixel() byte {
	switch t.Select {
	case Lane1:
		return byte(t.Data >> 8)
	case Lane2:
		return byte(t.Data >> 16)
	case Lane3:
		return byte(t.Data >> 24)
	default:
		return byte(t.Data)
	}
}

func (t Transaction) String() string {
	return fmt.Sprintf("%08x\t%05x\t%s", t.Data, t.Address, t.Select)
}
