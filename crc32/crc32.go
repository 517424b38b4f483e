/*
Package crc32 implements the 32-bit cyclic redundancy check used to sign the
stream of frame buffer writes produced by the Mandelbrot model.

It uses the standard CRC-32 normal polynomial, unreflected, and is fed whole
32-bit bus words most significant byte first so the signature of a frame can
be computed the same way by a checker sitting on the bus.
*/
package crc32

import (
	"encoding/binary"
	"hash"
	crc "hash/crc32"

	"github.com/bodgit/mandelbrot/bus"
)

func makeTable(poly uint32) *crc.Table {
	t := new(crc.Table)
	for i := 0; i < 256; i++ {
		crc := uint32(i << 24)
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

const polynomial = 0x04c11db7

var table = makeTable(polynomial)

// Signature is a running CRC-32 over bus transactions. It implements
// hash.Hash32 and its Sum method lays the value out in big-endian byte order.
type Signature struct {
	crc uint32
	tab *crc.Table
	n   int
}

var _ hash.Hash32 = (*Signature)(nil)

// New creates a new Signature.
func New() *Signature {
	return &Signature{^uint32(0), table, 0}
}

func (s *Signature) Size() int { return crc.Size }

func (s *Signature) BlockSize() int { return 4 }

func (s *Signature) Reset() {
	s.crc = ^uint32(0)
	s.n = 0
}

func update(crc uint32, tab *crc.Table, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ tab[byte(crc>>24)^b]
	}
	return crc
}

// Update returns the result of adding the bytes in p to the crc.
func Update(crc uint32, p []byte) uint32 {
	return update(crc, table, p)
}

func (s *Signature) Write(p []byte) (n int, err error) {
	s.crc = update(s.crc, s.tab, p)
	return len(p), nil
}

// Add feeds the data word, word address and byte select of t.
func (s *Signature) Add(t bus.Transaction) {
	var b [9]byte
	binary.BigEndian.PutUint32(b[0:], t.Data)
	binary.BigEndian.PutUint32(b[4:], t.Address)
	b[8] = byte(t.Select)
	s.crc = update(s.crc, s.tab, b[:])
	s.n++
}

// Len returns the number of transactions added since the last reset.
func (s *Signature) Len() int { return s.n }

func (s *Signature) Sum32() uint32 { return ^s.crc }

func (s *Signature) Sum(in []byte) []byte {
	v := s.Sum32()
	return append(in, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// Checksum returns the CRC-32 signature of data.
func Checksum(data []byte) uint32 { return ^Update(^uint32(0), data) }
