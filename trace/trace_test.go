package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bodgit/mandelbrot/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expected = `--------------------------------------------------------
Maximum iterations:		  30
Starting 'C' Real:		e000
Starting 'C' Imaginary:	f000
Step size: 				00000147
Screen width: 			   2
Screen height: 			   1
--------------------------------------------------------
de_data		de_addr	de_nbyte
00000000	00000	e
03030303	00000	d
`

var header = Header{
	MaxIterations: 30,
	CReal:         0xe000,
	CImag:         0xf000,
	Step:          "00000147",
	Width:         2,
	Height:        1,
}

func TestWriter(t *testing.T) {
	b := new(bytes.Buffer)
	w := NewWriter(b)
	require.NoError(t, w.WriteHeader(header))
	require.NoError(t, w.WriteTransaction(bus.Write(0, 0, 0)))
	require.NoError(t, w.WriteTransaction(bus.Write(1, 0, 3)))
	require.NoError(t, w.Flush())

	assert.Equal(t, expected, b.String())
}

func TestRead(t *testing.T) {
	frames, err := Read(strings.NewReader(expected + expected))
	require.NoError(t, err)
	require.Len(t, frames, 2)

	for _, f := range frames {
		assert.True(t, f.HasHeader)
		assert.Equal(t, header, f.Header)
		assert.Equal(t, []bus.Transaction{bus.Write(0, 0, 0), bus.Write(1, 0, 3)}, f.Transactions)
	}
}

func TestReadHeaderless(t *testing.T) {
	frames, err := Read(strings.NewReader("00000000\t00000\te\r\n03030303 00000 d\n\n"))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.False(t, frames[0].HasHeader)
	assert.Len(t, frames[0].Transactions, 2)
}

func TestReadErrors(t *testing.T) {
	tables := []struct {
		input string
		err   error
	}{
		{"00000000\t00000\n", errRecord},
		{"0000000z\t00000\te\n", errRecord},
		{"00000000\t00000\t10\n", errRecord},
		{rule + "\nMaximum iterations: lots\n" + rule + "\n", errHeader},
		{rule + "\nno colon here\n" + rule + "\n", errHeader},
	}
	for _, table := range tables {
		_, err := Read(strings.NewReader(table.input))
		assert.True(t, errors.Is(err, table.err), "%q: %v", table.input, err)
	}
}

func TestDiff(t *testing.T) {
	want := []Frame{
		{Transactions: []bus.Transaction{bus.Write(0, 0, 1), bus.Write(1, 0, 2), bus.Write(2, 0, 3)}},
	}

	assert.Empty(t, Diff(want, want, 0))

	got := []Frame{
		{Transactions: []bus.Transaction{bus.Write(0, 0, 1), bus.Write(1, 0, 9)}},
		{Transactions: []bus.Transaction{bus.Write(0, 0, 1)}},
	}

	mismatches := Diff(want, got, 0)
	require.Len(t, mismatches, 3)
	assert.Equal(t, Mismatch{Frame: 0, Index: 1, Want: bus.Write(1, 0, 2), Got: bus.Write(1, 0, 9)}, mismatches[0])
	assert.Equal(t, Mismatch{Frame: 0, Index: -1, WantLen: 3, GotLen: 2}, mismatches[1])
	assert.Equal(t, Mismatch{Frame: 1, Index: -1, WantLen: 0, GotLen: 1}, mismatches[2])
	assert.Equal(t, "frame 0, transaction 1: got 09090909\t00000\td, want 02020202\t00000\td", mismatches[0].String())
	assert.Equal(t, "frame 0: 2 transactions, want 3", mismatches[1].String())

	assert.Len(t, Diff(want, got, 1), 1)
}
