package vector

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tables := []struct {
		line string
		want Vector
	}{
		{
			"30 e000 f000 0000 0147 640 480",
			Vector{MaxIterations: 30, CReal: 0xe000, CImag: 0xf000, StepReal: 0x147, StepImag: 0x147, Step: "00000147", Width: 640, Height: 480, Sized: true},
		},
		{
			"255 0x2000 0 00000147 2 1\n",
			Vector{MaxIterations: 255, CReal: 0x2000, StepReal: 0x147, StepImag: 0x147, Step: "00000147", Width: 2, Height: 1, Sized: true},
		},
		{
			"16 E000 F000 0000 0147",
			Vector{MaxIterations: 16, CReal: 0xe000, CImag: 0xf000, StepReal: 0x147, StepImag: 0x147, Step: "00000147"},
		},
		{
			"16  e000\tf000 147",
			Vector{MaxIterations: 16, CReal: 0xe000, CImag: 0xf000, StepReal: 0x147, StepImag: 0x147, Step: "147"},
		},
		{
			// Halves are joined as text, not as 16-bit words
			"16 0 0 1 0",
			Vector{MaxIterations: 16, StepReal: 0x10, StepImag: 0x10, Step: "10"},
		},
		{
			// The header keeps the step text untouched
			"16 0 0 0x00 00ABCDEF",
			Vector{MaxIterations: 16, StepReal: 0xabcdef, StepImag: 0xabcdef, Step: "0x0000ABCDEF"},
		},
	}
	for _, table := range tables {
		v, err := Parse(table.line)
		require.NoError(t, err, table.line)
		assert.Equal(t, table.want, v, table.line)
	}
}

func TestParseErrors(t *testing.T) {
	tables := []struct {
		line string
		err  error
	}{
		{"", ErrFieldCount},
		{"30 e000 f000", ErrFieldCount},
		{"30 e000 f000 0000 0147 640 480 1", ErrFieldCount},
		{"x e000 f000 0147", ErrSyntax},
		{"30 g000 f000 0147", ErrSyntax},
		{"30 e000 f000 0147 640 y", ErrSyntax},
		{"30 e000 f000 ffff 1ffff", ErrSyntax},
	}
	for _, table := range tables {
		_, err := Parse(table.line)
		assert.True(t, errors.Is(err, table.err), "%q: %v", table.line, err)
	}
}

func TestReader(t *testing.T) {
	input := `# max c_r c_i step_h step_l w h
30 e000 f000 0000 0147 640 480

10 0 0 0000 0001 1 1
`
	r := NewReader(strings.NewReader(input))

	v, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 30, v.MaxIterations)

	v, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Width)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReaderLine(t *testing.T) {
	r := NewReader(strings.NewReader("10 0 0 1\n\n10 0 0\n"))

	vectors, err := r.ReadAll()
	assert.Nil(t, vectors)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.Contains(t, err.Error(), "line 3")
}
