package mandelbrot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bodgit/mandelbrot/bus"
	"github.com/bodgit/mandelbrot/trace"
	"github.com/bodgit/mandelbrot/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vectors = `# single pixel at c = 2
16 2000 0000 0000 0000 1 1
8 0 0 0000 0001 2 2
`

const expected = `--------------------------------------------------------
Maximum iterations:		  16
Starting 'C' Real:		2000
Starting 'C' Imaginary:	0000
Step size: 				00000000
Screen width: 			   1
Screen height: 			   1
--------------------------------------------------------
de_data		de_addr	de_nbyte
02020202	00000	e
--------------------------------------------------------
Maximum iterations:		   8
Starting 'C' Real:		0000
Starting 'C' Imaginary:	0000
Step size: 				00000001
Screen width: 			   2
Screen height: 			   2
--------------------------------------------------------
de_data		de_addr	de_nbyte
00000000	00000	e
00000000	00000	d
00000000	000a0	e
00000000	000a0	d
`

func TestProcess(t *testing.T) {
	m := testModel(t, DefaultConfig())

	var frames []*Frame
	b := new(bytes.Buffer)
	require.NoError(t, m.Process(strings.NewReader(vectors), b, func(i int, f *Frame) error {
		assert.Equal(t, len(frames), i)
		frames = append(frames, f)
		return nil
	}))

	assert.Equal(t, expected, b.String())
	require.Len(t, frames, 2)
	assert.Equal(t, 4, frames[1].Saturated)

	parsed, err := trace.Read(b)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, []bus.Transaction{bus.Write(0, 0, 2)}, parsed[0].Transactions)
}

func TestProcessErrors(t *testing.T) {
	m := testModel(t, DefaultConfig())

	err := m.Process(strings.NewReader("16 2000 0000\n"), new(bytes.Buffer), nil)
	assert.True(t, errors.Is(err, vector.ErrFieldCount))

	// Rejected before anything is written for the frame
	b := new(bytes.Buffer)
	err = m.Process(strings.NewReader("16 0 0 0 0 1 1\n0 0 0 0 0 1 1\n"), b, nil)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "frame 1")
	assert.Equal(t, 1, strings.Count(b.String(), "Maximum iterations"))

	errFrame := errors.New("frame callback")
	err = m.Process(strings.NewReader(vectors), new(bytes.Buffer), func(int, *Frame) error {
		return errFrame
	})
	assert.True(t, errors.Is(err, errFrame))
}

func TestProcessRegression(t *testing.T) {
	db := testDB(t)

	c := DefaultConfig()
	m, err := New(c, db, testLogger())
	require.NoError(t, err)

	// First run records, the second matches
	require.NoError(t, m.Process(strings.NewReader(vectors), new(bytes.Buffer), nil))
	require.NoError(t, m.Process(strings.NewReader(vectors), new(bytes.Buffer), nil))

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 4)
	assert.Equal(t, runs[0].Signature, runs[2].Signature)
	assert.Equal(t, c.String(), runs[0].Config)

	// Tamper with the recorded signature of the first vector
	f, err := m.Run(mustParse(t, "16 2000 0000 0000 0000 1 1"), nil)
	require.NoError(t, err)
	f.Signature ^= 1
	_, err = db.Record(c.String(), f)
	require.NoError(t, err)

	require.NoError(t, m.Process(strings.NewReader(vectors), new(bytes.Buffer), nil))

	_, err = db.Record(c.String(), f)
	require.NoError(t, err)

	c.Strict = true
	strict, err := New(c, db, testLogger())
	require.NoError(t, err)
	err = strict.Process(strings.NewReader(vectors), new(bytes.Buffer), nil)
	assert.True(t, errors.Is(err, ErrRegression))
}

func TestProcessStepText(t *testing.T) {
	m := testModel(t, DefaultConfig())

	b := new(bytes.Buffer)
	require.NoError(t, m.Process(strings.NewReader("4 0 0 0x0000 00FF 1 1\n"), b, nil))
	assert.Contains(t, b.String(), "Step size: \t\t\t\t0x000000FF\n")
}
