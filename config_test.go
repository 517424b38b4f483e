package mandelbrot

import (
	"errors"
	"testing"

	"github.com/bodgit/mandelbrot/fixed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Q6.44/Q4.12/S32/black", c.String())
}

func TestValidate(t *testing.T) {
	tables := []func(*Config){
		func(c *Config) { c.Register = fixed.Format{Width: 65, Frac: 44} },
		func(c *Config) { c.Register = fixed.Format{Width: 1, Frac: 0} },
		func(c *Config) { c.Register = fixed.Format{Width: 50, Frac: 50} },
		func(c *Config) { c.Register = fixed.Format{Width: 46, Frac: 44} },
		func(c *Config) { c.Input = fixed.Format{Width: 0, Frac: 0} },
		func(c *Config) { c.Input = fixed.Format{Width: 16, Frac: 16} },
		func(c *Config) { c.Input = fixed.Format{Width: 56, Frac: 12} },
		func(c *Config) { c.Input = fixed.Format{Width: 50, Frac: 46} },
		func(c *Config) { c.StepFrac = 65 },
		func(c *Config) { c.Width = 0 },
		func(c *Config) { c.Height = -1 },
		func(c *Config) { c.Workers = -1 },
		func(c *Config) { c.Policy = Policy(7) },
	}
	for i, fn := range tables {
		c := DefaultConfig()
		fn(&c)
		err := c.Validate()
		assert.True(t, errors.Is(err, ErrConfig), "%d: %v", i, err)

		_, err = New(c, nil, testLogger())
		assert.True(t, errors.Is(err, ErrConfig), "%d: %v", i, err)
	}
}

func TestValidateNarrow(t *testing.T) {
	c := DefaultConfig()
	c.Register = fixed.Format{Width: 32, Frac: 24}
	c.Workers = 0
	m, err := New(c, nil, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Config().Workers)

	// Still escapes at the same point, just with less precision
	f, err := m.Run(mustParse(t, "16 2000 0 0 1 1"), nil)
	require.NoError(t, err)
	assert.Equal(t, byte(2), f.Buffer.At(0, 0))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("raw")
	require.NoError(t, err)
	assert.Equal(t, PolicyRawCount, p)

	p, err = ParsePolicy("black")
	require.NoError(t, err)
	assert.Equal(t, PolicyBlackInterior, p)

	_, err = ParsePolicy("grey")
	assert.True(t, errors.Is(err, ErrConfig))

	assert.Equal(t, "Policy(7)", Policy(7).String())
}
