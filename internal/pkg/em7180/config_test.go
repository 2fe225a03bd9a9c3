package em7180

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(c *Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"accel rate not multiple of 10", func(c *Config) { c.AccelRate = 195 }, false},
		{"gyro rate not multiple of 10", func(c *Config) { c.GyroRate = 1 }, false},
		{"accel rate too high", func(c *Config) { c.AccelRate = 2560 }, false},
		{"gyro rate max", func(c *Config) { c.GyroRate = 2550 }, true},
		{"mag rate too high", func(c *Config) { c.MagRate = 256 }, false},
		{"baro rate collides with enable bit", func(c *Config) { c.BaroRate = 128 }, false},
		{"baro disabled", func(c *Config) { c.BaroRate = 0 }, true},
		{"zero divisor", func(c *Config) { c.QuaternionDivisor = 0 }, false},
		{"divisor too high", func(c *Config) { c.QuaternionDivisor = 257 }, false},
		{"unknown accel range", func(c *Config) { c.AccelRange = 4 }, false},
		{"unknown gyro range", func(c *Config) { c.GyroRange = 9 }, false},
		{"unknown mag range", func(c *Config) { c.MagRange = 2 }, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(&c)
			err := c.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestParseRanges(t *testing.T) {
	a, err := ParseAccelRange(16)
	require.NoError(t, err)
	assert.Equal(t, Accel16G, a)

	g, err := ParseGyroRange(500)
	require.NoError(t, err)
	assert.Equal(t, Gyro500DPS, g)

	m, err := ParseMagRange(4912)
	require.NoError(t, err)
	assert.Equal(t, Mag4912MicroTesla, m)

	_, err = ParseAccelRange(3)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseGyroRange(300)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseMagRange(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDriverKeepsConfigCopy(t *testing.T) {
	cfg := DefaultConfig()
	d, err := New(NewEmulator(), cfg)
	require.NoError(t, err)

	cfg.GyroRate = 1000
	assert.Equal(t, uint16(200), d.Config().GyroRate)

	c := d.Config()
	c.MagRate = 1
	assert.Equal(t, uint16(100), d.Config().MagRate)
}
