package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gethiox/sentral/internal/pkg/em7180"
	"gopkg.in/yaml.v3"
)

// Profile is the YAML form of em7180.Config, ranges are given in physical units.
type Profile struct {
	Accelerometer struct {
		Range int    `yaml:"range"` // g
		Rate  uint16 `yaml:"rate"`  // Hz
	} `yaml:"accelerometer"`
	Gyroscope struct {
		Range int    `yaml:"range"` // dps
		Rate  uint16 `yaml:"rate"`
	} `yaml:"gyroscope"`
	Magnetometer struct {
		Range int    `yaml:"range"` // uT
		Rate  uint16 `yaml:"rate"`
	} `yaml:"magnetometer"`
	Barometer struct {
		Rate uint16 `yaml:"rate"`
	} `yaml:"barometer"`
	QuaternionDivisor uint16 `yaml:"quaternion_divisor"`
}

func defaultProfile() Profile {
	cfg := em7180.DefaultConfig()
	fs := cfg.FullScaleRanges()

	var p Profile
	p.Accelerometer.Range = int(fs.AccelerometerG)
	p.Accelerometer.Rate = cfg.AccelRate
	p.Gyroscope.Range = int(fs.GyroscopeDPS)
	p.Gyroscope.Rate = cfg.GyroRate
	p.Magnetometer.Range = int(fs.MagnetometerMicroTesla)
	p.Magnetometer.Rate = cfg.MagRate
	p.Barometer.Rate = cfg.BaroRate
	p.QuaternionDivisor = cfg.QuaternionDivisor
	return p
}

// Config resolves ranges into codes and validates the result.
func (p Profile) Config() (em7180.Config, error) {
	accel, err := em7180.ParseAccelRange(p.Accelerometer.Range)
	if err != nil {
		return em7180.Config{}, err
	}
	gyro, err := em7180.ParseGyroRange(p.Gyroscope.Range)
	if err != nil {
		return em7180.Config{}, err
	}
	mag, err := em7180.ParseMagRange(p.Magnetometer.Range)
	if err != nil {
		return em7180.Config{}, err
	}

	cfg := em7180.Config{
		AccelRange:        accel,
		GyroRange:         gyro,
		MagRange:          mag,
		MagRate:           p.Magnetometer.Rate,
		AccelRate:         p.Accelerometer.Rate,
		GyroRate:          p.Gyroscope.Rate,
		BaroRate:          p.Barometer.Rate,
		QuaternionDivisor: p.QuaternionDivisor,
	}
	return cfg, cfg.Validate()
}

func LoadProfile(path string) (em7180.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return em7180.Config{}, fmt.Errorf("cannot read \"%s\": %w", path, err)
	}
	cfg, err := ParseProfile(data)
	if err != nil {
		return em7180.Config{}, fmt.Errorf("\"%s\": %w", path, err)
	}
	return cfg, nil
}

// ParseProfile decodes a YAML profile. Omitted values keep em7180.DefaultConfig,
// unknown keys are rejected.
func ParseProfile(data []byte) (em7180.Config, error) {
	p := defaultProfile()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return em7180.Config{}, fmt.Errorf("cannot decode profile: %w", err)
	}
	return p.Config()
}
