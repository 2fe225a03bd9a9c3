package em7180

import (
	"errors"
	"fmt"
)

type AccelRange uint8
type GyroRange uint8
type MagRange uint8

const (
	Accel2G AccelRange = iota
	Accel4G
	Accel8G
	Accel16G
)

const (
	Gyro250DPS GyroRange = iota
	Gyro500DPS
	Gyro1000DPS
	Gyro2000DPS
)

const (
	Mag1000MicroTesla MagRange = iota
	Mag4912MicroTesla
)

var accelRanges = map[AccelRange]uint8{
	Accel2G:  2,
	Accel4G:  4,
	Accel8G:  8,
	Accel16G: 16,
}

var gyroRanges = map[GyroRange]uint16{
	Gyro250DPS:  250,
	Gyro500DPS:  500,
	Gyro1000DPS: 1000,
	Gyro2000DPS: 2000,
}

var magRanges = map[MagRange]uint16{
	Mag1000MicroTesla: 1000,
	Mag4912MicroTesla: 4912,
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds requested resolutions and output rates. A Driver keeps its own copy,
// it never changes for the lifetime of the driver.
type Config struct {
	AccelRange AccelRange
	GyroRange  GyroRange
	MagRange   MagRange

	MagRate   uint16 // Hz
	AccelRate uint16 // Hz, multiple of 10
	GyroRate  uint16 // Hz, multiple of 10
	BaroRate  uint16 // Hz

	// QuaternionDivisor sets the quaternion output rate to GyroRate/QuaternionDivisor.
	QuaternionDivisor uint16
}

func DefaultConfig() Config {
	return Config{
		AccelRange:        Accel8G,
		GyroRange:         Gyro2000DPS,
		MagRange:          Mag1000MicroTesla,
		MagRate:           100,
		AccelRate:         200,
		GyroRate:          200,
		BaroRate:          50,
		QuaternionDivisor: 3,
	}
}

func (c Config) Validate() error {
	if _, ok := accelRanges[c.AccelRange]; !ok {
		return fmt.Errorf("%w: unknown accelerometer range code %d", ErrInvalidConfig, c.AccelRange)
	}
	if _, ok := gyroRanges[c.GyroRange]; !ok {
		return fmt.Errorf("%w: unknown gyroscope range code %d", ErrInvalidConfig, c.GyroRange)
	}
	if _, ok := magRanges[c.MagRange]; !ok {
		return fmt.Errorf("%w: unknown magnetometer range code %d", ErrInvalidConfig, c.MagRange)
	}

	if c.MagRate > 0xFF {
		return fmt.Errorf("%w: magnetometer rate %d Hz exceeds 255 Hz", ErrInvalidConfig, c.MagRate)
	}
	for _, r := range []struct {
		name string
		rate uint16
	}{
		{"accelerometer", c.AccelRate},
		{"gyroscope", c.GyroRate},
	} {
		if r.rate%10 != 0 {
			return fmt.Errorf("%w: %s rate %d Hz is not a multiple of 10 Hz", ErrInvalidConfig, r.name, r.rate)
		}
		if r.rate/10 > 0xFF {
			return fmt.Errorf("%w: %s rate %d Hz exceeds 2550 Hz", ErrInvalidConfig, r.name, r.rate)
		}
	}
	if c.BaroRate >= baroRateEnable {
		return fmt.Errorf("%w: barometer rate %d Hz exceeds 127 Hz", ErrInvalidConfig, c.BaroRate)
	}
	if c.QuaternionDivisor == 0 || c.QuaternionDivisor > 0x100 {
		return fmt.Errorf("%w: quaternion divisor %d out of range 1-256", ErrInvalidConfig, c.QuaternionDivisor)
	}
	return nil
}

// ParseAccelRange maps a full-scale value in g to its range code.
func ParseAccelRange(g int) (AccelRange, error) {
	for code, v := range accelRanges {
		if int(v) == g {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported accelerometer range +/-%d g", ErrInvalidConfig, g)
}

// ParseGyroRange maps a full-scale value in deg/s to its range code.
func ParseGyroRange(dps int) (GyroRange, error) {
	for code, v := range gyroRanges {
		if int(v) == dps {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported gyroscope range +/-%d dps", ErrInvalidConfig, dps)
}

// ParseMagRange maps a full-scale value in uT to its range code.
func ParseMagRange(microTesla int) (MagRange, error) {
	for code, v := range magRanges {
		if int(v) == microTesla {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported magnetometer range +/-%d uT", ErrInvalidConfig, microTesla)
}
