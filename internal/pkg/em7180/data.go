package em7180

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Scale factors of the result registers.
const (
	accelScale = 0.000488 // g per LSB
	gyroScale  = 0.153    // dps per LSB
	magScale   = 0.305176 // uT per LSB

	pressureScale  = 0.01 // hPa per LSB
	pressureOffset = 1013.25
	tempScale      = 0.01 // degrees C per LSB
)

// Quaternion is the fusion output. Timestamp counts in 1/32 ms units and wraps.
type Quaternion struct {
	X, Y, Z, W float32
	Timestamp  uint16
}

// Sample is one reading of a three-axis sensor.
type Sample struct {
	Raw       [3]int16
	Value     [3]float64
	Timestamp uint16
}

func (s Sample) String() string {
	return fmt.Sprintf("x: %8.3f, y: %8.3f, z: %8.3f", s.Value[0], s.Value[1], s.Value[2])
}

func (d *Driver) Quaternion() (Quaternion, error) {
	var buf [regQTime - regQX + 2]byte
	if err := d.readBurst(regQX, buf[:]); err != nil {
		return Quaternion{}, fmt.Errorf("read quaternion: %w", err)
	}
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return Quaternion{
		X:         f(0),
		Y:         f(1),
		Z:         f(2),
		W:         f(3),
		Timestamp: binary.LittleEndian.Uint16(buf[regQTime-regQX:]),
	}, nil
}

// Accelerometer returns acceleration in g.
func (d *Driver) Accelerometer() (Sample, error) {
	return d.sample(regAX, regATime, accelScale, "accelerometer")
}

// Gyroscope returns angular rate in deg/s.
func (d *Driver) Gyroscope() (Sample, error) {
	return d.sample(regGX, regGTime, gyroScale, "gyroscope")
}

// Magnetometer returns magnetic field in uT.
func (d *Driver) Magnetometer() (Sample, error) {
	return d.sample(regMX, regMTime, magScale, "magnetometer")
}

// Barometer returns pressure in hPa.
func (d *Driver) Barometer() (float64, error) {
	raw, err := d.readInt16(regBaro)
	if err != nil {
		return 0, fmt.Errorf("read barometer: %w", err)
	}
	return float64(raw)*pressureScale + pressureOffset, nil
}

// Temperature returns temperature in degrees C.
func (d *Driver) Temperature() (float64, error) {
	raw, err := d.readInt16(regTemp)
	if err != nil {
		return 0, fmt.Errorf("read temperature: %w", err)
	}
	return float64(raw) * tempScale, nil
}

// sample reads three axes starting at reg followed by the timestamp at timeReg.
func (d *Driver) sample(reg, timeReg byte, scale float64, name string) (Sample, error) {
	var buf [8]byte
	if err := d.readBurst(reg, buf[:timeReg-reg+2]); err != nil {
		return Sample{}, fmt.Errorf("read %s: %w", name, err)
	}
	var s Sample
	for i := range s.Raw {
		s.Raw[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
		s.Value[i] = float64(s.Raw[i]) * scale
	}
	s.Timestamp = binary.LittleEndian.Uint16(buf[timeReg-reg:])
	return s, nil
}

func (d *Driver) readInt16(reg byte) (int16, error) {
	var buf [2]byte
	if err := d.readBurst(reg, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}
