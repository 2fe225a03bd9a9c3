package em7180

import "fmt"

// accelerometer and gyroscope rates are encoded in units of 10 Hz
const rateScale = 10

// ActualRates are the output rates in Hz the firmware derived from the requested ones.
type ActualRates struct {
	Magnetometer  uint16
	Accelerometer uint16
	Gyroscope     uint16
	Barometer     uint16
	Temperature   uint16
}

func (r ActualRates) String() string {
	return fmt.Sprintf("mag: %d Hz, accel: %d Hz, gyro: %d Hz, baro: %d Hz, temp: %d Hz",
		r.Magnetometer, r.Accelerometer, r.Gyroscope, r.Barometer, r.Temperature)
}

// decodeActualRates converts the divisor bytes ordered mag, accel, gyro, baro, temp.
func decodeActualRates(raw [5]byte) ActualRates {
	return ActualRates{
		Magnetometer:  uint16(raw[0]),
		Accelerometer: uint16(raw[1]) * rateScale,
		Gyroscope:     uint16(raw[2]) * rateScale,
		Barometer:     uint16(raw[3]),
		Temperature:   uint16(raw[4]),
	}
}

func (d *Driver) ActualRates() (ActualRates, error) {
	var raw [5]byte
	if err := d.readBurst(regActualMagRate, raw[:]); err != nil {
		return ActualRates{}, fmt.Errorf("read actual rates: %w", err)
	}
	return decodeActualRates(raw), nil
}
