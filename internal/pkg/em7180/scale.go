package em7180

import "fmt"

// FullScaleRanges are the maximum magnitudes each sensor group reports.
type FullScaleRanges struct {
	MagnetometerMicroTesla uint16
	AccelerometerG         uint8
	GyroscopeDPS           uint16
}

func (f FullScaleRanges) String() string {
	return fmt.Sprintf("mag: +/-%d uT, accel: +/-%d g, gyro: +/-%d dps",
		f.MagnetometerMicroTesla, f.AccelerometerG, f.GyroscopeDPS)
}

// FullScaleRanges resolves the configured range codes. The config must be valid.
func (c Config) FullScaleRanges() FullScaleRanges {
	return FullScaleRanges{
		MagnetometerMicroTesla: magRanges[c.MagRange],
		AccelerometerG:         accelRanges[c.AccelRange],
		GyroscopeDPS:           gyroRanges[c.GyroRange],
	}
}

// FullScaleRanges returns the ranges requested at construction, the device is not queried.
func (d *Driver) FullScaleRanges() FullScaleRanges {
	return d.cfg.FullScaleRanges()
}

// DeviceFullScaleRanges reads the ranges currently applied by the firmware
// from the parameter space.
func (d *Driver) DeviceFullScaleRanges() (FullScaleRanges, error) {
	magAcc, err := d.readParam(paramMagAccelFS)
	if err != nil {
		return FullScaleRanges{}, err
	}
	gyro, err := d.readParam(paramGyroFS)
	if err != nil {
		return FullScaleRanges{}, err
	}
	return FullScaleRanges{
		MagnetometerMicroTesla: uint16(magAcc[1])<<8 | uint16(magAcc[0]),
		AccelerometerG:         magAcc[2],
		GyroscopeDPS:           uint16(gyro[1])<<8 | uint16(gyro[0]),
	}, nil
}
