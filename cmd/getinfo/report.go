package main

import (
	"fmt"
	"strings"

	"github.com/gethiox/sentral/internal/pkg/display"
	"github.com/gethiox/sentral/internal/pkg/em7180"
	"github.com/logrusorgru/aurora"
	"go.uber.org/multierr"
)

type report struct {
	Counter      int
	Capabilities em7180.CapabilityFlags
	Identity     em7180.Identity
	Rates        em7180.ActualRates
	RunStatus    em7180.RunStatus
	Algorithm    em7180.AlgorithmStatus
	Ranges       em7180.FullScaleRanges

	Quaternion  em7180.Quaternion
	Temperature float64 // degrees C, valid with Capabilities.Temperature
	Pressure    float64 // hPa, valid with Capabilities.Barometer
}

// collectReport queries the device. Failed queries leave their fields zeroed and
// are returned combined.
func collectReport(d *em7180.Driver, counter int) (report, error) {
	r := report{Counter: counter, Ranges: d.FullScaleRanges()}

	var errs, err error
	r.Capabilities, err = d.Capabilities()
	errs = multierr.Append(errs, err)
	r.Identity, err = d.Identity()
	errs = multierr.Append(errs, err)
	r.Rates, err = d.ActualRates()
	errs = multierr.Append(errs, err)
	r.RunStatus, err = d.RunStatus()
	errs = multierr.Append(errs, err)
	r.Algorithm, err = d.AlgorithmStatus()
	errs = multierr.Append(errs, err)
	r.Quaternion, err = d.Quaternion()
	errs = multierr.Append(errs, err)

	if r.Capabilities.Temperature {
		r.Temperature, err = d.Temperature()
		errs = multierr.Append(errs, err)
	}
	if r.Capabilities.Barometer {
		r.Pressure, err = d.Barometer()
		errs = multierr.Append(errs, err)
	}

	return r, errs
}

const labelWidth = 15

func (r report) render(au aurora.Aurora) string {
	label := func(s string) string {
		return padRight(au.Reset(s+":").Colorize(color(1, 3, 5)).String(), labelWidth)
	}
	expected := func(ok bool, format string, actual, want interface{}) string {
		v := fmt.Sprintf(format, actual)
		if !ok {
			v = au.Red(v).String()
		}
		return fmt.Sprintf("%s (expected "+format+")", v, want)
	}

	type line struct {
		name, value string
	}
	q := r.Quaternion
	lines := []line{
		{"capabilities", r.Capabilities.String()},
		{"product ID", expected(r.Identity.ProductID == em7180.ExpectedProductID, "0x%02X", r.Identity.ProductID, em7180.ExpectedProductID)},
		{"revision ID", expected(r.Identity.RevisionID == em7180.ExpectedRevisionID, "0x%02X", r.Identity.RevisionID, em7180.ExpectedRevisionID)},
		{"ROM version", expected(r.Identity.ROMVersion == em7180.ExpectedROMVersion, "0x%04X", r.Identity.ROMVersion, em7180.ExpectedROMVersion)},
		{"RAM version", fmt.Sprintf("0x%04X", r.Identity.RAMVersion)},
		{"actual rates", r.Rates.String()},
		{"run status", r.RunStatus.String()},
		{"algorithm", r.Algorithm.String()},
		{"ranges", r.Ranges.String()},
		{"quaternion", fmt.Sprintf("x: %.3f, y: %.3f, z: %.3f, w: %.3f", q.X, q.Y, q.Z, q.W)},
	}
	if r.Capabilities.Temperature {
		lines = append(lines, line{"temperature", fmt.Sprintf("%.2f °C", r.Temperature)})
	}
	if r.Capabilities.Barometer {
		lines = append(lines, line{"pressure", fmt.Sprintf("%.2f hPa", r.Pressure)})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", au.Bold(fmt.Sprintf("SENtral report #%d", r.Counter)))
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s%s\n", label(l.name), l.value)
	}
	return sb.String()
}

func (r report) displayData() display.DisplayData {
	id := "ok"
	if !r.Identity.Matches() {
		id = "mismatch"
	}
	return display.DisplayData{Lines: [4]string{
		fmt.Sprintf("%s #%d", r.RunStatus, r.Counter),
		fmt.Sprintf("M%d A%d G%d B%d", r.Rates.Magnetometer, r.Rates.Accelerometer, r.Rates.Gyroscope, r.Rates.Barometer),
		fmt.Sprintf("±%dg ±%ddps ±%dµT", r.Ranges.AccelerometerG, r.Ranges.GyroscopeDPS, r.Ranges.MagnetometerMicroTesla),
		fmt.Sprintf("id: %s", id),
	}}
}
