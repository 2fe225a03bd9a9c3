package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/d2r2/go-hd44780"
	"github.com/gethiox/sentral/internal/pkg/display"
	"github.com/go-ini/ini"
)

const (
	DriverD2R2   = "d2r2"
	DriverPeriph = "periph"
)

type Sentral struct {
	Driver        string
	Bus           int
	Address       uint8
	ReportRate    time.Duration
	BeginAttempts int
	RetryDelay    time.Duration
}

type Program struct {
	Sentral Sentral
	Screen  display.ScreenConfig
}

func LoadProgram(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, fmt.Errorf("cannot read \"%s\": %w", path, err)
	}
	c, err := ParseProgram(data)
	if err != nil {
		return Program{}, fmt.Errorf("\"%s\": %w", path, err)
	}
	return c, nil
}

// ParseProgram reads the INI program config. Every key is required.
func ParseProgram(data []byte) (Program, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return Program{}, err
	}

	var c Program

	// [sentral]
	sentral, err := cfg.GetSection("sentral")
	if err != nil {
		return Program{}, err
	}
	keys, err := getKeys(sentral, "driver", "bus", "address", "report_rate", "begin_attempts", "retry_delay")
	if err != nil {
		return Program{}, err
	}

	switch d := keys["driver"].Value(); d {
	case DriverD2R2, DriverPeriph:
		c.Sentral.Driver = d
	default:
		return Program{}, fmt.Errorf("unsupported bus driver \"%s\", expected %s or %s", d, DriverD2R2, DriverPeriph)
	}

	if c.Sentral.Bus, err = keys["bus"].Int(); err != nil {
		return Program{}, err
	}

	if c.Sentral.Address, err = parseAddress(keys["address"]); err != nil {
		return Program{}, err
	}

	rate, err := keys["report_rate"].Int()
	if err != nil {
		return Program{}, err
	}
	if rate <= 0 {
		return Program{}, fmt.Errorf("report_rate has to be positive, got %d", rate)
	}
	c.Sentral.ReportRate = time.Second / time.Duration(rate)

	if c.Sentral.BeginAttempts, err = keys["begin_attempts"].Int(); err != nil {
		return Program{}, err
	}
	if c.Sentral.BeginAttempts < 1 {
		return Program{}, fmt.Errorf("begin_attempts has to be at least 1, got %d", c.Sentral.BeginAttempts)
	}

	delay, err := keys["retry_delay"].Int()
	if err != nil {
		return Program{}, err
	}
	c.Sentral.RetryDelay = time.Millisecond * time.Duration(delay)

	// [screen]
	screen, err := cfg.GetSection("screen")
	if err != nil {
		return Program{}, err
	}
	keys, err = getKeys(screen, "enabled", "type", "bus", "address", "update_rate")
	if err != nil {
		return Program{}, err
	}

	if c.Screen.Enabled, err = keys["enabled"].Bool(); err != nil {
		return Program{}, err
	}

	switch t := keys["type"].Value(); t {
	case "16x2":
		c.Screen.LcdType = hd44780.LCD_16x2
	case "20x4":
		c.Screen.LcdType = hd44780.LCD_20x4
	default:
		return Program{}, fmt.Errorf("unsupported screen type \"%s\"", t)
	}

	if c.Screen.Bus, err = keys["bus"].Int(); err != nil {
		return Program{}, err
	}
	if c.Screen.Address, err = parseAddress(keys["address"]); err != nil {
		return Program{}, err
	}
	if c.Screen.UpdateRate, err = keys["update_rate"].Int(); err != nil {
		return Program{}, err
	}
	if c.Screen.UpdateRate <= 0 {
		return Program{}, fmt.Errorf("update_rate has to be positive, got %d", c.Screen.UpdateRate)
	}

	return c, nil
}

// parseAddress accepts decimal and 0x prefixed 7-bit i2c addresses.
func parseAddress(key *ini.Key) (uint8, error) {
	v, err := strconv.ParseUint(key.String(), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key.Name(), err)
	}
	if v < 0x03 || v > 0x77 {
		return 0, fmt.Errorf("%s: 0x%02X is not a valid 7-bit i2c address", key.Name(), v)
	}
	return uint8(v), nil
}

func getKeys(section *ini.Section, names ...string) (map[string]*ini.Key, error) {
	keys := make(map[string]*ini.Key, len(names))
	for _, name := range names {
		k, err := section.GetKey(name)
		if err != nil {
			return nil, fmt.Errorf("[%s]: %w", section.Name(), err)
		}
		keys[name] = k
	}
	return keys, nil
}
