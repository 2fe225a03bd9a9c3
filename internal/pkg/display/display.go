package display

import (
	"fmt"
	"strings"
	"sync"

	device "github.com/d2r2/go-hd44780"
	"github.com/d2r2/go-i2c"
	d2r2Logger "github.com/d2r2/go-logger"
	"github.com/gethiox/sentral/internal/pkg/logger"
)

var log = logger.GetLogger()

func getDisplay(addr uint8, bus int, lcdType device.LcdType) (*device.Lcd, *i2c.I2C, error) {
	d2r2Logger.ChangePackageLogLevel("i2c", d2r2Logger.InfoLevel)

	lcdRaw, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, nil, err
	}

	lcd, err := device.NewLcd(lcdRaw, lcdType)
	if err != nil {
		return nil, lcdRaw, err
	}

	return lcd, lcdRaw, nil
}

// characters available in the HD44780 A00 character ROM
var conversionMap = map[rune]byte{
	'°': 0xDF,
	'µ': 0xE4,
	'±': '~',
}

func replaceCharsForDisplay(s string) string {
	var sb strings.Builder
	for _, r := range s {
		n, ok := conversionMap[r]
		switch {
		case ok:
			sb.WriteByte(n)
		case r > 0x7F:
			sb.WriteByte('?')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// fitLine truncates or pads s to exactly width characters so leftovers of
// a previous longer line get overwritten.
func fitLine(s string, width int) string {
	s = replaceCharsForDisplay(s)
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

type DisplayData struct {
	Lines [4]string
}

// HandleDisplay writes every received DisplayData to the LCD until dd is closed.
func HandleDisplay(wg *sync.WaitGroup, cfg ScreenConfig, dd <-chan DisplayData) {
	defer wg.Done()
	lcd, bus, err := getDisplay(cfg.Address, cfg.Bus, cfg.LcdType)
	if err != nil {
		log.Info(fmt.Sprintf("failed to open display: %v", err), logger.Warning)
		if bus != nil {
			bus.Close()
		}
		for range dd {
		}
		return
	}

	width, height := cfg.Size()

	lcd.BacklightOn()
	lcd.Clear()

	for data := range dd {
		for i, s := range data.Lines[:height] {
			lcd.SetPosition(i, 0)
			lcd.Write([]byte(fitLine(s, width)))
		}
	}

	lcd.Clear()
	lcd.BacklightOff()
	bus.Close()
	log.Info("display closed", logger.Debug)
}
