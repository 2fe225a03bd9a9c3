package display

import "github.com/d2r2/go-hd44780"

type ScreenConfig struct {
	Enabled    bool
	LcdType    hd44780.LcdType
	Bus        int
	Address    uint8
	UpdateRate int // Hz
}

// Size returns columns and rows of the configured LCD.
func (s *ScreenConfig) Size() (int, int) {
	switch s.LcdType {
	case hd44780.LCD_16x2:
		return 16, 2
	default:
		return 20, 4
	}
}
