package display

import (
	"fmt"
	"testing"

	"github.com/d2r2/go-hd44780"
	"github.com/stretchr/testify/assert"
)

func TestFitLine(t *testing.T) {
	for i, tc := range []struct {
		input    string
		width    int
		expected string
	}{
		{input: "", width: 4, expected: "    "},
		{input: "ab", width: 4, expected: "ab  "},
		{input: "abcd", width: 4, expected: "abcd"},
		{input: "abcdef", width: 4, expected: "abcd"},
		{input: "21.5°C", width: 8, expected: "21.5\xdfC  "},
		{input: "±8g", width: 3, expected: "~8g"},
		{input: "1000µT", width: 6, expected: "1000\xe4T"},
		{input: "→", width: 2, expected: "? "},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert.Equal(t, tc.expected, fitLine(tc.input, tc.width))
		})
	}
}

func TestScreenSize(t *testing.T) {
	for i, tc := range []struct {
		lcdType hd44780.LcdType
		cols    int
		rows    int
	}{
		{hd44780.LCD_16x2, 16, 2},
		{hd44780.LCD_20x4, 20, 4},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			cfg := ScreenConfig{LcdType: tc.lcdType}
			cols, rows := cfg.Size()
			assert.Equal(t, tc.cols, cols)
			assert.Equal(t, tc.rows, rows)
		})
	}
}
