package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/gethiox/sentral/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStringLen(t *testing.T) {
	for i, tc := range []struct {
		input    string
		expected int
	}{
		{input: "", expected: 0},
		{input: "a", expected: 1},
		{input: "a\033", expected: 2},
		{input: "a\033[", expected: 3},
		{input: "a\033[2", expected: 4},
		{input: "a\033[2A", expected: 1},
		{input: "a\033[2Aa", expected: 2},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			l := rawStringLen(tc.input)
			assert.Equal(t, tc.expected, l)
		})
	}
}

func TestPadRight(t *testing.T) {
	au := aurora.NewAurora(true)
	colored := au.Red("ab").String()

	assert.Equal(t, 5, rawStringLen(padRight(colored, 5)))
	assert.Equal(t, "abc  ", padRight("abc", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 5))
}

func TestUnpack(t *testing.T) {
	data := []byte(`{"ts":1650000000123000000,"caller":"em7180/driver.go:161","msg":"hello","level":3,"bus":"i2c-1"}`)

	e, err := unpack(data)
	require.NoError(t, err)
	assert.Equal(t, "hello", e.Msg)
	assert.Equal(t, logger.DebugLvl, e.Level)
	assert.Equal(t, "i2c-1", e.Bus)
	assert.Equal(t, int64(1650000000123000000), time.Time(e.Ts).UnixNano())

	_, err = unpack([]byte("not json"))
	assert.Error(t, err)
}

func TestPrepareString(t *testing.T) {
	au := aurora.NewAurora(false)
	msg := Entry{
		Ts:     TimeNanosecond(time.Date(2022, 4, 1, 12, 30, 15, 250e6, time.Local)),
		Caller: "em7180/driver.go:161",
		Msg:    "bring-up step: identity",
		Level:  logger.DebugLvl,
		Bus:    "emulator",
	}

	assert.Equal(t, "", prepareString(msg, au, logger.InfoLvl))
	assert.Equal(t,
		"[12:30:15.250] bring-up step: identity [bus=emulator] (em7180/driver.go:161)",
		prepareString(msg, au, logger.DebugLvl),
	)

	msg.Level = logger.ErrorLvl
	msg.Bus = ""
	assert.Equal(t, "[12:30:15.250] bring-up step: identity", prepareString(msg, au, logger.InfoLvl))
}
