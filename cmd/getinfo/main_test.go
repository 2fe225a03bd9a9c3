package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/d2r2/go-hd44780"
	"github.com/gethiox/sentral/internal/pkg/bus"
	"github.com/gethiox/sentral/internal/pkg/config"
	"github.com/gethiox/sentral/internal/pkg/display"
	"github.com/gethiox/sentral/internal/pkg/em7180"
	"github.com/gethiox/sentral/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	go func() {
		for range logger.Messages {
		}
	}()
	os.Exit(m.Run())
}

func noSleep(time.Duration) {}

// flakyBus fails every register write while failing is set.
type flakyBus struct {
	bus.Register
	failing int32
}

func (f *flakyBus) WriteRegister(reg, value byte) error {
	if atomic.LoadInt32(&f.failing) == 1 {
		return errors.New("nack")
	}
	return f.Register.WriteRegister(reg, value)
}

func testProgram() config.Program {
	return config.Program{
		Sentral: config.Sentral{
			Driver:        config.DriverD2R2,
			Bus:           1,
			Address:       em7180.DefaultAddress,
			ReportRate:    time.Hour,
			BeginAttempts: 3,
		},
		Screen: display.ScreenConfig{LcdType: hd44780.LCD_20x4, UpdateRate: 1},
	}
}

func TestBeginRetries(t *testing.T) {
	emu := em7180.NewEmulator()
	emu.NeverRun = true
	var out bytes.Buffer

	_, err := begin(context.Background(), &out, testProgram().Sentral, emu, em7180.DefaultConfig(),
		em7180.WithSleep(noSleep), em7180.WithRetryBudget(1, 2, 2),
	)
	assert.ErrorIs(t, err, em7180.ErrHandshakeTimeout)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "SENtral initialization failed ("+string(rune('1'+i))+"/3): "), line)
		assert.Contains(t, line, "run status")
	}
}

func TestBeginStopsOnCancel(t *testing.T) {
	emu := em7180.NewEmulator()
	emu.Fail(errors.New("nack"))
	cfg := testProgram().Sentral
	cfg.RetryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := begin(ctx, &out, cfg, emu, em7180.DefaultConfig(), em7180.WithSleep(noSleep))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestMonitorOnce(t *testing.T) {
	emu := em7180.NewEmulator()
	var out bytes.Buffer
	screen := make(chan display.DisplayData, 1)

	m := monitor{
		cfg:     testProgram(),
		bus:     emu,
		busName: "emulator",
		out:     &out,
		au:      aurora.NewAurora(false),
		once:    true,
		screen:  screen,
		options: []em7180.Option{em7180.WithSleep(noSleep)},
	}
	require.NoError(t, m.run(context.Background(), em7180.DefaultConfig(), nil))

	report := out.String()
	for _, s := range []string{
		"SENtral report #1",
		"capabilities:  barometer, temperature",
		"product ID:    0x80 (expected 0x80)",
		"ROM version:   0xE609 (expected 0xE609)",
		"RAM version:   0x0C03",
		"actual rates:  mag: 100 Hz, accel: 200 Hz, gyro: 200 Hz, baro: 50 Hz, temp: 50 Hz",
		"run status:    normal",
		"algorithm:     none",
		"ranges:        mag: +/-1000 uT, accel: +/-8 g, gyro: +/-2000 dps",
		"quaternion:    x: 0.000, y: 0.000, z: 0.000, w: 1.000",
		"temperature:   21.50 °C",
		"pressure:      1013.25 hPa",
	} {
		assert.Contains(t, report, s)
	}

	select {
	case dd := <-screen:
		assert.Equal(t, [4]string{"normal #1", "M100 A200 G200 B50", "±8g ±2000dps ±1000µT", "id: ok"}, dd.Lines)
	default:
		t.Fatal("no display data")
	}
}

func TestMonitorAppliesProfileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gyroscope:\n  rate: 100\n"), 0o666))

	emu := em7180.NewEmulator()
	var out bytes.Buffer
	m := monitor{
		cfg:         testProgram(),
		bus:         emu,
		busName:     "emulator",
		profilePath: path,
		out:         &out,
		au:          aurora.NewAurora(false),
		options:     []em7180.Option{em7180.WithSleep(noSleep)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan bool)
	done := make(chan error)
	go func() {
		done <- m.run(ctx, em7180.DefaultConfig(), changes)
	}()

	changes <- true

	reader, err := em7180.New(emu, em7180.DefaultConfig())
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		rates, err := reader.ActualRates()
		return err == nil && rates.Gyroscope == 100
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Contains(t, out.String(), "SENtral report #2")
}

func TestMonitorKeepsDriverOnInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gyroscope:\n  rate: 105\n"), 0o666))

	emu := em7180.NewEmulator()
	var out bytes.Buffer
	m := monitor{
		cfg:         testProgram(),
		bus:         emu,
		profilePath: path,
		out:         &out,
		au:          aurora.NewAurora(false),
		options:     []em7180.Option{em7180.WithSleep(noSleep)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan bool)
	done := make(chan error)
	go func() {
		done <- m.run(ctx, em7180.DefaultConfig(), changes)
	}()

	changes <- true
	// the second send is only received once the rejected profile was handled
	changes <- true
	cancel()
	require.NoError(t, <-done)

	reader, err := em7180.New(emu, em7180.DefaultConfig())
	require.NoError(t, err)
	rates, err := reader.ActualRates()
	require.NoError(t, err)
	assert.Equal(t, uint16(200), rates.Gyroscope)
}

func TestMonitorKeepsDriverWhenNewProfileFailsToStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gyroscope:\n  rate: 100\n"), 0o666))

	b := &flakyBus{Register: em7180.NewEmulator()}
	var out bytes.Buffer
	m := monitor{
		cfg:         testProgram(),
		bus:         b,
		profilePath: path,
		out:         &out,
		au:          aurora.NewAurora(false),
		options:     []em7180.Option{em7180.WithSleep(noSleep)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan bool)
	done := make(chan error)
	go func() {
		done <- m.run(ctx, em7180.DefaultConfig(), changes)
	}()

	// received once the initial bring-up is done
	changes <- true
	atomic.StoreInt32(&b.failing, 1)
	changes <- true
	// received once the failed bring-up was handled
	changes <- true
	cancel()
	require.NoError(t, <-done)

	report := out.String()
	assert.Contains(t, report, "SENtral initialization failed (3/3)")
	assert.Contains(t, report, "SENtral report #3")
	assert.GreaterOrEqual(t, strings.Count(report, "run status:    normal"), 3)
}

func TestCreateConfigDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sentral-config")
	require.NoError(t, createConfigDirectoryIfNeeded(dir))

	_, err := config.LoadProgram(filepath.Join(dir, programFile))
	require.NoError(t, err)
	profile, err := config.LoadProfile(filepath.Join(dir, profileFile))
	require.NoError(t, err)
	assert.Equal(t, em7180.DefaultConfig(), profile)

	// user changes survive
	custom := []byte("accelerometer:\n  range: 2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, profileFile), custom, 0o666))
	require.NoError(t, createConfigDirectoryIfNeeded(dir))
	data, err := os.ReadFile(filepath.Join(dir, profileFile))
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}
