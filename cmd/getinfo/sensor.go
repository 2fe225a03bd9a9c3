package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gethiox/sentral/internal/pkg/bus"
	"github.com/gethiox/sentral/internal/pkg/config"
	"github.com/gethiox/sentral/internal/pkg/em7180"
	"github.com/gethiox/sentral/internal/pkg/logger"
	"go.uber.org/zap"
)

// openBus returns the register bus of the SENtral and the name used in logs.
func openBus(cfg config.Sentral, simulate bool) (bus.RegisterCloser, string, error) {
	if simulate {
		log.Info("using built-in SENtral emulator", logger.Warning)
		return em7180.NewEmulator(), "emulator", nil
	}

	name := fmt.Sprintf("i2c-%d@0x%02X", cfg.Bus, cfg.Address)
	switch cfg.Driver {
	case config.DriverPeriph:
		b, err := bus.OpenPeriph(strconv.Itoa(cfg.Bus), uint16(cfg.Address))
		return b, name, err
	default:
		b, err := bus.OpenD2R2(cfg.Address, cfg.Bus)
		return b, name, err
	}
}

// begin constructs a driver for profile and runs the bring-up up to BeginAttempts
// times. Every failed attempt is reported once on out.
func begin(
	ctx context.Context, out io.Writer, cfg config.Sentral, b bus.Register,
	profile em7180.Config, options ...em7180.Option,
) (*em7180.Driver, error) {
	d, err := em7180.New(b, profile, options...)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = d.Begin()
		if err == nil {
			log.Info(fmt.Sprintf("SENtral ready, ranges: %s", d.FullScaleRanges()), logger.Info)
			return d, nil
		}
		fmt.Fprintf(out, "SENtral initialization failed (%d/%d): %s\n", attempt, cfg.BeginAttempts, d.LastErrorMessage())

		if attempt >= cfg.BeginAttempts {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryDelay):
		}
	}
}

func driverOptions(busName, profilePath string) []em7180.Option {
	return []em7180.Option{
		em7180.WithLogger(log.With(zap.String("bus", busName), zap.String("profile", profilePath))),
	}
}
