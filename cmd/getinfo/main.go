package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gethiox/sentral/internal/pkg/bus"
	"github.com/gethiox/sentral/internal/pkg/config"
	"github.com/gethiox/sentral/internal/pkg/display"
	"github.com/gethiox/sentral/internal/pkg/em7180"
	"github.com/gethiox/sentral/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"go.uber.org/multierr"
)

var log = logger.GetLogger()

var (
	configDir = flag.String("config", "sentral-config", "config directory, created with defaults when missing")
	simulate  = flag.Bool("simulate", false, "use built-in SENtral emulator instead of the i2c device")
	once      = flag.Bool("once", false, "print a single report and exit")
	nocolor   = flag.Bool("nocolor", false, "disable color")
	logLevel  = flag.Int("loglevel", 0,
		"logging level, each level enables additional information class (0-2, default: 0)\n"+
			"\navailable options:\n"+
			"0: general info (eg. bring-up result, profile changes)\n"+
			"1: bring-up steps and firmware status\n"+
			"2: every register transfer",
	)
	silent = flag.Bool("silent", false, "no output logging")
)

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func()) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		counter++
	}
}

func printLogs(silent, colors bool, logLevel int) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if silent {
			for range logger.Messages {
			}
			return
		}
		au := aurora.NewAurora(colors)
		for data := range logger.Messages {
			msg, err := unpack(data)
			if err != nil {
				fmt.Printf("%s\n", string(data))
				continue
			}
			m := prepareString(msg, au, logLevel)
			if m != "" {
				fmt.Printf("%s\n", m)
			}
		}
	}()
	return done
}

type monitor struct {
	cfg         config.Program
	bus         bus.Register
	busName     string
	profilePath string
	out         io.Writer
	au          aurora.Aurora
	once        bool
	screen      chan<- display.DisplayData
	options     []em7180.Option
}

// run brings the SENtral up and reports its state until ctx is done. A profile
// change replaces the driver once a driver built from the new profile is up,
// otherwise the previous one is kept.
func (m *monitor) run(ctx context.Context, profile em7180.Config, changes <-chan bool) error {
	options := append(driverOptions(m.busName, m.profilePath), m.options...)
	d, err := begin(ctx, m.out, m.cfg.Sentral, m.bus, profile, options...)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(m.cfg.Sentral.ReportRate)
	defer ticker.Stop()

	screenPeriod := time.Second / time.Duration(m.cfg.Screen.UpdateRate)
	var lastScreenUpdate time.Time

	for counter := 1; ; counter++ {
		r, err := collectReport(d, counter)
		if err != nil {
			log.Info(fmt.Sprintf("report incomplete: %v", err), logger.Warning)
		}
		fmt.Fprint(m.out, r.render(m.au))

		if m.screen != nil && time.Since(lastScreenUpdate) >= screenPeriod {
			select {
			case m.screen <- r.displayData():
				lastScreenUpdate = time.Now()
			case <-ctx.Done():
				return nil
			}
		}

		if m.once {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			newProfile, err := config.LoadProfile(m.profilePath)
			if err != nil {
				log.Info(fmt.Sprintf("profile rejected, keeping the previous one: %v", err), logger.Warning)
				continue
			}
			log.Info(fmt.Sprintf("applying new profile: %+v", newProfile), logger.Info)
			nd, err := begin(ctx, m.out, m.cfg.Sentral, m.bus, newProfile, options...)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Info(fmt.Sprintf("new profile not applied, keeping the previous one: %v", err), logger.Warning)
				continue
			}
			d = nd
		}
	}
}

func main() {
	flag.Parse()
	*logLevel += logger.InfoLvl

	if err := createConfigDirectoryIfNeeded(*configDir); err != nil {
		fmt.Printf("config directory: %s\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadProgram(filepath.Join(*configDir, programFile))
	if err != nil {
		fmt.Printf("program config: %s\n", err)
		os.Exit(1)
	}
	profilePath := filepath.Join(*configDir, profileFile)
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		fmt.Printf("sensor profile: %s\n", err)
		os.Exit(1)
	}

	logsDone := printLogs(*silent, !*nocolor, *logLevel)
	log.Info(fmt.Sprintf("program config: %+v", cfg), logger.Debug)

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	// this wait-group has to be propagated everywhere where usual logging appear
	wg := sync.WaitGroup{}
	wg.Add(1)
	go handleSigs(&wg, sigs, cancel)

	exitCode := 0
	b, busName, err := openBus(cfg.Sentral, *simulate)
	if err != nil {
		log.Info(fmt.Sprintf("cannot open bus: %v", err), logger.Error)
		exitCode = 1
	} else {
		var screen chan display.DisplayData
		if cfg.Screen.Enabled {
			screen = make(chan display.DisplayData)
			wg.Add(1)
			go display.HandleDisplay(&wg, cfg.Screen, screen)
		}

		var changes <-chan bool
		if !*once {
			changes, err = config.WatchProfile(ctx, profilePath)
			if err != nil {
				log.Info(fmt.Sprintf("profile changes will not be detected: %v", err), logger.Warning)
			}
		}

		m := monitor{
			cfg:         cfg,
			bus:         b,
			busName:     busName,
			profilePath: profilePath,
			out:         os.Stdout,
			au:          aurora.NewAurora(!*nocolor),
			once:        *once,
			screen:      screen,
		}

		runErr := m.run(ctx, profile, changes)
		if screen != nil {
			close(screen)
		}
		cancel()

		if err := multierr.Combine(runErr, b.Close()); err != nil {
			for _, e := range multierr.Errors(err) {
				log.Info(e.Error(), logger.Error)
			}
			exitCode = 1
		}
	}

	signal.Stop(sigs)
	close(sigs)

	// closing logger can be safely invoked only when all internally running goroutines (that may emit logs) are done
	wg.Wait()
	close(logger.Messages)
	<-logsDone
	os.Exit(exitCode)
}
