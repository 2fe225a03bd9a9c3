// Package em7180 drives the EM Microelectronic EM7180 SENtral sensor-hub coprocessor.
//
// A Driver owns one device on a register bus. It keeps no cache: every query performs
// fresh register reads. The driver does no locking, callers serialize access when the
// bus is shared.
package em7180

import (
	"errors"
	"fmt"
	"time"

	"github.com/gethiox/sentral/internal/pkg/bus"
	"github.com/gethiox/sentral/internal/pkg/logger"
	"go.uber.org/zap"
)

// Retry budget of the bring-up handshake.
const (
	DefaultResetAttempts     = 10
	DefaultResetDelay        = 500 * time.Millisecond
	DefaultRunEnableDelay    = 100 * time.Millisecond
	DefaultRunStatusAttempts = 10
	DefaultPollInterval      = 10 * time.Millisecond
	DefaultParamAckAttempts  = 100
)

type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Options struct {
	ResetAttempts     int
	ResetDelay        time.Duration
	RunEnableDelay    time.Duration
	RunStatusAttempts int
	PollInterval      time.Duration
	ParamAckAttempts  int

	Logger *zap.Logger
	Sleep  func(time.Duration)
}

type Option func(*Options)

func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithSleep replaces time.Sleep for every wait of the driver.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Options) { o.Sleep = sleep }
}

// WithRetryBudget limits firmware reset, run status and parameter acknowledge polling.
// Values below 1 are treated as 1.
func WithRetryBudget(resetAttempts, runStatusAttempts, paramAckAttempts int) Option {
	return func(o *Options) {
		o.ResetAttempts = resetAttempts
		o.RunStatusAttempts = runStatusAttempts
		o.ParamAckAttempts = paramAckAttempts
	}
}

func WithDelays(reset, runEnable, poll time.Duration) Option {
	return func(o *Options) {
		o.ResetDelay = reset
		o.RunEnableDelay = runEnable
		o.PollInterval = poll
	}
}

func defaultOptions() Options {
	return Options{
		ResetAttempts:     DefaultResetAttempts,
		ResetDelay:        DefaultResetDelay,
		RunEnableDelay:    DefaultRunEnableDelay,
		RunStatusAttempts: DefaultRunStatusAttempts,
		PollInterval:      DefaultPollInterval,
		ParamAckAttempts:  DefaultParamAckAttempts,
		Logger:            zap.NewNop(),
		Sleep:             time.Sleep,
	}
}

type Driver struct {
	bus  bus.Register
	cfg  Config
	opts Options
	log  *zap.Logger

	state       State
	lastCode    ErrorCode
	lastMessage string
}

// New binds a driver to the device behind b. The device is not touched until Begin.
func New(b bus.Register, cfg Config, options ...Option) (*Driver, error) {
	if b == nil {
		return nil, errors.New("nil register bus")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	for _, o := range options {
		o(&opts)
	}
	for _, n := range []*int{&opts.ResetAttempts, &opts.RunStatusAttempts, &opts.ParamAckAttempts} {
		if *n < 1 {
			*n = 1
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	return &Driver{
		bus:  b,
		cfg:  cfg,
		opts: opts,
		log:  opts.Logger,
	}, nil
}

func (d *Driver) Config() Config {
	return d.cfg
}

func (d *Driver) State() State {
	return d.state
}

// Begin runs the full bring-up handshake: identity check, firmware upload check,
// rate configuration, algorithm start, run status polling, full-scale parameter
// transfer and sensor status check. A failure wraps an *Error whose code and message
// are also recorded for LastErrorCode and LastErrorMessage. Begin may be called again
// after a failure.
func (d *Driver) Begin() error {
	d.log.Info("SENtral bring-up started", logger.Debug)

	err := d.begin()
	if err != nil {
		code := CodeTransport
		var e *Error
		if errors.As(err, &e) {
			code = e.Code
		}
		d.state = StateFailed
		d.lastCode = code
		d.lastMessage = err.Error()
		d.log.Info(fmt.Sprintf("SENtral bring-up failed: %s", d.lastMessage), logger.Debug)
		return err
	}

	d.state = StateReady
	d.lastCode = CodeNone
	d.lastMessage = ""
	d.log.Info("SENtral bring-up done", logger.Info)
	return nil
}

func (d *Driver) begin() error {
	for _, step := range []struct {
		name string
		run  func() error
	}{
		{"identity", d.checkIdentity},
		{"firmware", d.awaitFirmware},
		{"configure", d.configure},
		{"start", d.start},
		{"run status", d.awaitRunStatus},
		{"full-scale ranges", d.writeRanges},
		{"sensor status", d.checkSensors},
	} {
		d.log.Info(fmt.Sprintf("bring-up step: %s", step.name), logger.Debug)
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (d *Driver) checkIdentity() error {
	product, err := d.ProductID()
	if err != nil {
		return err
	}
	if product != ExpectedProductID {
		return newError(CodeIdentityMismatch, fmt.Errorf(
			"product ID 0x%02X, expected 0x%02X", product, ExpectedProductID,
		))
	}

	revision, err := d.RevisionID()
	if err != nil {
		return err
	}
	if revision != ExpectedRevisionID {
		d.log.Info(fmt.Sprintf(
			"unexpected revision ID 0x%02X, expected 0x%02X", revision, ExpectedRevisionID,
		), logger.Warning)
	}

	rom, err := d.ROMVersion()
	if err != nil {
		return err
	}
	if rom != ExpectedROMVersion {
		d.log.Info(fmt.Sprintf(
			"unexpected ROM version 0x%04X, expected 0x%04X", rom, ExpectedROMVersion,
		), logger.Warning)
	}
	return nil
}

// awaitFirmware waits for the configuration upload from EEPROM. A reset is requested
// while no EEPROM is detected, an upload in progress is only polled.
func (d *Driver) awaitFirmware() error {
	var status SentralStatus
	for attempt := 1; ; attempt++ {
		var err error
		status, err = d.SentralStatus()
		if err != nil {
			return err
		}
		if status.EEPROMDetected {
			switch {
			case status.UploadError, status.NoEEPROM:
				return newError(CodeEEPROMUpload, fmt.Errorf("sentral status: %s", status))
			case status.UploadDone:
				return nil
			}
		}
		if attempt >= d.opts.ResetAttempts {
			break
		}

		if status.EEPROMDetected {
			d.log.Info(fmt.Sprintf("firmware upload in progress (%s)", status), logger.Debug)
		} else {
			d.log.Info(fmt.Sprintf("EEPROM not detected (%s), requesting reset", status), logger.Debug)
			if err := d.write(regResetRequest, resetRequest); err != nil {
				return err
			}
		}
		d.opts.Sleep(d.opts.ResetDelay)
	}
	return newError(CodeEEPROMRead, fmt.Errorf(
		"sentral status after %d reads: %s", d.opts.ResetAttempts, status,
	))
}

func (d *Driver) configure() error {
	for _, w := range []struct {
		reg, value byte
	}{
		{regHostControl, hostRunDisable},
		{regPassThruControl, passThruDisable},
		{regAccelLPFBandwidth, lpfBandwidth41Hz},
		{regGyroLPFBandwidth, lpfBandwidth41Hz},
		{regQRateDivisor, byte(d.cfg.QuaternionDivisor - 1)},
		{regMagRate, byte(d.cfg.MagRate)},
		{regAccelRate, byte(d.cfg.AccelRate / rateScale)},
		{regGyroRate, byte(d.cfg.GyroRate / rateScale)},
		{regBaroRate, baroRateEnable | byte(d.cfg.BaroRate)},
		{regAlgorithmControl, algorithmNormal},
		{regEnableEvents, eventsDefault},
	} {
		if err := d.write(w.reg, w.value); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) start() error {
	if err := d.write(regHostControl, hostRunEnable); err != nil {
		return err
	}
	d.opts.Sleep(d.opts.RunEnableDelay)
	return nil
}

func (d *Driver) awaitRunStatus() error {
	for attempt := 0; attempt < d.opts.RunStatusAttempts; attempt++ {
		if attempt > 0 {
			d.opts.Sleep(d.opts.PollInterval)
		}
		status, err := d.RunStatus()
		if err != nil {
			return err
		}
		if status == RunStatusNormal {
			return nil
		}
	}
	return newError(CodeRunStatusTimeout, fmt.Errorf(
		"run status not normal after %d reads", d.opts.RunStatusAttempts,
	))
}

func (d *Driver) writeRanges() error {
	fs := d.cfg.FullScaleRanges()
	mag, acc, gyro := fs.MagnetometerMicroTesla, uint16(fs.AccelerometerG), fs.GyroscopeDPS

	if err := d.writeParam(paramStillnessEnable, [4]byte{}); err != nil {
		return err
	}
	if err := d.writeParam(paramMagAccelFS, [4]byte{byte(mag), byte(mag >> 8), byte(acc), byte(acc >> 8)}); err != nil {
		return err
	}
	return d.writeParam(paramGyroFS, [4]byte{byte(gyro), byte(gyro >> 8), 0, 0})
}

func (d *Driver) checkSensors() error {
	// reading clears the pending interrupt
	events, err := d.EventStatus()
	if err != nil {
		return err
	}
	d.log.Info(fmt.Sprintf("pending events: %s", events), logger.Debug)

	code, err := d.read(regErrorRegister)
	if err != nil {
		return err
	}
	sensors, err := d.SensorStatus()
	if err != nil {
		return err
	}

	switch {
	case code != 0:
		return newError(ErrorCode(code), fmt.Errorf("sensor status: %s", sensors))
	case sensors.Faulty():
		return newError(CodeSensorFault, fmt.Errorf("sensor status: %s", sensors))
	}
	return nil
}

func (d *Driver) read(reg byte) (byte, error) {
	v, err := d.bus.ReadRegister(reg)
	if err != nil {
		return 0, transportError(err)
	}
	d.log.Info(fmt.Sprintf("read 0x%02X: 0x%02X", reg, v), logger.Register)
	return v, nil
}

func (d *Driver) readBurst(reg byte, buf []byte) error {
	err := d.bus.ReadRegisters(reg, buf)
	if err != nil {
		return transportError(err)
	}
	d.log.Info(fmt.Sprintf("read 0x%02X: % X", reg, buf), logger.Register)
	return nil
}

func (d *Driver) write(reg, value byte) error {
	err := d.bus.WriteRegister(reg, value)
	if err != nil {
		return transportError(err)
	}
	d.log.Info(fmt.Sprintf("write 0x%02X: 0x%02X", reg, value), logger.Register)
	return nil
}
