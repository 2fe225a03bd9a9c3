package em7180

import "fmt"

// CapabilityFlags lists the optional sensors wired to the SENtral.
type CapabilityFlags struct {
	Barometer   bool
	Humidity    bool
	Temperature bool
	Custom1     bool
	Custom2     bool
	Custom3     bool
}

var capabilityBits = bitfield[CapabilityFlags]{
	{0x01, "barometer", func(c *CapabilityFlags) *bool { return &c.Barometer }},
	{0x02, "humidity", func(c *CapabilityFlags) *bool { return &c.Humidity }},
	{0x04, "temperature", func(c *CapabilityFlags) *bool { return &c.Temperature }},
	{0x08, "custom1", func(c *CapabilityFlags) *bool { return &c.Custom1 }},
	{0x10, "custom2", func(c *CapabilityFlags) *bool { return &c.Custom2 }},
	{0x20, "custom3", func(c *CapabilityFlags) *bool { return &c.Custom3 }},
}

func DecodeCapabilities(v byte) CapabilityFlags { return capabilityBits.decode(v) }
func (c CapabilityFlags) Encode() byte          { return capabilityBits.encode(c) }
func (c CapabilityFlags) String() string        { return capabilityBits.describe(c) }

// AlgorithmStatus reports the state of the fusion algorithm. Flags are independent.
type AlgorithmStatus struct {
	Standby                 bool
	Slow                    bool
	Stillness               bool
	MagCalibrationCompleted bool
	MagneticAnomaly         bool
	UnreliableData          bool
}

var algorithmStatusBits = bitfield[AlgorithmStatus]{
	{0x01, "standby", func(a *AlgorithmStatus) *bool { return &a.Standby }},
	{0x02, "slow", func(a *AlgorithmStatus) *bool { return &a.Slow }},
	{0x04, "stillness", func(a *AlgorithmStatus) *bool { return &a.Stillness }},
	{0x08, "mag calibration completed", func(a *AlgorithmStatus) *bool { return &a.MagCalibrationCompleted }},
	{0x10, "magnetic anomaly", func(a *AlgorithmStatus) *bool { return &a.MagneticAnomaly }},
	{0x20, "unreliable data", func(a *AlgorithmStatus) *bool { return &a.UnreliableData }},
}

func DecodeAlgorithmStatus(v byte) AlgorithmStatus { return algorithmStatusBits.decode(v) }
func (a AlgorithmStatus) Encode() byte             { return algorithmStatusBits.encode(a) }
func (a AlgorithmStatus) String() string           { return algorithmStatusBits.describe(a) }

// SentralStatus reports the firmware upload from EEPROM.
type SentralStatus struct {
	EEPROMDetected bool
	UploadDone     bool
	UploadError    bool
	Idle           bool
	NoEEPROM       bool
}

var sentralStatusBits = bitfield[SentralStatus]{
	{0x01, "eeprom detected", func(s *SentralStatus) *bool { return &s.EEPROMDetected }},
	{0x02, "upload done", func(s *SentralStatus) *bool { return &s.UploadDone }},
	{0x04, "upload error", func(s *SentralStatus) *bool { return &s.UploadError }},
	{0x08, "idle", func(s *SentralStatus) *bool { return &s.Idle }},
	{0x10, "no eeprom", func(s *SentralStatus) *bool { return &s.NoEEPROM }},
}

func DecodeSentralStatus(v byte) SentralStatus { return sentralStatusBits.decode(v) }
func (s SentralStatus) Encode() byte           { return sentralStatusBits.encode(s) }
func (s SentralStatus) String() string         { return sentralStatusBits.describe(s) }

// EventStatus lists pending events. Reading the register clears it on the device.
type EventStatus struct {
	CPUReset         bool
	Error            bool
	QuaternionResult bool
	MagResult        bool
	AccelResult      bool
	GyroResult       bool
}

var eventStatusBits = bitfield[EventStatus]{
	{0x01, "cpu reset", func(e *EventStatus) *bool { return &e.CPUReset }},
	{0x02, "error", func(e *EventStatus) *bool { return &e.Error }},
	{0x04, "quaternion result", func(e *EventStatus) *bool { return &e.QuaternionResult }},
	{0x08, "mag result", func(e *EventStatus) *bool { return &e.MagResult }},
	{0x10, "accel result", func(e *EventStatus) *bool { return &e.AccelResult }},
	{0x20, "gyro result", func(e *EventStatus) *bool { return &e.GyroResult }},
}

func DecodeEventStatus(v byte) EventStatus { return eventStatusBits.decode(v) }
func (e EventStatus) Encode() byte         { return eventStatusBits.encode(e) }
func (e EventStatus) String() string       { return eventStatusBits.describe(e) }

// SensorStatus reports communication problems between the SENtral and its sensors.
type SensorStatus struct {
	MagNACK       bool
	AccelNACK     bool
	GyroNACK      bool
	MagDeviceID   bool
	AccelDeviceID bool
	GyroDeviceID  bool
}

var sensorStatusBits = bitfield[SensorStatus]{
	{0x01, "mag nack", func(s *SensorStatus) *bool { return &s.MagNACK }},
	{0x02, "accel nack", func(s *SensorStatus) *bool { return &s.AccelNACK }},
	{0x04, "gyro nack", func(s *SensorStatus) *bool { return &s.GyroNACK }},
	{0x10, "mag device id error", func(s *SensorStatus) *bool { return &s.MagDeviceID }},
	{0x20, "accel device id error", func(s *SensorStatus) *bool { return &s.AccelDeviceID }},
	{0x40, "gyro device id error", func(s *SensorStatus) *bool { return &s.GyroDeviceID }},
}

func DecodeSensorStatus(v byte) SensorStatus { return sensorStatusBits.decode(v) }
func (s SensorStatus) Encode() byte          { return sensorStatusBits.encode(s) }
func (s SensorStatus) String() string        { return sensorStatusBits.describe(s) }

// Faulty reports whether any sensor problem is flagged.
func (s SensorStatus) Faulty() bool { return s.Encode() != 0 }

type RunStatus uint8

const (
	RunStatusOther RunStatus = iota
	RunStatusNormal
)

func DecodeRunStatus(v byte) RunStatus {
	if v&0x01 != 0 {
		return RunStatusNormal
	}
	return RunStatusOther
}

func (r RunStatus) String() string {
	switch r {
	case RunStatusNormal:
		return "normal"
	default:
		return "other"
	}
}

func (d *Driver) Capabilities() (CapabilityFlags, error) {
	v, err := d.read(regFeatureFlags)
	if err != nil {
		return CapabilityFlags{}, fmt.Errorf("read feature flags: %w", err)
	}
	return DecodeCapabilities(v), nil
}

func (d *Driver) RunStatus() (RunStatus, error) {
	v, err := d.read(regRunStatus)
	if err != nil {
		return RunStatusOther, fmt.Errorf("read run status: %w", err)
	}
	return DecodeRunStatus(v), nil
}

func (d *Driver) AlgorithmStatus() (AlgorithmStatus, error) {
	v, err := d.read(regAlgorithmStatus)
	if err != nil {
		return AlgorithmStatus{}, fmt.Errorf("read algorithm status: %w", err)
	}
	return DecodeAlgorithmStatus(v), nil
}

func (d *Driver) SentralStatus() (SentralStatus, error) {
	v, err := d.read(regSentralStatus)
	if err != nil {
		return SentralStatus{}, fmt.Errorf("read sentral status: %w", err)
	}
	return DecodeSentralStatus(v), nil
}

// EventStatus reads and thereby clears pending events.
func (d *Driver) EventStatus() (EventStatus, error) {
	v, err := d.read(regEventStatus)
	if err != nil {
		return EventStatus{}, fmt.Errorf("read event status: %w", err)
	}
	return DecodeEventStatus(v), nil
}

func (d *Driver) SensorStatus() (SensorStatus, error) {
	v, err := d.read(regSensorStatus)
	if err != nil {
		return SensorStatus{}, fmt.Errorf("read sensor status: %w", err)
	}
	return DecodeSensorStatus(v), nil
}
