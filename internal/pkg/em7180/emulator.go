package em7180

import (
	"encoding/binary"
	"math"

	"github.com/gethiox/sentral/internal/pkg/bus"
)

// Emulator models a SENtral with its firmware uploaded from EEPROM on top of a
// simulated register file. It answers parameter transfers, reports normal run status
// once the algorithm is enabled and mirrors requested rates into the actual rate
// registers. It is meant for tests and dry runs without hardware.
type Emulator struct {
	*bus.Simulated

	// RunStatusDelay is the number of run status reads answered with "other"
	// after the algorithm is enabled.
	RunStatusDelay int
	// NeverRun keeps the run status at "other" forever.
	NeverRun bool
	// IgnoreParams leaves parameter transfers unacknowledged.
	IgnoreParams bool
	// EEPROMMissing makes the firmware report no EEPROM after every reset.
	EEPROMMissing bool
	// UploadDelay is the number of sentral status reads answered with the EEPROM
	// detected but the upload not done yet, counted from construction or reset.
	UploadDelay int

	params      map[byte][4]byte
	running     bool
	runReads    int
	statusReads int
	resets      int
}

const sentralBooted = 0x0B // eeprom detected, upload done, idle

func NewEmulator() *Emulator {
	e := &Emulator{
		Simulated: bus.NewSimulated(),
		params:    make(map[byte][4]byte),
	}

	e.SetBytes(regROMVersion1, ExpectedROMVersion>>8, ExpectedROMVersion&0xFF)
	e.SetBytes(regRAMVersion1, 0x0C, 0x03)
	e.Set(regProductID, ExpectedProductID)
	e.Set(regRevisionID, ExpectedRevisionID)
	e.Set(regSentralStatus, sentralBooted)
	e.Set(regFeatureFlags, CapabilityFlags{Barometer: true, Temperature: true}.Encode())

	// resting device: identity quaternion, 1 g on z axis
	e.SetBytes(regQX+12, float32Bytes(1)...)
	e.SetBytes(regAX+4, int16Bytes(2049)...)
	e.SetBytes(regBaro, int16Bytes(0)...)
	e.SetBytes(regTemp, int16Bytes(2150)...)

	e.OnRead = e.handleRead
	e.OnWrite = e.handleWrite
	return e
}

// Param returns the last value written to a parameter.
func (e *Emulator) Param(param byte) [4]byte {
	return e.params[param]
}

// Resets returns how many reset requests were received.
func (e *Emulator) Resets() int {
	return e.resets
}

func (e *Emulator) handleRead(reg byte) {
	switch reg {
	case regSentralStatus:
		if e.UploadDelay == 0 || e.EEPROMMissing {
			return
		}
		if e.statusReads < e.UploadDelay {
			e.Set(regSentralStatus, SentralStatus{EEPROMDetected: true}.Encode())
		} else {
			e.Set(regSentralStatus, sentralBooted)
		}
		e.statusReads++

	case regRunStatus:
		if !e.running || e.NeverRun {
			return
		}
		if e.runReads >= e.RunStatusDelay {
			e.Set(regRunStatus, 0x01)
		}
		e.runReads++
	}
}

func (e *Emulator) handleWrite(reg, value byte) {
	switch reg {
	case regResetRequest:
		e.resets++
		e.statusReads = 0
		e.running = false
		e.Set(regRunStatus, 0x00)
		if e.EEPROMMissing {
			e.Set(regSentralStatus, SentralStatus{NoEEPROM: true}.Encode())
		} else {
			e.Set(regSentralStatus, sentralBooted)
		}

	case regHostControl:
		e.running = value&hostRunEnable != 0
		e.runReads = 0
		if !e.running {
			e.Set(regRunStatus, 0x00)
		}

	case regAlgorithmControl:
		if value&algorithmParamTransfer != 0 {
			e.transferParam()
		}

	case regParamRequest:
		if value == 0 {
			e.Set(regParamAcknowledge, 0)
		}

	case regMagRate:
		e.Set(regActualMagRate, value)
	case regAccelRate:
		e.Set(regActualAccelRate, value)
	case regGyroRate:
		e.Set(regActualGyroRate, value)
	case regBaroRate:
		e.Set(regActualBaroRate, value&^baroRateEnable)
		e.Set(regActualTempRate, value&^baroRateEnable)
	}
}

func (e *Emulator) transferParam() {
	if e.IgnoreParams {
		return
	}
	request := e.Get(regParamRequest)
	if request == 0 {
		return
	}

	param := request &^ paramWrite
	if request&paramWrite != 0 {
		var v [4]byte
		for i := range v {
			v[i] = e.Get(regLoadParamByte0 + byte(i))
		}
		e.params[param] = v
	} else {
		v := e.params[param]
		e.SetBytes(regSavedParamByte0, v[:]...)
	}
	e.Set(regParamAcknowledge, request)
}

func float32Bytes(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func int16Bytes(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}
