package em7180

import (
	"errors"
	"fmt"
)

var (
	ErrTransport        = errors.New("transport failure")
	ErrIdentityMismatch = errors.New("identity mismatch")
	ErrHandshakeTimeout = errors.New("handshake timeout")
	ErrFirmware         = errors.New("firmware reported failure")
)

// ErrorCode identifies why a bring-up failed. Values below 0xA0 are reported by
// the SENtral ErrorRegister, the rest are assigned by the driver.
type ErrorCode uint8

const (
	CodeNone ErrorCode = 0x00

	CodeMagInitFailure    ErrorCode = 0x11
	CodeAccelInitFailure  ErrorCode = 0x12
	CodeGyroInitFailure   ErrorCode = 0x14
	CodeMagFailure        ErrorCode = 0x21
	CodeAccelFailure      ErrorCode = 0x22
	CodeGyroFailure       ErrorCode = 0x24
	CodeMathError         ErrorCode = 0x30
	CodeInvalidSampleRate ErrorCode = 0x80

	CodeEEPROMRead       ErrorCode = 0xA0
	CodeEEPROMUpload     ErrorCode = 0xB0
	CodeTransport        ErrorCode = 0xC0
	CodeIdentityMismatch ErrorCode = 0xC1
	CodeRunStatusTimeout ErrorCode = 0xC2
	CodeParamTimeout     ErrorCode = 0xC3
	CodeSensorFault      ErrorCode = 0xC4
)

var errorMessages = map[ErrorCode]string{
	CodeMagInitFailure:    "Magnetometer initialization failure",
	CodeAccelInitFailure:  "Accelerometer initialization failure",
	CodeGyroInitFailure:   "Gyroscope initialization failure",
	CodeMagFailure:        "Magnetometer error",
	CodeAccelFailure:      "Accelerometer error",
	CodeGyroFailure:       "Gyroscope error",
	CodeMathError:         "Math error",
	CodeInvalidSampleRate: "Invalid sample rate",
	CodeEEPROMRead:        "Unable to read from SENtral EEPROM",
	CodeEEPROMUpload:      "Unable to upload config to SENtral EEPROM",
	CodeTransport:         "Bus transfer failed",
	CodeIdentityMismatch:  "Device is not an EM7180 SENtral",
	CodeRunStatusTimeout:  "SENtral did not reach normal run status",
	CodeParamTimeout:      "Parameter transfer not acknowledged",
	CodeSensorFault:       "Sensor status reports a fault",
}

// Message returns a human-readable description, empty for CodeNone.
func (c ErrorCode) Message() string {
	if c == CodeNone {
		return ""
	}
	m, ok := errorMessages[c]
	if !ok {
		return "Unknown error"
	}
	return m
}

func (c ErrorCode) String() string {
	return fmt.Sprintf("0x%02X", uint8(c))
}

func (c ErrorCode) kind() error {
	switch c {
	case CodeTransport:
		return ErrTransport
	case CodeIdentityMismatch:
		return ErrIdentityMismatch
	case CodeRunStatusTimeout, CodeParamTimeout:
		return ErrHandshakeTimeout
	default:
		return ErrFirmware
	}
}

// Error is returned by a failed bring-up and by queries hitting a bus failure.
// errors.Is matches both the failure category and the underlying cause.
type Error struct {
	Code ErrorCode
	Err  error
}

func newError(code ErrorCode, err error) error {
	return &Error{Code: code, Err: err}
}

func transportError(err error) error {
	return &Error{Code: CodeTransport, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (code %s)", e.Code.Message(), e.Code)
	}
	return fmt.Sprintf("%s (code %s): %v", e.Code.Message(), e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Code.kind()
}

func (e *Error) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

// LastErrorCode returns the code recorded by the most recent failed Begin,
// CodeNone when bring-up has not failed.
func (d *Driver) LastErrorCode() ErrorCode {
	return d.lastCode
}

// LastErrorMessage describes the most recent failed Begin. It is display text, print
// it with %s and never use it as a format string.
func (d *Driver) LastErrorMessage() string {
	return d.lastMessage
}
