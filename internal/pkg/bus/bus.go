// Package bus provides register-addressed access to devices sitting on an I2C bus.
//
// A Register implementation assumes a single owner. When one physical bus is shared
// between several goroutines or logical devices, callers serialize access themselves.
package bus

import (
	"errors"
	"io"
)

var ErrShortRead = errors.New("short read")

// Register reads and writes byte registers of a single bus device.
type Register interface {
	ReadRegister(reg byte) (byte, error)
	// ReadRegisters fills buf with consecutive registers starting at reg.
	ReadRegisters(reg byte, buf []byte) error
	WriteRegister(reg, value byte) error
}

type RegisterCloser interface {
	Register
	io.Closer
}
