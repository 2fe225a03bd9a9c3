package bus

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Periph is a Register backed by a periph.io I2C bus.
type Periph struct {
	dev    i2c.Dev
	closer io.Closer
}

// NewPeriph wraps an already opened bus. Closing the returned Periph does not close b.
func NewPeriph(b i2c.Bus, addr uint16) *Periph {
	return &Periph{dev: i2c.Dev{Bus: b, Addr: addr}}
}

// OpenPeriph initializes the periph host drivers and opens the named bus,
// an empty name selects the first available one.
func OpenPeriph(name string, addr uint16) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init failed: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open i2c bus %q: %w", name, err)
	}
	return &Periph{dev: i2c.Dev{Bus: b, Addr: addr}, closer: b}, nil
}

func (p *Periph) ReadRegister(reg byte) (byte, error) {
	var buf [1]byte
	if err := p.ReadRegisters(reg, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (p *Periph) ReadRegisters(reg byte, buf []byte) error {
	if err := p.dev.Tx([]byte{reg}, buf); err != nil {
		return fmt.Errorf("read %d registers at 0x%02X: %w", len(buf), reg, err)
	}
	return nil
}

func (p *Periph) WriteRegister(reg, value byte) error {
	if err := p.dev.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

func (p *Periph) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *Periph) String() string {
	return p.dev.String()
}
