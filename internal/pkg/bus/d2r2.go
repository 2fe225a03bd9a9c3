package bus

import (
	"fmt"

	"github.com/d2r2/go-i2c"
	d2r2Logger "github.com/d2r2/go-logger"
)

// D2R2 is a Register backed by the linux i2c-dev interface through d2r2/go-i2c.
type D2R2 struct {
	dev *i2c.I2C
}

func OpenD2R2(addr uint8, bus int) (*D2R2, error) {
	// go-i2c logs every transfer on debug level
	d2r2Logger.ChangePackageLogLevel("i2c", d2r2Logger.InfoLevel)

	dev, err := i2c.NewI2C(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("cannot open i2c-%d device 0x%02X: %w", bus, addr, err)
	}
	return &D2R2{dev: dev}, nil
}

func (d *D2R2) ReadRegister(reg byte) (byte, error) {
	v, err := d.dev.ReadRegU8(reg)
	if err != nil {
		return 0, fmt.Errorf("read register 0x%02X: %w", reg, err)
	}
	return v, nil
}

func (d *D2R2) ReadRegisters(reg byte, buf []byte) error {
	data, n, err := d.dev.ReadRegBytes(reg, len(buf))
	if err != nil {
		return fmt.Errorf("read %d registers at 0x%02X: %w", len(buf), reg, err)
	}
	if n != len(buf) {
		return fmt.Errorf("read %d registers at 0x%02X: %w (%d bytes)", len(buf), reg, ErrShortRead, n)
	}
	copy(buf, data)
	return nil
}

func (d *D2R2) WriteRegister(reg, value byte) error {
	err := d.dev.WriteRegU8(reg, value)
	if err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	return nil
}

func (d *D2R2) Close() error {
	return d.dev.Close()
}

func (d *D2R2) String() string {
	return fmt.Sprintf("i2c-%d@0x%02X", d.dev.GetBus(), d.dev.GetAddr())
}
