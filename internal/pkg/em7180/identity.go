package em7180

import "fmt"

type Identity struct {
	ROMVersion uint16
	RAMVersion uint16
	ProductID  byte
	RevisionID byte
}

func (i Identity) String() string {
	return fmt.Sprintf("ROM: 0x%04X, RAM: 0x%04X, product: 0x%02X, revision: 0x%02X",
		i.ROMVersion, i.RAMVersion, i.ProductID, i.RevisionID)
}

// Matches reports whether product, revision and ROM version are the expected ones.
func (i Identity) Matches() bool {
	return i.ProductID == ExpectedProductID &&
		i.RevisionID == ExpectedRevisionID &&
		i.ROMVersion == ExpectedROMVersion
}

// ROMVersion returns the two ROM version registers, the first one as high byte.
func (d *Driver) ROMVersion() (uint16, error) {
	return d.version(regROMVersion1)
}

// RAMVersion returns the two RAM version registers, the first one as high byte.
func (d *Driver) RAMVersion() (uint16, error) {
	return d.version(regRAMVersion1)
}

func (d *Driver) ProductID() (byte, error) {
	v, err := d.read(regProductID)
	if err != nil {
		return 0, fmt.Errorf("read product ID: %w", err)
	}
	return v, nil
}

func (d *Driver) RevisionID() (byte, error) {
	v, err := d.read(regRevisionID)
	if err != nil {
		return 0, fmt.Errorf("read revision ID: %w", err)
	}
	return v, nil
}

func (d *Driver) Identity() (Identity, error) {
	var (
		id  Identity
		err error
	)
	if id.ROMVersion, err = d.ROMVersion(); err != nil {
		return Identity{}, err
	}
	if id.RAMVersion, err = d.RAMVersion(); err != nil {
		return Identity{}, err
	}
	if id.ProductID, err = d.ProductID(); err != nil {
		return Identity{}, err
	}
	if id.RevisionID, err = d.RevisionID(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func (d *Driver) version(reg byte) (uint16, error) {
	var buf [2]byte
	if err := d.readBurst(reg, buf[:]); err != nil {
		return 0, fmt.Errorf("read version at 0x%02X: %w", reg, err)
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}
