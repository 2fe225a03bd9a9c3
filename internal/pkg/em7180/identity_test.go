package em7180

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityAccessorsReturnRawValues(t *testing.T) {
	emu := NewEmulator()
	emu.SetBytes(regROMVersion1, 0x12, 0x34)
	emu.SetBytes(regRAMVersion1, 0xAB, 0xCD)
	emu.Set(regProductID, 0xFE)
	emu.Set(regRevisionID, 0x07)
	d := newTestDriver(t, emu)

	rom, err := d.ROMVersion()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), rom)

	ram, err := d.RAMVersion()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), ram)

	product, err := d.ProductID()
	require.NoError(t, err)
	assert.Equal(t, byte(0xFE), product)

	revision, err := d.RevisionID()
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), revision)

	id, err := d.Identity()
	require.NoError(t, err)
	assert.Equal(t, Identity{ROMVersion: 0x1234, RAMVersion: 0xABCD, ProductID: 0xFE, RevisionID: 0x07}, id)
	assert.False(t, id.Matches())
}

func TestIdentityOfEmulator(t *testing.T) {
	d := newTestDriver(t, NewEmulator())

	id, err := d.Identity()
	require.NoError(t, err)
	assert.True(t, id.Matches())
	assert.Equal(t, "ROM: 0xE609, RAM: 0x0C03, product: 0x80, revision: 0x02", id.String())
}

func TestBeginWarnsOnUnexpectedRevision(t *testing.T) {
	emu := NewEmulator()
	emu.Set(regRevisionID, 0x03)
	emu.SetBytes(regROMVersion1, 0x9E, 0x61)
	d := newTestDriver(t, emu)

	assert.NoError(t, d.Begin())
}

func TestIdentityError(t *testing.T) {
	emu := NewEmulator()
	emu.FailRegister(regRAMVersion2, errNack)
	d := newTestDriver(t, emu)

	_, err := d.Identity()
	assert.ErrorIs(t, err, errNack)
	_, err = d.ProductID()
	assert.NoError(t, err)
}
