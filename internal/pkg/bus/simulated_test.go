package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedReadWrite(t *testing.T) {
	s := NewSimulated()
	s.SetBytes(0x45, 10, 20, 30)

	v, err := s.ReadRegister(0x46)
	require.NoError(t, err)
	assert.Equal(t, byte(20), v)

	buf := make([]byte, 3)
	require.NoError(t, s.ReadRegisters(0x45, buf))
	assert.Equal(t, []byte{10, 20, 30}, buf)

	require.NoError(t, s.WriteRegister(0x34, 0x01))
	assert.Equal(t, byte(0x01), s.Get(0x34))
	assert.Equal(t, []Write{{Reg: 0x34, Value: 0x01}}, s.Writes())

	s.ResetWrites()
	assert.Empty(t, s.Writes())
}

func TestSimulatedFaults(t *testing.T) {
	errBus := errors.New("nack")
	s := NewSimulated()

	s.FailRegister(0x90, errBus)
	_, err := s.ReadRegister(0x90)
	assert.ErrorIs(t, err, errBus)

	// burst crossing the failing register fails too
	err = s.ReadRegisters(0x8F, make([]byte, 2))
	assert.ErrorIs(t, err, errBus)

	_, err = s.ReadRegister(0x91)
	assert.NoError(t, err)

	s.Fail(errBus)
	err = s.WriteRegister(0x34, 1)
	assert.ErrorIs(t, err, errBus)
	assert.Empty(t, s.Writes())

	s.ClearFaults()
	_, err = s.ReadRegister(0x90)
	assert.NoError(t, err)
	assert.NoError(t, s.WriteRegister(0x34, 1))
}

func TestSimulatedHooks(t *testing.T) {
	s := NewSimulated()
	var reads []byte
	s.OnRead = func(reg byte) { reads = append(reads, reg) }
	s.OnWrite = func(reg, value byte) {
		// hooks may touch the register file
		s.Set(reg+1, value)
	}

	require.NoError(t, s.WriteRegister(0x10, 0xAA))
	assert.Equal(t, byte(0xAA), s.Get(0x11))

	require.NoError(t, s.ReadRegisters(0x10, make([]byte, 2)))
	assert.Equal(t, []byte{0x10, 0x11}, reads)
}
