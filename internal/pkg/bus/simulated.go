package bus

import (
	"fmt"
	"sync"
)

type Write struct {
	Reg, Value byte
}

// Simulated is an in-memory register file with fault injection.
// OnRead is invoked before every register read and OnWrite after every stored write,
// both outside of the internal lock so hooks may use Set and Get.
type Simulated struct {
	mu      sync.Mutex
	regs    [256]byte
	faults  map[byte]error
	failAll error
	writes  []Write

	OnRead  func(reg byte)
	OnWrite func(reg, value byte)
}

func NewSimulated() *Simulated {
	return &Simulated{faults: make(map[byte]error)}
}

func (s *Simulated) Set(reg, value byte) {
	s.mu.Lock()
	s.regs[reg] = value
	s.mu.Unlock()
}

// SetBytes stores data into consecutive registers starting at reg.
func (s *Simulated) SetBytes(reg byte, data ...byte) {
	s.mu.Lock()
	for i, b := range data {
		s.regs[reg+byte(i)] = b
	}
	s.mu.Unlock()
}

func (s *Simulated) Get(reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// FailRegister makes every access to reg fail with err until faults are cleared.
func (s *Simulated) FailRegister(reg byte, err error) {
	s.mu.Lock()
	s.faults[reg] = err
	s.mu.Unlock()
}

// Fail makes every access fail with err until faults are cleared.
func (s *Simulated) Fail(err error) {
	s.mu.Lock()
	s.failAll = err
	s.mu.Unlock()
}

func (s *Simulated) ClearFaults() {
	s.mu.Lock()
	s.failAll = nil
	s.faults = make(map[byte]error)
	s.mu.Unlock()
}

// Writes returns a copy of every successful write in order.
func (s *Simulated) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

func (s *Simulated) ResetWrites() {
	s.mu.Lock()
	s.writes = nil
	s.mu.Unlock()
}

func (s *Simulated) fault(reg byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	return s.faults[reg]
}

func (s *Simulated) ReadRegister(reg byte) (byte, error) {
	var buf [1]byte
	if err := s.ReadRegisters(reg, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (s *Simulated) ReadRegisters(reg byte, buf []byte) error {
	for i := range buf {
		r := reg + byte(i)
		if err := s.fault(r); err != nil {
			return fmt.Errorf("read register 0x%02X: %w", r, err)
		}
		if s.OnRead != nil {
			s.OnRead(r)
		}
		buf[i] = s.Get(r)
	}
	return nil
}

func (s *Simulated) WriteRegister(reg, value byte) error {
	if err := s.fault(reg); err != nil {
		return fmt.Errorf("write register 0x%02X: %w", reg, err)
	}
	s.mu.Lock()
	s.regs[reg] = value
	s.writes = append(s.writes, Write{Reg: reg, Value: value})
	s.mu.Unlock()

	if s.OnWrite != nil {
		s.OnWrite(reg, value)
	}
	return nil
}

func (s *Simulated) Close() error {
	return nil
}

func (s *Simulated) String() string {
	return "simulated"
}
