package core

// Register8 is a view of one 8-bit I/O register.
// The method set matches TinyGo's *volatile.Register8, so device/avr
// registers can be handed to the firmware unchanged.
type Register8 interface {
	// Get reads the register
	Get() uint8

	// Set writes the register
	Set(value uint8)

	// SetBits performs a read-modify-write that sets the given bits
	SetBits(value uint8)

	// ClearBits performs a read-modify-write that clears the given bits
	ClearBits(value uint8)

	// HasBits reports whether any of the given bits is set
	HasBits(value uint8) bool
}

// Register16 is a view of one 16-bit timer register (OCRnx, ICRn).
// A Set must land as a single store from the timer's point of view.
type Register16 interface {
	Get() uint16
	Set(value uint16)
}

// RegisterPair is a Register16 built from the high and low byte registers
// of an AVR 16-bit timer register. The CPU reaches those through a shared
// TEMP latch: writes go high byte first, reads go low byte first.
type RegisterPair struct {
	High Register8
	Low  Register8
}

// NewRegisterPair returns a 16-bit view over an H/L register pair
func NewRegisterPair(high, low Register8) *RegisterPair {
	return &RegisterPair{High: high, Low: low}
}

// Set writes the high byte then the low byte with interrupts masked,
// so an ISR touching another 16-bit register cannot clobber TEMP.
func (r *RegisterPair) Set(value uint16) {
	state := disableInterrupts()
	r.High.Set(uint8(value >> 8))
	r.Low.Set(uint8(value))
	restoreInterrupts(state)
}

// Get reads the low byte (latching the high byte into TEMP) then the high byte
func (r *RegisterPair) Get() uint16 {
	state := disableInterrupts()
	low := r.Low.Get()
	high := r.High.Get()
	restoreInterrupts(state)
	return uint16(high)<<8 | uint16(low)
}
