// Fan motor output on Timer0 / OC0B
package core

// MotorDriver runs Timer0 in 8-bit phase-correct PWM and owns OCR0B
type MotorDriver struct {
	p *Peripherals
}

// NewMotorDriver returns a driver bound to the Timer0 registers of p
func NewMotorDriver(p *Peripherals) *MotorDriver {
	return &MotorDriver{p: p}
}

// Init configures phase-correct 8-bit PWM (WGM00), non-inverted OC0B
// (COM0B1) and a /256 prescaler, then starts with the motor off.
//
// It also sets the global interrupt flag and the OC0B compare interrupt.
// Nothing handles that interrupt.
func (m *MotorDriver) Init() {
	m.p.TCCR0A.SetBits(TCCR0A_WGM00)
	m.p.TCCR0A.SetBits(TCCR0A_COM0B1)
	m.p.TCCR0B.SetBits(TCCR0B_CS02)

	m.p.SREG.SetBits(SREG_I)

	m.p.TIMSK0.SetBits(TIMSK0_OCIE0B)
	m.p.OCR0B.Set(0)
}

// SetDutyCycle stores value in OCR0B. There is no clamping: the value is
// truncated to the register width, so 300 becomes 44. Callers scale first.
func (m *MotorDriver) SetDutyCycle(value int) {
	m.p.OCR0B.Set(uint8(value))
}

// DutyCycle returns the compare value currently loaded
func (m *MotorDriver) DutyCycle() uint8 {
	return m.p.OCR0B.Get()
}
