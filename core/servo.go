// Servo output on Timer1 / OC1B
package core

// Servo timing at 16 MHz with a /64 prescaler: one count is 4us
const (
	ServoTop = 5000 // ICR1, gives a 50 Hz frame

	ServoMinPulse = 100 // counts at 0 percent travel
	ServoMaxPulse = 725 // counts at 100 percent travel
)

// ServoDriver runs Timer1 in fast PWM with ICR1 as top and owns OCR1B
type ServoDriver struct {
	p *Peripherals
}

// NewServoDriver returns a driver bound to the Timer1 registers of p
func NewServoDriver(p *Peripherals) *ServoDriver {
	return &ServoDriver{p: p}
}

// Init configures mode 14 (fast PWM, TOP=ICR1), non-inverted OC1A and OC1B,
// a /64 prescaler and ICR1=5000, then starts with a zero-width pulse.
// As with Timer0 it sets the global interrupt flag and the OC1B compare
// interrupt.
func (s *ServoDriver) Init() {
	s.p.TCCR1A.SetBits(TCCR1A_COM1A1 | TCCR1A_COM1B1 | TCCR1A_WGM11)
	s.p.TCCR1B.SetBits(TCCR1B_WGM13 | TCCR1B_WGM12 | TCCR1B_CS11 | TCCR1B_CS10)

	s.p.ICR1.Set(ServoTop)

	s.p.SREG.SetBits(SREG_I)

	s.p.TIMSK1.SetBits(TIMSK1_OCIE1B)
	s.p.OCR1B.Set(0)
}

// SetPulseWidth stores value (in timer counts) in OCR1B. The useful range is
// roughly 100-725; nothing here enforces it.
func (s *ServoDriver) SetPulseWidth(value int) {
	s.p.OCR1B.Set(uint16(value))
}

// SetAngle maps 0-100 percent of travel onto 100-725 counts and writes it.
// Out of range input is passed through unclamped.
func (s *ServoDriver) SetAngle(percent int) {
	s.SetPulseWidth(AnglePulseWidth(percent))
}

// PulseWidth returns the compare value currently loaded
func (s *ServoDriver) PulseWidth() uint16 {
	return s.p.OCR1B.Get()
}

// AnglePulseWidth is the pulse width SetAngle writes for percent
func AnglePulseWidth(percent int) int {
	return (ServoMaxPulse-ServoMinPulse)*percent/100 + ServoMinPulse
}
