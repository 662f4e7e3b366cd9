package core

// Board is the fan/servo controller assembled on one peripheral handle
type Board struct {
	p *Peripherals

	ADC   *AnalogReader
	Motor *MotorDriver
	Servo *ServoDriver
	Loop  *ControlLoop
}

// NewBoard wires the drivers and the control loop to p
func NewBoard(p *Peripherals) *Board {
	b := &Board{
		p:     p,
		ADC:   NewAnalogReader(p),
		Motor: NewMotorDriver(p),
		Servo: NewServoDriver(p),
	}
	b.Loop = NewControlLoop(b.ADC, b.Motor, b.Servo)
	return b
}

// Init brings the hardware up: PWM pins as outputs,
// Timer0, Timer1, then the ADC
func (b *Board) Init() {
	b.p.DDRG.SetBits(DDRG_OC0B)
	b.p.DDRB.SetBits(DDRB_OC1B)

	b.Motor.Init()
	b.Servo.Init()
	b.ADC.Init()

	DebugPrintln("[BOARD] init done, servo top=" + utoa(ServoTop))
}

// Run hands control to the loop. See ControlLoop.Run.
func (b *Board) Run() error {
	return b.Loop.Run()
}

// Peripherals returns the handle the board was built on
func (b *Board) Peripherals() *Peripherals {
	return b.p
}

// DumpRegisters prints the timer and ADC configuration through the debug writer
func (b *Board) DumpRegisters() {
	p := b.p
	DebugPrintln("[REGS] ADMUX=" + hex8(p.ADMUX.Get()) + " ADCSRA=" + hex8(p.ADCSRA.Get()))
	DebugPrintln("[REGS] TCCR0A=" + hex8(p.TCCR0A.Get()) + " TCCR0B=" + hex8(p.TCCR0B.Get()) +
		" OCR0B=" + hex8(p.OCR0B.Get()))
	DebugPrintln("[REGS] TCCR1A=" + hex8(p.TCCR1A.Get()) + " TCCR1B=" + hex8(p.TCCR1B.Get()) +
		" ICR1=" + utoa(uint32(p.ICR1.Get())) + " OCR1B=" + utoa(uint32(p.OCR1B.Get())))
}
