package core

// Peripherals is the single handle to every ATmega2560 register the firmware
// touches. The target fills it from device/avr; tests fill it from core/sim.
// Drivers keep a pointer to it rather than reaching for globals.
type Peripherals struct {
	// Analog to digital converter
	ADMUX  Register8
	ADCSRA Register8
	ADCL   Register8
	ADCH   Register8

	// Timer0, 8-bit (fan motor on OC0B)
	TCCR0A Register8
	TCCR0B Register8
	TIMSK0 Register8
	OCR0B  Register8

	// Timer1, 16-bit (servo on OC1B)
	TCCR1A Register8
	TCCR1B Register8
	TIMSK1 Register8
	ICR1   Register16
	OCR1B  Register16

	// Status register (global interrupt flag)
	SREG Register8

	// Data direction for the two PWM pins
	DDRB Register8
	DDRG Register8
}

// ADMUX bits
const (
	ADMUX_REFS1 = 1 << 7
	ADMUX_REFS0 = 1 << 6
	ADMUX_ADLAR = 1 << 5

	// ADMUX_MUX_Msk covers the channel selection the reader uses (MUX2..0)
	ADMUX_MUX_Msk = 0x07
)

// ADCSRA bits
const (
	ADCSRA_ADEN  = 1 << 7
	ADCSRA_ADSC  = 1 << 6
	ADCSRA_ADATE = 1 << 5
	ADCSRA_ADIF  = 1 << 4
	ADCSRA_ADIE  = 1 << 3
	ADCSRA_ADPS2 = 1 << 2
	ADCSRA_ADPS1 = 1 << 1
	ADCSRA_ADPS0 = 1 << 0
)

// Timer0 bits
const (
	TCCR0A_COM0A1 = 1 << 7
	TCCR0A_COM0A0 = 1 << 6
	TCCR0A_COM0B1 = 1 << 5
	TCCR0A_COM0B0 = 1 << 4
	TCCR0A_WGM01  = 1 << 1
	TCCR0A_WGM00  = 1 << 0

	TCCR0B_WGM02 = 1 << 3
	TCCR0B_CS02  = 1 << 2
	TCCR0B_CS01  = 1 << 1
	TCCR0B_CS00  = 1 << 0

	TIMSK0_OCIE0B = 1 << 2
	TIMSK0_OCIE0A = 1 << 1
	TIMSK0_TOIE0  = 1 << 0
)

// Timer1 bits
const (
	TCCR1A_COM1A1 = 1 << 7
	TCCR1A_COM1A0 = 1 << 6
	TCCR1A_COM1B1 = 1 << 5
	TCCR1A_COM1B0 = 1 << 4
	TCCR1A_WGM11  = 1 << 1
	TCCR1A_WGM10  = 1 << 0

	TCCR1B_WGM13 = 1 << 4
	TCCR1B_WGM12 = 1 << 3
	TCCR1B_CS12  = 1 << 2
	TCCR1B_CS11  = 1 << 1
	TCCR1B_CS10  = 1 << 0

	TIMSK1_ICIE1  = 1 << 5
	TIMSK1_OCIE1B = 1 << 2
	TIMSK1_OCIE1A = 1 << 1
	TIMSK1_TOIE1  = 1 << 0
)

// SREG_I is the global interrupt enable flag
const SREG_I = 1 << 7

// Output pins: OC0B is PG5 (board D4), OC1B is PB6 (board D12)
const (
	DDRG_OC0B = 1 << 5
	DDRB_OC1B = 1 << 6
)

// Fixed sensor wiring
const (
	PotChannel   = 0 // potentiometer wiper on ADC0 (PF0, A0)
	LightChannel = 1 // photoresistor divider midpoint on ADC1 (PF1, A1)
)
