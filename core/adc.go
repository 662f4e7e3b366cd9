// ADC (Analog to Digital Converter) support
// Single-conversion reads of the ATmega2560 successive-approximation ADC
package core

// ADCMax is the largest value a 10-bit conversion can produce
const ADCMax = 1023

// AnalogReader drives the on-chip ADC through the peripheral handle
type AnalogReader struct {
	p *Peripherals
}

// NewAnalogReader returns a reader bound to the converter registers of p.
// It does not touch the hardware until Init.
func NewAnalogReader(p *Peripherals) *AnalogReader {
	return &AnalogReader{p: p}
}

// Init selects AVcc as reference, sets the ADC clock to F_CPU/128 and
// enables the converter. Both registers are written outright, so calling
// it again leaves the same state.
func (a *AnalogReader) Init() {
	a.p.ADMUX.Set(ADMUX_REFS0)
	a.p.ADCSRA.Set(ADCSRA_ADEN | ADCSRA_ADPS2 | ADCSRA_ADPS1 | ADCSRA_ADPS0)
}

// ReadChannel converts one sample from the given input and returns it (0-1023).
//
// Only the low three bits of ch are used: 8 reads channel 0, 255 reads
// channel 7. The reference bits in ADMUX are kept.
//
// The call busy-waits on ADSC and has no timeout. A converter that never
// finishes hangs the caller.
func (a *AnalogReader) ReadChannel(ch int) uint16 {
	mux := uint8(ch) & ADMUX_MUX_Msk
	a.p.ADMUX.Set((a.p.ADMUX.Get() & 0xF8) | mux)

	a.p.ADCSRA.SetBits(ADCSRA_ADSC)
	for a.p.ADCSRA.HasBits(ADCSRA_ADSC) {
	}

	// ADCL must be read first: it freezes ADCH until ADCH is read
	low := uint16(a.p.ADCL.Get())
	high := uint16(a.p.ADCH.Get())
	return low | high<<8
}
