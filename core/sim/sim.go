// Package sim is an in-memory ATmega2560 register file for host builds.
//
// It models the parts of the chip the fan controller depends on: the ADC
// start/complete handshake with the ADCL/ADCH read latch, and the TEMP byte
// shared by the 16-bit timer registers. Everything else is plain storage.
package sim

import (
	"sync"

	"fanctl/core"
)

// Access is one register read or write, in program order
type Access struct {
	Reg   string
	Write bool
	Value uint8
}

type regKind uint8

const (
	kindPlain regKind = iota
	kindADCSRA
	kindADCL
	kindADCH
	kind16High
	kind16Low
)

// Reg8 is one simulated 8-bit register. It satisfies core.Register8.
type Reg8 struct {
	bank *Bank
	name string
	kind regKind
	v    uint8

	// for kind16High/kind16Low: the register holding the other byte
	pair *Reg8
}

// Bank holds every register plus the analog inputs feeding the ADC
type Bank struct {
	mu sync.Mutex

	ADMUX, ADCSRA, ADCL, ADCH     *Reg8
	TCCR0A, TCCR0B, TIMSK0, OCR0B *Reg8
	TCCR1A, TCCR1B, TIMSK1        *Reg8
	ICR1H, ICR1L, OCR1BH, OCR1BL  *Reg8
	SREG, DDRB, DDRG              *Reg8

	// ConversionPolls is how many ADCSRA reads a conversion takes to finish
	ConversionPolls int

	inputs  [8]uint16
	pending int
	stuck   bool

	// shared 16-bit access latch
	temp uint8
	// ADCH value frozen by the last ADCL read
	adchLatch uint8
	adcResult uint16

	conversions int
	trace       []Access
	tracing     bool

	periph *core.Peripherals
}

// NewBank returns a bank with all registers at their reset value of zero
func NewBank() *Bank {
	b := &Bank{ConversionPolls: 1}
	r := func(name string, k regKind) *Reg8 {
		return &Reg8{bank: b, name: name, kind: k}
	}

	b.ADMUX = r("ADMUX", kindPlain)
	b.ADCSRA = r("ADCSRA", kindADCSRA)
	b.ADCL = r("ADCL", kindADCL)
	b.ADCH = r("ADCH", kindADCH)

	b.TCCR0A = r("TCCR0A", kindPlain)
	b.TCCR0B = r("TCCR0B", kindPlain)
	b.TIMSK0 = r("TIMSK0", kindPlain)
	b.OCR0B = r("OCR0B", kindPlain)

	b.TCCR1A = r("TCCR1A", kindPlain)
	b.TCCR1B = r("TCCR1B", kindPlain)
	b.TIMSK1 = r("TIMSK1", kindPlain)
	b.ICR1H = r("ICR1H", kind16High)
	b.ICR1L = r("ICR1L", kind16Low)
	b.ICR1H.pair, b.ICR1L.pair = b.ICR1L, b.ICR1H
	b.OCR1BH = r("OCR1BH", kind16High)
	b.OCR1BL = r("OCR1BL", kind16Low)
	b.OCR1BH.pair, b.OCR1BL.pair = b.OCR1BL, b.OCR1BH

	b.SREG = r("SREG", kindPlain)
	b.DDRB = r("DDRB", kindPlain)
	b.DDRG = r("DDRG", kindPlain)

	b.periph = &core.Peripherals{
		ADMUX:  b.ADMUX,
		ADCSRA: b.ADCSRA,
		ADCL:   b.ADCL,
		ADCH:   b.ADCH,
		TCCR0A: b.TCCR0A,
		TCCR0B: b.TCCR0B,
		TIMSK0: b.TIMSK0,
		OCR0B:  b.OCR0B,
		TCCR1A: b.TCCR1A,
		TCCR1B: b.TCCR1B,
		TIMSK1: b.TIMSK1,
		ICR1:   core.NewRegisterPair(b.ICR1H, b.ICR1L),
		OCR1B:  core.NewRegisterPair(b.OCR1BH, b.OCR1BL),
		SREG:   b.SREG,
		DDRB:   b.DDRB,
		DDRG:   b.DDRG,
	}
	return b
}

// Peripherals returns the handle drivers should be built on.
// The same handle is returned on every call.
func (b *Bank) Peripherals() *core.Peripherals {
	return b.periph
}

// SetInput sets the analog level on channel ch; only 10 bits are kept
func (b *Bank) SetInput(ch int, value uint16) {
	b.mu.Lock()
	b.inputs[ch&7] = value & core.ADCMax
	b.mu.Unlock()
}

// Input returns the analog level on channel ch
func (b *Bank) Input(ch int) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inputs[ch&7]
}

// Stick makes every conversion hang with ADSC set until Release
func (b *Bank) Stick() {
	b.mu.Lock()
	b.stuck = true
	b.mu.Unlock()
}

// Release lets a stuck conversion complete on the next poll
func (b *Bank) Release() {
	b.mu.Lock()
	b.stuck = false
	b.mu.Unlock()
}

// Conversions returns how many ADC conversions have completed
func (b *Bank) Conversions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversions
}

// StartTrace begins recording register accesses, dropping any earlier trace
func (b *Bank) StartTrace() {
	b.mu.Lock()
	b.trace = b.trace[:0]
	b.tracing = true
	b.mu.Unlock()
}

// Trace stops recording and returns what was captured, then forgets it
func (b *Bank) Trace() []Access {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tracing = false
	out := make([]Access, len(b.trace))
	copy(out, b.trace)
	b.trace = b.trace[:0]
	return out
}

// record must be called with mu held
func (b *Bank) record(r *Reg8, write bool, v uint8) {
	if b.tracing {
		b.trace = append(b.trace, Access{Reg: r.name, Write: write, Value: v})
	}
}

// startConversion must be called with mu held
func (b *Bank) startConversion() {
	b.pending = b.ConversionPolls
	if b.pending < 1 {
		b.pending = 1
	}
	b.adcResult = b.inputs[b.ADMUX.v&core.ADMUX_MUX_Msk]
}

// pollConversion advances an in-flight conversion; mu held
func (b *Bank) pollConversion() {
	if b.ADCSRA.v&core.ADCSRA_ADSC == 0 || b.stuck {
		return
	}
	b.pending--
	if b.pending > 0 {
		return
	}

	result := b.adcResult
	if b.ADMUX.v&core.ADMUX_ADLAR != 0 {
		result <<= 6
	}
	b.ADCL.v = uint8(result)
	b.ADCH.v = uint8(result >> 8)
	b.ADCSRA.v = (b.ADCSRA.v &^ core.ADCSRA_ADSC) | core.ADCSRA_ADIF
	b.conversions++
}

// Name returns the register's datasheet name
func (r *Reg8) Name() string {
	return r.name
}

// Get reads the register
func (r *Reg8) Get() uint8 {
	b := r.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	return r.read()
}

// Set writes the register
func (r *Reg8) Set(value uint8) {
	b := r.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	r.write(value)
}

// SetBits sets the given bits with a read-modify-write
func (r *Reg8) SetBits(value uint8) {
	b := r.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	r.write(r.read() | value)
}

// ClearBits clears the given bits with a read-modify-write
func (r *Reg8) ClearBits(value uint8) {
	b := r.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	r.write(r.read() &^ value)
}

// HasBits reports whether any of the given bits is set
func (r *Reg8) HasBits(value uint8) bool {
	b := r.bank
	b.mu.Lock()
	defer b.mu.Unlock()
	return r.read()&value != 0
}

// read must be called with mu held
func (r *Reg8) read() uint8 {
	b := r.bank
	var v uint8
	switch r.kind {
	case kindADCSRA:
		b.pollConversion()
		v = r.v
	case kindADCL:
		v = r.v
		b.adchLatch = b.ADCH.v
	case kindADCH:
		v = b.adchLatch
	case kind16Low:
		v = r.v
		b.temp = r.pair.v
	case kind16High:
		v = b.temp
	default:
		v = r.v
	}
	b.record(r, false, v)
	return v
}

// write must be called with mu held
func (r *Reg8) write(value uint8) {
	b := r.bank
	b.record(r, true, value)
	switch r.kind {
	case kindADCSRA:
		starting := value&core.ADCSRA_ADSC != 0 && r.v&core.ADCSRA_ADSC == 0
		// ADIF is cleared by writing one to it
		flags := r.v & core.ADCSRA_ADIF
		if value&core.ADCSRA_ADIF != 0 {
			flags = 0
		}
		r.v = (value &^ core.ADCSRA_ADIF) | flags
		if value&core.ADCSRA_ADEN == 0 {
			r.v &^= core.ADCSRA_ADSC
		} else if starting {
			b.startConversion()
		}
	case kindADCL, kindADCH:
		// read only
	case kind16High:
		b.temp = value
	case kind16Low:
		r.v = value
		r.pair.v = b.temp
	default:
		r.v = value
	}
}
