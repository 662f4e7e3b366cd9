//go:build atmega2560

// Firmware for an Arduino Mega 2560: potentiometer on A0 sets the fan speed
// on D4, photoresistor on A1 positions the servo on D12.
package main

import (
	"device/avr"
	"os"

	"fanctl/core"
)

func peripherals() *core.Peripherals {
	return &core.Peripherals{
		ADMUX:  avr.ADMUX,
		ADCSRA: avr.ADCSRA,
		ADCL:   avr.ADCL,
		ADCH:   avr.ADCH,

		TCCR0A: avr.TCCR0A,
		TCCR0B: avr.TCCR0B,
		TIMSK0: avr.TIMSK0,
		OCR0B:  avr.OCR0B,

		TCCR1A: avr.TCCR1A,
		TCCR1B: avr.TCCR1B,
		TIMSK1: avr.TIMSK1,
		ICR1:   core.NewRegisterPair(avr.ICR1H, avr.ICR1L),
		OCR1B:  core.NewRegisterPair(avr.OCR1BH, avr.OCR1BL),

		SREG: avr.SREG,
		DDRB: avr.DDRB,
		DDRG: avr.DDRG,
	}
}

func main() {
	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	board := core.NewBoard(peripherals())
	board.Init()
	board.DumpRegisters()

	// Quiet from here on; the loop runs flat out
	core.SetDebugEnabled(false)

	err := board.Run()

	println("fatal: " + err.Error())
	core.DumpSampleRing()
	os.Exit(core.ExitUnexpectedTermination)
}
