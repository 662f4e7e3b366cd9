//go:build rp2040

// Raspberry Pi Pico build of the fan/servo controller. Same control loop,
// RP2040 peripherals underneath.
package main

import (
	"machine"
	"os"

	"fanctl/core"
)

const (
	fanPin   = machine.GP4  // PWM2 A
	servoPin = machine.GP15 // PWM7 B
)

func main() {
	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	adc := newPicoConverter()

	fan, err := newFanOutput(machine.PWM2, fanPin)
	if err != nil {
		panic(err.Error())
	}
	fan.SetDutyCycle(0)

	srv, err := newServoOutput(machine.PWM7, servoPin)
	if err != nil {
		panic(err.Error())
	}

	core.DebugPrintln("[BOARD] pico init done")
	core.SetDebugEnabled(false)

	loop := core.NewControlLoop(adc, fan, srv)
	err = loop.Run()

	println("fatal: " + err.Error())
	core.DumpSampleRing()
	os.Exit(core.ExitUnexpectedTermination)
}
