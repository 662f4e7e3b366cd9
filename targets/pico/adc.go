//go:build rp2040

package main

import (
	"machine"

	"fanctl/core"
)

// picoConverter reads the RP2040 ADC and scales it to the 10-bit range the
// control loop expects
type picoConverter struct {
	channels [2]machine.ADC
}

func newPicoConverter() *picoConverter {
	machine.InitADC()

	c := &picoConverter{
		channels: [2]machine.ADC{
			{Pin: machine.ADC0}, // GP26, potentiometer
			{Pin: machine.ADC1}, // GP27, photoresistor
		},
	}
	for i := range c.channels {
		c.channels[i].Configure(machine.ADCConfig{})
	}
	return c
}

// ReadChannel returns a 0-1023 reading. Channels beyond the two wired
// inputs alias onto them, as on the AVR mux.
func (c *picoConverter) ReadChannel(ch int) uint16 {
	v := c.channels[ch&1].Get() >> 6
	if v > core.ADCMax {
		v = core.ADCMax
	}
	return v
}
