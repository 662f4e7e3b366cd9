//go:build rp2040

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/servo"

	"fanctl/core"
)

// fanPeriod approximates the AVR phase-correct carrier (about 122.5 Hz)
const fanPeriod = 8163265 // ns

// pwmPeripheral abstracts over TinyGo's unexported PWM group type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// fanOutput maps the 8-bit duty cycle onto a PWM slice
type fanOutput struct {
	pwm     pwmPeripheral
	channel uint8
}

func newFanOutput(pwm pwmPeripheral, pin machine.Pin) (*fanOutput, error) {
	if err := pwm.Configure(machine.PWMConfig{Period: fanPeriod}); err != nil {
		return nil, errors.New("error configuring fan pwm: " + err.Error())
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, errors.New("error getting fan channel: " + err.Error())
	}
	return &fanOutput{pwm: pwm, channel: ch}, nil
}

// SetDutyCycle truncates to 8 bits like OCR0B, then scales to the slice top
func (f *fanOutput) SetDutyCycle(value int) {
	duty := uint32(uint8(value))
	f.pwm.Set(f.channel, duty*f.pwm.Top()/255)
}

// servoOutput takes pulse widths in Timer1 counts (4us each)
type servoOutput struct {
	s servo.Servo
}

func newServoOutput(pwm servo.PWM, pin machine.Pin) (*servoOutput, error) {
	s, err := servo.New(pwm, pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}
	return &servoOutput{s: s}, nil
}

func (o *servoOutput) SetPulseWidth(value int) {
	us := core.PulseWidthMicros(int(uint16(value)))
	if us > 0x7FFF {
		us = 0x7FFF
	}
	o.s.SetMicroseconds(int16(us))
}
