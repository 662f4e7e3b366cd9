// Open-loop control: potentiometer -> fan duty cycle, light -> servo pulse
package core

import (
	"errors"
	"sync/atomic"
)

// ExitUnexpectedTermination is the process status used when the control loop returns
const ExitUnexpectedTermination = 1

// ErrLoopExited is returned by Run. On the device it means something went badly wrong.
var ErrLoopExited = errors.New("control loop exited")

// Converter performs one blocking analog conversion
type Converter interface {
	ReadChannel(ch int) uint16
}

// DutyCycleOutput accepts an 8-bit duty cycle
type DutyCycleOutput interface {
	SetDutyCycle(value int)
}

// PulseWidthOutput accepts a servo pulse width in timer counts
type PulseWidthOutput interface {
	SetPulseWidth(value int)
}

// Sample is what one loop iteration read and wrote
type Sample struct {
	RawPot   uint16
	RawLight uint16
	FanSpeed int
	ServoVal int
}

// FanSpeed maps a 10-bit reading onto the 8-bit duty range by truncating division
func FanSpeed(raw uint16) int {
	return int(raw) / 4
}

// ServoValue maps a 10-bit reading onto pulse counts, offset so a dark
// sensor still produces a valid pulse
func ServoValue(raw uint16) int {
	return int(raw)/2 + 100
}

// ControlLoop ties the converter to both outputs
type ControlLoop struct {
	adc   Converter
	motor DutyCycleOutput
	servo PulseWidthOutput

	stop       atomic.Bool
	iterations atomic.Uint32
}

// NewControlLoop builds a loop over the given converter and outputs
func NewControlLoop(adc Converter, motor DutyCycleOutput, servo PulseWidthOutput) *ControlLoop {
	return &ControlLoop{
		adc:   adc,
		motor: motor,
		servo: servo,
	}
}

// Step runs one iteration: both reads first, then both writes
func (l *ControlLoop) Step() Sample {
	var s Sample

	s.RawPot = l.adc.ReadChannel(PotChannel)
	s.FanSpeed = FanSpeed(s.RawPot)

	s.RawLight = l.adc.ReadChannel(LightChannel)
	s.ServoVal = ServoValue(s.RawLight)

	l.motor.SetDutyCycle(s.FanSpeed)
	l.servo.SetPulseWidth(s.ServoVal)

	l.iterations.Add(1)
	RecordSample(s)
	return s
}

// Run steps the loop back to back with no delay. It only returns after
// Stop, and then always with ErrLoopExited.
func (l *ControlLoop) Run() error {
	for !l.stop.Load() {
		l.Step()
	}
	return ErrLoopExited
}

// Stop makes Run return after the current iteration. Firmware never calls it.
func (l *ControlLoop) Stop() {
	l.stop.Store(true)
}

// Iterations returns how many steps have completed (wraps at 2^32)
func (l *ControlLoop) Iterations() uint32 {
	return l.iterations.Load()
}
