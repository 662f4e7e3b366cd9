package core

import "time"

// CPUFreq is the ATmega2560 system clock
const CPUFreq = 16000000

// ADC timing: a normal conversion takes 13 ADC clocks at F_CPU/128
const (
	ADCPrescaler        = 128
	ADCConversionClocks = 13
)

// WaveformMode is a decoded WGM setting
type WaveformMode uint8

const (
	ModeNormal WaveformMode = iota
	ModePhaseCorrect8
	ModeFastPWM8
	ModeCTC
	ModePhaseCorrectICR
	ModeFastPWMICR
	ModeUnsupported
)

func (m WaveformMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePhaseCorrect8:
		return "phase-correct 8-bit"
	case ModeFastPWM8:
		return "fast PWM 8-bit"
	case ModeCTC:
		return "CTC"
	case ModePhaseCorrectICR:
		return "phase-correct ICR top"
	case ModeFastPWMICR:
		return "fast PWM ICR top"
	default:
		return "unsupported"
	}
}

// TimerSetup is what a timer's control registers mean in physical terms
type TimerSetup struct {
	Mode        WaveformMode
	Prescaler   uint32 // 0 when the clock is stopped or external
	Top         uint32
	FrequencyHz float64
}

// prescalerFromCS decodes the CSn2..0 clock select bits
func prescalerFromCS(cs uint8) uint32 {
	switch cs & 0x07 {
	case 1:
		return 1
	case 2:
		return 8
	case 3:
		return 64
	case 4:
		return 256
	case 5:
		return 1024
	default:
		return 0
	}
}

// DecodeTimer0 interprets TCCR0A/TCCR0B
func DecodeTimer0(tccr0a, tccr0b uint8) TimerSetup {
	wgm := tccr0a&(TCCR0A_WGM01|TCCR0A_WGM00) | (tccr0b&TCCR0B_WGM02)>>1

	s := TimerSetup{Prescaler: prescalerFromCS(tccr0b), Top: 0xFF}
	switch wgm {
	case 0:
		s.Mode = ModeNormal
	case 1:
		s.Mode = ModePhaseCorrect8
	case 3:
		s.Mode = ModeFastPWM8
	default:
		s.Mode = ModeUnsupported
	}
	s.FrequencyHz = pwmFrequency(s)
	return s
}

// DecodeTimer1 interprets TCCR1A/TCCR1B; icr1 is used when the mode takes its top from ICR1
func DecodeTimer1(tccr1a, tccr1b uint8, icr1 uint16) TimerSetup {
	wgm := tccr1a&(TCCR1A_WGM11|TCCR1A_WGM10) | (tccr1b&(TCCR1B_WGM13|TCCR1B_WGM12))>>1

	s := TimerSetup{Prescaler: prescalerFromCS(tccr1b)}
	switch wgm {
	case 0:
		s.Mode, s.Top = ModeNormal, 0xFFFF
	case 1:
		s.Mode, s.Top = ModePhaseCorrect8, 0xFF
	case 5:
		s.Mode, s.Top = ModeFastPWM8, 0xFF
	case 10:
		s.Mode, s.Top = ModePhaseCorrectICR, uint32(icr1)
	case 12:
		s.Mode, s.Top = ModeCTC, uint32(icr1)
	case 14:
		s.Mode, s.Top = ModeFastPWMICR, uint32(icr1)
	default:
		s.Mode = ModeUnsupported
	}
	s.FrequencyHz = pwmFrequency(s)
	return s
}

// pwmFrequency returns the output frame rate, 0 if the timer is stopped or not in a PWM mode
func pwmFrequency(s TimerSetup) float64 {
	if s.Prescaler == 0 || s.Top == 0 {
		return 0
	}
	clk := float64(CPUFreq) / float64(s.Prescaler)
	switch s.Mode {
	case ModePhaseCorrect8, ModePhaseCorrectICR:
		// counts up then down: 2*TOP ticks per frame
		return clk / float64(2*s.Top)
	case ModeFastPWM8, ModeFastPWMICR:
		return clk / float64(s.Top+1)
	default:
		return 0
	}
}

// PulseWidthMicros converts Timer1 counts (/64 prescaler) to microseconds
func PulseWidthMicros(counts int) uint32 {
	return uint32(counts) * 64 / (CPUFreq / 1000000)
}

// ConversionTime is how long ReadChannel busy-waits on real hardware
func ConversionTime() time.Duration {
	return time.Duration(ADCConversionClocks*ADCPrescaler) * time.Second / CPUFreq
}
