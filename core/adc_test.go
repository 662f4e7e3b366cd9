package core_test

import (
	"testing"
	"time"

	"fanctl/core"
	"fanctl/core/sim"
)

func newReader(t *testing.T) (*sim.Bank, *core.AnalogReader) {
	t.Helper()
	bank := sim.NewBank()
	adc := core.NewAnalogReader(bank.Peripherals())
	adc.Init()
	return bank, adc
}

func TestAnalogReaderInit(t *testing.T) {
	bank, _ := newReader(t)

	if got := bank.ADMUX.Get(); got != core.ADMUX_REFS0 {
		t.Errorf("Expected ADMUX 0x40, got 0x%02X", got)
	}
	want := uint8(core.ADCSRA_ADEN | core.ADCSRA_ADPS2 | core.ADCSRA_ADPS1 | core.ADCSRA_ADPS0)
	if got := bank.ADCSRA.Get(); got != want {
		t.Errorf("Expected ADCSRA 0x%02X, got 0x%02X", want, got)
	}
}

func TestAnalogReaderReadChannel(t *testing.T) {
	bank, adc := newReader(t)

	tests := []struct {
		name  string
		ch    int
		input uint16
	}{
		{"pot zero", 0, 0},
		{"pot full", 0, 1023},
		{"light mid", 1, 512},
		{"channel 7", 7, 321},
		{"low byte only", 3, 0xFF},
		{"high bits only", 2, 0x300},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bank.SetInput(tc.ch, tc.input)
			if got := adc.ReadChannel(tc.ch); got != tc.input {
				t.Errorf("ReadChannel(%d) = %d, expected %d", tc.ch, got, tc.input)
			}
		})
	}
}

func TestAnalogReaderChannelAliasing(t *testing.T) {
	bank, adc := newReader(t)
	for ch := 0; ch < 8; ch++ {
		bank.SetInput(ch, uint16(100+ch))
	}

	tests := []struct {
		ch   int
		want uint16
	}{
		{8, 100},
		{9, 101},
		{255, 107},
		{-1, 107},
	}
	for _, tc := range tests {
		if got := adc.ReadChannel(tc.ch); got != tc.want {
			t.Errorf("ReadChannel(%d) = %d, expected %d", tc.ch, got, tc.want)
		}
	}
}

func TestAnalogReaderKeepsReference(t *testing.T) {
	bank, adc := newReader(t)
	adc.ReadChannel(5)

	got := bank.ADMUX.Get()
	if got&(core.ADMUX_REFS1|core.ADMUX_REFS0) != core.ADMUX_REFS0 {
		t.Errorf("Reference bits changed: ADMUX=0x%02X", got)
	}
	if got&core.ADMUX_MUX_Msk != 5 {
		t.Errorf("Expected MUX=5, got %d", got&core.ADMUX_MUX_Msk)
	}
}

func TestAnalogReaderReadOrder(t *testing.T) {
	bank, adc := newReader(t)
	bank.SetInput(1, 600)

	bank.StartTrace()
	adc.ReadChannel(1)
	trace := bank.Trace()

	lastPoll, adcl, adch := -1, -1, -1
	for i, a := range trace {
		switch {
		case a.Reg == "ADCSRA" && !a.Write:
			lastPoll = i
		case a.Reg == "ADCL" && !a.Write:
			adcl = i
		case a.Reg == "ADCH" && !a.Write:
			adch = i
		}
	}
	if adcl < 0 || adch < 0 {
		t.Fatalf("Result registers not read: %v", trace)
	}
	if adcl > adch {
		t.Errorf("ADCH read before ADCL: %v", trace)
	}
	if lastPoll > adcl {
		t.Errorf("Result read before ADSC cleared: %v", trace)
	}
}

func TestAnalogReaderSlowConversion(t *testing.T) {
	bank, adc := newReader(t)
	bank.ConversionPolls = 50
	bank.SetInput(0, 42)

	if got := adc.ReadChannel(0); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
}

func TestAnalogReaderBlocksUntilConversionCompletes(t *testing.T) {
	bank, adc := newReader(t)
	bank.SetInput(1, 777)
	bank.Stick()

	done := make(chan uint16, 1)
	go func() {
		done <- adc.ReadChannel(1)
	}()

	select {
	case v := <-done:
		t.Fatalf("ReadChannel returned %d while the conversion was stuck", v)
	case <-time.After(20 * time.Millisecond):
	}

	bank.Release()
	select {
	case v := <-done:
		if v != 777 {
			t.Errorf("Expected 777 after release, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadChannel did not return after release")
	}
}
