package core_test

import (
	"errors"
	"testing"
	"time"

	"fanctl/core"
	"fanctl/core/sim"
)

func newBoard(t *testing.T) (*sim.Bank, *core.Board) {
	t.Helper()
	bank := sim.NewBank()
	b := core.NewBoard(bank.Peripherals())
	b.Init()
	return bank, b
}

func TestFanSpeedMapping(t *testing.T) {
	for raw := uint16(0); raw <= core.ADCMax; raw++ {
		got := core.FanSpeed(raw)
		if got < 0 || got > 255 {
			t.Fatalf("FanSpeed(%d) = %d out of range", raw, got)
		}
		if raw > 0 && got < core.FanSpeed(raw-1) {
			t.Fatalf("FanSpeed not monotonic at %d", raw)
		}
	}
	if core.FanSpeed(0) != 0 || core.FanSpeed(1023) != 255 || core.FanSpeed(3) != 0 || core.FanSpeed(4) != 1 {
		t.Error("FanSpeed endpoints wrong")
	}
}

func TestServoValueMapping(t *testing.T) {
	for raw := uint16(0); raw <= core.ADCMax; raw++ {
		got := core.ServoValue(raw)
		if got < 100 || got > 611 {
			t.Fatalf("ServoValue(%d) = %d out of range", raw, got)
		}
	}
	tests := []struct {
		raw  uint16
		want int
	}{
		{0, 100},
		{1, 100},
		{2, 101},
		{512, 356},
		{1023, 611},
	}
	for _, tc := range tests {
		if got := core.ServoValue(tc.raw); got != tc.want {
			t.Errorf("ServoValue(%d) = %d, expected %d", tc.raw, got, tc.want)
		}
	}
}

func TestControlLoopStep(t *testing.T) {
	bank, b := newBoard(t)

	tests := []struct {
		name      string
		pot       uint16
		light     uint16
		wantDuty  uint8
		wantPulse uint16
	}{
		{"pot low, bright", 0, 1023, 0, 611},
		{"pot high, dark", 1023, 0, 255, 100},
		{"midpoints", 512, 512, 128, 356},
		{"small values", 3, 1, 0, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bank.SetInput(core.PotChannel, tc.pot)
			bank.SetInput(core.LightChannel, tc.light)

			s := b.Loop.Step()
			if s.RawPot != tc.pot || s.RawLight != tc.light {
				t.Errorf("Sample read pot=%d light=%d", s.RawPot, s.RawLight)
			}
			if got := bank.OCR0B.Get(); got != tc.wantDuty {
				t.Errorf("OCR0B = %d, expected %d", got, tc.wantDuty)
			}
			if got := bank.Peripherals().OCR1B.Get(); got != tc.wantPulse {
				t.Errorf("OCR1B = %d, expected %d", got, tc.wantPulse)
			}
		})
	}
}

func TestControlLoopReadsBeforeWrites(t *testing.T) {
	bank, b := newBoard(t)

	bank.StartTrace()
	b.Loop.Step()
	trace := bank.Trace()

	lastADC, firstOut := -1, len(trace)
	for i, a := range trace {
		switch a.Reg {
		case "ADCH":
			lastADC = i
		case "OCR0B", "OCR1BH", "OCR1BL":
			if a.Write && i < firstOut {
				firstOut = i
			}
		}
	}
	if lastADC < 0 || firstOut == len(trace) {
		t.Fatalf("Incomplete trace: %v", trace)
	}
	if firstOut < lastADC {
		t.Errorf("Output written before both channels were read: %v", trace)
	}
}

func TestControlLoopRunStop(t *testing.T) {
	bank, b := newBoard(t)
	bank.SetInput(core.PotChannel, 400)

	errc := make(chan error, 1)
	go func() {
		errc <- b.Run()
	}()

	deadline := time.Now().Add(time.Second)
	for b.Loop.Iterations() < 10 {
		if time.Now().After(deadline) {
			t.Fatal("Loop did not make progress")
		}
		time.Sleep(time.Millisecond)
	}
	b.Loop.Stop()

	select {
	case err := <-errc:
		if !errors.Is(err, core.ErrLoopExited) {
			t.Errorf("Expected ErrLoopExited, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if got := bank.OCR0B.Get(); got != 100 {
		t.Errorf("Expected duty 100 from pot 400, got %d", got)
	}
}

func TestControlLoopFollowsInputChanges(t *testing.T) {
	bank, b := newBoard(t)

	bank.SetInput(core.PotChannel, 800)
	b.Loop.Step()
	if got := bank.OCR0B.Get(); got != 200 {
		t.Errorf("Expected 200, got %d", got)
	}

	bank.SetInput(core.PotChannel, 40)
	b.Loop.Step()
	if got := bank.OCR0B.Get(); got != 10 {
		t.Errorf("Expected 10 on the next iteration, got %d", got)
	}
	if b.Loop.Iterations() != 2 {
		t.Errorf("Expected 2 iterations, got %d", b.Loop.Iterations())
	}
}

type fakeConverter struct {
	values map[int]uint16
	reads  []int
}

func (f *fakeConverter) ReadChannel(ch int) uint16 {
	f.reads = append(f.reads, ch)
	return f.values[ch]
}

type recorder struct {
	last int
}

func (r *recorder) SetDutyCycle(v int)  { r.last = v }
func (r *recorder) SetPulseWidth(v int) { r.last = v }

func TestControlLoopWithFakes(t *testing.T) {
	adc := &fakeConverter{values: map[int]uint16{0: 1000, 1: 300}}
	fan, servo := &recorder{}, &recorder{}
	loop := core.NewControlLoop(adc, fan, servo)

	loop.Step()

	if len(adc.reads) != 2 || adc.reads[0] != core.PotChannel || adc.reads[1] != core.LightChannel {
		t.Errorf("Expected reads [0 1], got %v", adc.reads)
	}
	if fan.last != 250 {
		t.Errorf("Expected fan 250, got %d", fan.last)
	}
	if servo.last != 250 {
		t.Errorf("Expected servo 250, got %d", servo.last)
	}
}

func TestBoardInitConfiguresPins(t *testing.T) {
	bank, _ := newBoard(t)
	if !bank.DDRG.HasBits(core.DDRG_OC0B) {
		t.Error("Expected PG5 as output")
	}
	if !bank.DDRB.HasBits(core.DDRB_OC1B) {
		t.Error("Expected PB6 as output")
	}
	if !bank.ADCSRA.HasBits(core.ADCSRA_ADEN) {
		t.Error("Expected ADC enabled")
	}
}
