// Package bench runs the fan controller firmware against a simulated register bank.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"fanctl/core"
	"fanctl/core/sim"
	"fanctl/protocol"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad arguments")
	ErrOutOfRange     = errors.New("value out of range")
	ErrNoLink         = errors.New("no serial link attached")

	// ErrQuit is returned by Exec for the quit command
	ErrQuit = errors.New("quit")
)

// Bench owns a simulated board and executes text commands against it
type Bench struct {
	bank  *sim.Bank
	board *core.Board
	out   io.Writer
	link  *Link
	last  core.Sample
}

// New brings up a board on a fresh register bank. Results are printed to out.
func New(out io.Writer) *Bench {
	bank := sim.NewBank()
	board := core.NewBoard(bank.Peripherals())
	board.Init()

	return &Bench{
		bank:  bank,
		board: board,
		out:   out,
	}
}

// Attach sets the serial link used by the stream command
func (b *Bench) Attach(l *Link) {
	b.link = l
}

// Bank returns the simulated register bank
func (b *Bench) Bank() *sim.Bank {
	return b.bank
}

// Board returns the board under test
func (b *Bench) Board() *core.Board {
	return b.board
}

// Last returns the sample from the most recent loop iteration
func (b *Bench) Last() core.Sample {
	return b.last
}

// Repl reads commands from in until EOF or quit. Command errors are printed
// and do not stop the loop.
func (b *Bench) Repl(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			break
		}
		err := b.Exec(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(b.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Exec runs one command line
func (b *Bench) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(args) == 0 {
		return nil
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "quit", "exit", "q":
		return ErrQuit

	case "help", "?":
		b.printHelp()
		return nil

	case "pot":
		return b.setInput(core.PotChannel, args)

	case "light":
		return b.setInput(core.LightChannel, args)

	case "set":
		if len(args) != 2 {
			return fmt.Errorf("%w: set <channel> <value>", ErrUsage)
		}
		ch, err := parseInt(args[0], 0, 7)
		if err != nil {
			return err
		}
		return b.setInput(ch, args[1:])

	case "step":
		n := 1
		if len(args) > 0 {
			if n, err = parseInt(args[0], 1, 1000000); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			b.step()
		}
		b.printSample(b.last)
		return nil

	case "angle":
		if len(args) != 1 {
			return fmt.Errorf("%w: angle <0-100>", ErrUsage)
		}
		pct, err := parseInt(args[0], 0, 100)
		if err != nil {
			return err
		}
		b.board.Servo.SetAngle(pct)
		pw := int(b.board.Servo.PulseWidth())
		fmt.Fprintf(b.out, "servo=%d (%dus)\n", pw, core.PulseWidthMicros(pw))
		return nil

	case "regs":
		b.printRegisters()
		return nil

	case "run":
		if len(args) != 1 {
			return fmt.Errorf("%w: run <scenario.yaml>", ErrUsage)
		}
		return b.runFile(args[0])

	case "stream":
		n := 0
		if len(args) > 0 {
			if n, err = parseInt(args[0], 1, 1000000); err != nil {
				return err
			}
		}
		return b.Stream(n)

	default:
		return fmt.Errorf("%w: %s (type 'help' for available commands)", ErrUnknownCommand, cmd)
	}
}

// Apply feeds one received frame to the converter inputs and runs an iteration
func (b *Bench) Apply(f protocol.SampleFrame) core.Sample {
	b.bank.SetInput(core.PotChannel, f.Pot)
	b.bank.SetInput(core.LightChannel, f.Light)
	return b.step()
}

// Stream applies frames from the attached link. n <= 0 means until the
// link runs dry or fails.
func (b *Bench) Stream(n int) error {
	if b.link == nil {
		return ErrNoLink
	}

	count := 0
	for n <= 0 || count < n {
		f, err := b.link.Next()
		if errors.Is(err, io.EOF) || errors.Is(err, ErrNoData) {
			break
		}
		if err != nil {
			return fmt.Errorf("stream stopped after %d frames: %w", count, err)
		}
		s := b.Apply(f)
		fmt.Fprintf(b.out, "#%d ", f.Seq)
		b.printSample(s)
		count++
	}
	fmt.Fprintf(b.out, "%d frames applied, %d dropped\n", count, b.link.Dropped())
	return nil
}

// RunFile loads a scenario file, runs it and prints the outcome.
// A scenario with mismatches is reported as an error.
func (b *Bench) RunFile(path string) error {
	return b.runFile(path)
}

func (b *Bench) runFile(path string) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}

	res := b.RunScenario(sc)
	for _, m := range res.Mismatches {
		fmt.Fprintf(b.out, "  FAIL %s\n", m)
	}
	fmt.Fprintf(b.out, "scenario %q: %d steps, %d mismatches\n", res.Name, res.Steps, len(res.Mismatches))
	if !res.OK() {
		return fmt.Errorf("scenario %q failed", res.Name)
	}
	return nil
}

func (b *Bench) step() core.Sample {
	b.last = b.board.Loop.Step()
	return b.last
}

func (b *Bench) setInput(ch int, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one value 0-%d", ErrUsage, core.ADCMax)
	}
	v, err := parseInt(args[0], 0, core.ADCMax)
	if err != nil {
		return err
	}
	b.bank.SetInput(ch, uint16(v))
	return nil
}

func parseInt(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, s)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %d not in %d-%d", ErrOutOfRange, v, lo, hi)
	}
	return v, nil
}

func (b *Bench) printSample(s core.Sample) {
	fmt.Fprintf(b.out, "pot=%d light=%d -> fan=%d servo=%d (%dus)\n",
		s.RawPot, s.RawLight, s.FanSpeed, s.ServoVal, core.PulseWidthMicros(s.ServoVal))
}

func (b *Bench) printRegisters() {
	bk := b.bank
	p := bk.Peripherals()

	fmt.Fprintf(b.out, "ADMUX  0x%02X  ADCSRA 0x%02X\n", bk.ADMUX.Get(), bk.ADCSRA.Get())
	fmt.Fprintf(b.out, "TCCR0A 0x%02X  TCCR0B 0x%02X  TIMSK0 0x%02X  OCR0B %d\n",
		bk.TCCR0A.Get(), bk.TCCR0B.Get(), bk.TIMSK0.Get(), bk.OCR0B.Get())
	fmt.Fprintf(b.out, "TCCR1A 0x%02X  TCCR1B 0x%02X  TIMSK1 0x%02X  ICR1 %d  OCR1B %d\n",
		bk.TCCR1A.Get(), bk.TCCR1B.Get(), bk.TIMSK1.Get(), p.ICR1.Get(), p.OCR1B.Get())
	fmt.Fprintf(b.out, "SREG   0x%02X  DDRB   0x%02X  DDRG   0x%02X\n",
		bk.SREG.Get(), bk.DDRB.Get(), bk.DDRG.Get())

	t0 := core.DecodeTimer0(bk.TCCR0A.Get(), bk.TCCR0B.Get())
	t1 := core.DecodeTimer1(bk.TCCR1A.Get(), bk.TCCR1B.Get(), p.ICR1.Get())
	fmt.Fprintf(b.out, "timer0: %s /%d top %d, %.2f Hz\n", t0.Mode, t0.Prescaler, t0.Top, t0.FrequencyHz)
	fmt.Fprintf(b.out, "timer1: %s /%d top %d, %.2f Hz\n", t1.Mode, t1.Prescaler, t1.Top, t1.FrequencyHz)
	fmt.Fprintf(b.out, "adc: %v per conversion, %d conversions\n", core.ConversionTime(), bk.Conversions())
}

func (b *Bench) printHelp() {
	fmt.Fprintln(b.out, "Available commands:")
	fmt.Fprintln(b.out, "  pot <0-1023>         - Set the potentiometer input (ADC0)")
	fmt.Fprintln(b.out, "  light <0-1023>       - Set the photoresistor input (ADC1)")
	fmt.Fprintln(b.out, "  set <ch> <0-1023>    - Set any ADC input")
	fmt.Fprintln(b.out, "  step [n]             - Run n loop iterations (default 1)")
	fmt.Fprintln(b.out, "  angle <0-100>        - Move the servo to a percentage of travel")
	fmt.Fprintln(b.out, "  regs                 - Dump registers and decoded timer setup")
	fmt.Fprintln(b.out, "  run <scenario.yaml>  - Run a scenario file")
	fmt.Fprintln(b.out, "  stream [frames]      - Apply sample frames from the serial link")
	fmt.Fprintln(b.out, "  quit/exit/q          - Exit")
}
