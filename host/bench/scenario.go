package bench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fanctl/core"
)

var ErrEmptyScenario = errors.New("scenario has no steps")

// Scenario is a scripted sequence of sensor inputs with optional expected outputs
type Scenario struct {
	Name   string         `yaml:"name"`
	Repeat int            `yaml:"repeat"`
	Steps  []ScenarioStep `yaml:"steps"`
}

// ScenarioStep sets both inputs, runs one loop iteration and checks the outputs
type ScenarioStep struct {
	Pot    uint16  `yaml:"pot"`
	Light  uint16  `yaml:"light"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the compare register values a step should produce.
// Unset fields are not checked.
type Expect struct {
	Duty  *int `yaml:"duty,omitempty"`
	Pulse *int `yaml:"pulse,omitempty"`
}

// Mismatch is one failed expectation
type Mismatch struct {
	Pass  int
	Step  int
	Field string
	Want  int
	Got   int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("pass %d step %d: %s = %d, expected %d", m.Pass, m.Step, m.Field, m.Got, m.Want)
}

// Result summarizes a scenario run
type Result struct {
	Name       string
	Steps      int
	Mismatches []Mismatch
}

// OK reports whether every expectation held
func (r *Result) OK() bool {
	return len(r.Mismatches) == 0
}

// LoadScenario reads a scenario file. A missing name defaults to the file name.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseScenario decodes and validates a YAML scenario
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	applyScenarioDefaults(&sc)

	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	for i, st := range sc.Steps {
		if st.Pot > core.ADCMax || st.Light > core.ADCMax {
			return nil, fmt.Errorf("step %d: %w (inputs are 0-%d)", i, ErrOutOfRange, core.ADCMax)
		}
	}
	return &sc, nil
}

func applyScenarioDefaults(sc *Scenario) {
	if sc.Repeat <= 0 {
		sc.Repeat = 1
	}
}

// RunScenario drives the bench through every step Repeat times and collects mismatches
func (b *Bench) RunScenario(sc *Scenario) *Result {
	res := &Result{Name: sc.Name}

	for pass := 0; pass < sc.Repeat; pass++ {
		for i, st := range sc.Steps {
			b.bank.SetInput(core.PotChannel, st.Pot)
			b.bank.SetInput(core.LightChannel, st.Light)
			b.step()
			res.Steps++

			if st.Expect == nil {
				continue
			}
			if st.Expect.Duty != nil {
				if got := int(b.board.Motor.DutyCycle()); got != *st.Expect.Duty {
					res.Mismatches = append(res.Mismatches, Mismatch{pass, i, "duty", *st.Expect.Duty, got})
				}
			}
			if st.Expect.Pulse != nil {
				if got := int(b.board.Servo.PulseWidth()); got != *st.Expect.Pulse {
					res.Mismatches = append(res.Mismatches, Mismatch{pass, i, "pulse", *st.Expect.Pulse, got})
				}
			}
		}
	}
	return res
}
