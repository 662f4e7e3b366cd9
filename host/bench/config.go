package bench

import (
	"fmt"

	"github.com/caarlos0/env"

	"fanctl/host/serial"
)

// Config is the bench configuration. Environment first, then command line flags.
type Config struct {
	Serial   string `env:"FANCTL_SERIAL"`
	Baud     int    `env:"FANCTL_BAUD" envDefault:"115200"`
	Scenario string `env:"FANCTL_SCENARIO"`
	Verbose  bool   `env:"FANCTL_VERBOSE" envDefault:"false"`
}

// LoadConfig reads the FANCTL_* environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Baud <= 0 {
		cfg.Baud = serial.DefaultBaud
	}
}

// SerialConfig returns the port settings, or nil when no device is set
func (c *Config) SerialConfig() *serial.Config {
	if c.Serial == "" {
		return nil
	}
	sc := serial.DefaultConfig(c.Serial)
	sc.Baud = c.Baud
	return sc
}
