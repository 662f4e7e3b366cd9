package main

import (
	"flag"
	"fmt"
	"os"

	"fanctl/core"
	"fanctl/host/bench"
)

func main() {
	cfg, err := bench.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	flag.StringVar(&cfg.Serial, "serial", cfg.Serial, "Serial device streaming sample frames (FANCTL_SERIAL)")
	flag.IntVar(&cfg.Baud, "baud", cfg.Baud, "Baud rate (FANCTL_BAUD)")
	flag.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "Run this scenario file and exit (FANCTL_SCENARIO)")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print firmware debug output (FANCTL_VERBOSE)")
	flag.Parse()

	core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, s) })
	core.SetDebugEnabled(cfg.Verbose)

	b := bench.New(os.Stdout)

	if sc := cfg.SerialConfig(); sc != nil {
		fmt.Printf("Opening %s at %d baud...\n", sc.Device, sc.Baud)
		link, err := bench.Dial(sc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer link.Close()
		b.Attach(link)
	}

	if cfg.Scenario != "" {
		if err := b.RunFile(cfg.Scenario); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("fanctl bench - fan/servo controller on a simulated ATmega2560")
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	if cfg.Verbose {
		b.Board().DumpRegisters()
	}

	if err := b.Repl(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}
