// Package main provides x86state, a tool that builds a register file from a
// reset profile and prints it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xyproto/env/v2"

	"github.com/sarchlab/x86state/regs"
	"github.com/sarchlab/x86state/reset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("x86state", flag.ContinueOnError)
	fs.SetOutput(stderr)

	profile := fs.String("profile", env.Str("X86STATE_PROFILE", "power-on"),
		"Reset profile: power-on, init or finit")
	configPath := fs.String("config", env.Str("X86STATE_CONFIG"),
		"Path to reset configuration JSON file (overrides -profile)")
	format := fs.String("format", env.Str("X86STATE_FORMAT", "table"),
		"Output format: table or spew")
	writeConfig := fs.String("write-config", "",
		"Write the effective reset configuration to this path")
	verbose := fs.Bool("v", env.Bool("X86STATE_VERBOSE"), "Verbose output")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, source, err := loadConfig(*configPath, *profile)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading reset config: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Fprintf(stdout, "Reset config: %s\n", source)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid reset config: %v\n", err)
		return 1
	}

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			fmt.Fprintf(stderr, "Error writing reset config: %v\n", err)
			return 1
		}
		if *verbose {
			fmt.Fprintf(stdout, "Wrote config: %s\n", *writeConfig)
		}
	}

	rf := regs.New()
	if err := reset.Apply(cfg, rf); err != nil {
		fmt.Fprintf(stderr, "Error applying reset config: %v\n", err)
		return 1
	}

	switch *format {
	case "table":
		if err := rf.Dump(stdout); err != nil {
			fmt.Fprintf(stderr, "Error writing dump: %v\n", err)
			return 1
		}
	case "spew":
		fmt.Fprint(stdout, rf.Spew())
	default:
		fmt.Fprintf(stderr, "Unknown format %q\n", *format)
		return 2
	}

	return 0
}

func loadConfig(path, profile string) (*reset.Config, string, error) {
	if path != "" {
		cfg, err := reset.LoadConfig(path)
		return cfg, path, err
	}

	cfg, err := reset.Profile(profile)
	return cfg, "profile " + profile, err
}
