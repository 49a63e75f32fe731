package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"ownc/internal/checker"
)

// fileConfig mirrors the recognized configuration options:
// functions_to_check, print_global_scope, set_print_mode, and
// event_print_mode, loaded from the ownc.toml file named by --config.
type fileConfig struct {
	Check checkConfig `toml:"check"`
}

type checkConfig struct {
	Functions        []string `toml:"functions_to_check"`
	PrintGlobalScope bool     `toml:"print_global_scope"`
	SetPrintMode     string   `toml:"set_print_mode"`
	EventPrintMode   string   `toml:"event_print_mode"`
}

func loadConfig(path string) (checker.Config, error) {
	var fc fileConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return checker.Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	}
	functions := make(map[string]bool, len(fc.Check.Functions))
	for _, name := range fc.Check.Functions {
		functions[name] = true
	}
	setMode, err := parsePrintMode(fc.Check.SetPrintMode)
	if err != nil {
		return checker.Config{}, err
	}
	eventMode, err := parseEventPrintMode(fc.Check.EventPrintMode)
	if err != nil {
		return checker.Config{}, err
	}
	return checker.Config{
		FunctionsToCheck: functions,
		PrintGlobalScope: fc.Check.PrintGlobalScope,
		SetPrintMode:     setMode,
		EventPrintMode:   eventMode,
	}, nil
}

func parsePrintMode(s string) (checker.PrintMode, error) {
	switch s {
	case "", "none":
		return checker.PrintNone, nil
	case "ownership":
		return checker.PrintOwnership, nil
	case "reference":
		return checker.PrintReference, nil
	case "error_only":
		return checker.PrintErrorOnly, nil
	default:
		return checker.PrintNone, fmt.Errorf("set_print_mode: unknown mode %q", s)
	}
}

func parseEventPrintMode(s string) (checker.EventPrintMode, error) {
	switch s {
	case "", "none":
		return checker.EventNone, nil
	case "ownership":
		return checker.EventOwnership, nil
	case "error_only":
		return checker.EventErrorOnly, nil
	default:
		return checker.EventNone, fmt.Errorf("event_print_mode: unknown mode %q", s)
	}
}
