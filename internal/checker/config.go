// Package checker implements the flow-sensitive ownership and borrow
// analysis: the traversal dispatches to the ownership engine, the
// borrow engine, and the control-flow engine as it walks the bodies of
// the configured functions.
package checker

// PrintMode controls the per-statement dump format emitted after every
// block item.
type PrintMode uint8

const (
	PrintNone PrintMode = iota
	PrintOwnership
	PrintReference
	PrintErrorOnly
)

// EventPrintMode controls the per-mutation trace messages emitted as
// the ownership and borrow engines mutate the environment.
type EventPrintMode uint8

const (
	EventNone EventPrintMode = iota
	EventOwnership
	EventErrorOnly
)

// Config holds the options recognized by the analyzer. It is passed
// once at construction and treated as immutable for the run.
type Config struct {
	// FunctionsToCheck names the function bodies to analyze; other
	// functions are skipped, but their prototypes are still read for
	// signatures.
	FunctionsToCheck map[string]bool
	// PrintGlobalScope includes the global frame in per-line dumps.
	PrintGlobalScope bool
	SetPrintMode     PrintMode
	EventPrintMode   EventPrintMode
}

// Checks reports whether fn is in the configured function set.
func (c Config) Checks(fn string) bool {
	return c.FunctionsToCheck[fn]
}
