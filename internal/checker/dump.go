package checker

import (
	"fmt"
	"sort"
	"strings"

	"ownc/internal/ast"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// dumpLine emits the configured per-statement dump after a block item
// is walked. There is no external golden fixture to match byte-for-
// byte, so the layout below is an internally consistent rendering
// rather than a reproduction of some other tool's output (see the
// design ledger for the open format question).
func (a *Analyzer) dumpLine(stmt ast.Stmt) {
	if a.out == nil || a.cfg.SetPrintMode == PrintNone || a.suppressDiags {
		return
	}
	line := a.lines.Line(stmt.Span().Start)
	switch a.cfg.SetPrintMode {
	case PrintOwnership:
		fmt.Fprintf(a.out, "%d: %s\n", line, a.formatOwnership())
	case PrintReference:
		fmt.Fprintf(a.out, "%d: %s\n", line, a.formatReference())
	case PrintErrorOnly:
		for _, d := range a.diags.Items() {
			if d.Line == line {
				fmt.Fprintln(a.out, d.String())
			}
		}
	}
}

// scopedVars returns the variables visible for dump printing: every
// frame but the global one, plus the global frame when
// PrintGlobalScope is set, sorted by name for a stable rendering.
func (a *Analyzer) scopedVars() []*symbols.Variable {
	frames := a.env.Frames()
	start := 1
	if a.cfg.PrintGlobalScope {
		start = 0
	}
	var out []*symbols.Variable
	for i := start; i < len(frames); i++ {
		for _, v := range frames[i] {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Name < out[j].ID.Name })
	return out
}

// formatOwnership renders "[{name:0|1, ...}]": one bit per named
// Owner, 1 when it currently holds ownership.
func (a *Analyzer) formatOwnership() string {
	var parts []string
	for _, v := range a.scopedVars() {
		if v.Type.Kind != types.KindOwner {
			continue
		}
		bit := 0
		if v.Type.HasOwnership {
			bit = 1
		}
		parts = append(parts, fmt.Sprintf("%s:%d", v.ID.Name, bit))
	}
	return "[{" + strings.Join(parts, ", ") + "}]"
}

// formatReference renders "[{ name'->{targets}; ... }]": for every
// reference-typed variable, the names it currently points to.
func (a *Analyzer) formatReference() string {
	var parts []string
	for _, v := range a.scopedVars() {
		if !v.IsRef() {
			continue
		}
		targets := make([]string, 0, len(v.Type.PointsTo))
		for id := range v.Type.PointsTo {
			targets = append(targets, id.Name)
		}
		sort.Strings(targets)
		parts = append(parts, fmt.Sprintf("%s'->{%s}", v.ID.Name, strings.Join(targets, ",")))
	}
	return "[{ " + strings.Join(parts, "; ") + " }]"
}

// emitEvent writes a per-mutation trace line when event tracing is
// enabled: a short note each time the ownership or borrow engine
// mutates the environment.
func (a *Analyzer) emitEvent(kind, detail string) {
	if a.out == nil || a.suppressDiags || a.cfg.EventPrintMode != EventOwnership {
		return
	}
	fmt.Fprintf(a.out, "event[%s]: %s\n", kind, detail)
}
