package checker

import (
	"fmt"
	"io"

	"ownc/internal/ast"
	"ownc/internal/diag"
	"ownc/internal/source"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// Analyzer owns the environment and diagnostic bag for a single
// translation-unit run. It is not safe for concurrent use: the
// traversal is a single-threaded, cooperative walk over an immutable
// AST.
type Analyzer struct {
	cfg   Config
	env   *symbols.Environment
	diags *diag.Bag
	lines source.LineResolver
	out   io.Writer

	// suppressDiags silences report and emitEvent during the silent
	// widening pass over a loop body; the dump-mode line printer is
	// silenced the same way so the widening pass never doubles a real
	// line's output.
	suppressDiags bool
}

// NewAnalyzer constructs an analyzer ready to run over a translation
// unit. lines resolves byte offsets to source lines for diagnostic
// formatting; out receives the optional per-statement and per-event
// dumps (nil disables them regardless of Config).
func NewAnalyzer(cfg Config, lines source.LineResolver, out io.Writer) *Analyzer {
	structs := types.NewStructLayout()
	funcs := types.NewSignatureTable()
	if lines == nil {
		lines = source.NoLineResolver{}
	}
	a := &Analyzer{
		cfg:   cfg,
		env:   symbols.NewEnvironment(structs, funcs),
		diags: diag.NewBag(),
		lines: lines,
		out:   out,
	}
	a.env.OnRefFieldCreated = a.synthesizePlaceholder
	return a
}

// Run walks the translation unit: a first pass records struct layouts,
// typedefs, and function signatures from every external declaration;
// a second pass walks the bodies of the configured functions in
// source order. Diagnostics are returned in emission order regardless
// of which pass produced them.
func (a *Analyzer) Run(tu *ast.TranslationUnit) *diag.Bag {
	for _, ext := range tu.Decls {
		switch d := ext.(type) {
		case *ast.Declaration:
			a.registerExternalDecl(d)
		case *ast.FunctionDefinition:
			a.registerFunctionSignature(d)
		}
	}
	for _, ext := range tu.Decls {
		fn, ok := ext.(*ast.FunctionDefinition)
		if !ok || !a.cfg.Checks(fn.Name) {
			continue
		}
		a.walkFunction(fn)
	}
	return a.diags
}

func (a *Analyzer) report(sev diag.Severity, code diag.Code, span source.Span, msg string) {
	if a.suppressDiags {
		return
	}
	d := a.diags.Add(a.lines, sev, code, span, msg)
	if a.out != nil && a.cfg.EventPrintMode == EventErrorOnly && sev >= diag.SevError {
		fmt.Fprintln(a.out, d.String())
	}
}
