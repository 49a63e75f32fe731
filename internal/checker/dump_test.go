package checker

import (
	"bytes"
	"strings"
	"testing"

	"ownc/internal/ast"
	"ownc/internal/source"
)

func runWithDump(t *testing.T, tu *ast.TranslationUnit, cfg Config) string {
	t.Helper()
	var buf bytes.Buffer
	NewAnalyzer(cfg, source.NoLineResolver{}, &buf).Run(tu)
	return buf.String()
}

func TestDumpOwnershipMode(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		structSDecl(),
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{structDeclarator("s", "S")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "s2"},
					Init:       ident("s"),
				}},
			}},
		),
	}}
	cfg := Config{FunctionsToCheck: map[string]bool{"test": true}, SetPrintMode: PrintOwnership}
	out := runWithDump(t, tu, cfg)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d dump lines, want 2: %q", len(lines), out)
	}
	if lines[0] != "0: [{s:1}]" {
		t.Fatalf("first dump line = %q", lines[0])
	}
	if lines[1] != "0: [{s:0, s2:1}]" {
		t.Fatalf("second dump line = %q", lines[1])
	}
}

func TestDumpReferenceMode(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "x"}}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "p", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
		),
	}}
	cfg := Config{FunctionsToCheck: map[string]bool{"test": true}, SetPrintMode: PrintReference}
	out := runWithDump(t, tu, cfg)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d dump lines, want 2: %q", len(lines), out)
	}
	if lines[1] != "0: [{ p'->{x} }]" {
		t.Fatalf("second dump line = %q", lines[1])
	}
}

func TestEventErrorOnlyStreamsErrors(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		structSDecl(),
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{structDeclarator("s1", "S")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "s2"},
					Init:       ident("s1"),
				}},
			}},
			&ast.ExprStmt{X: ident("s1")},
		),
	}}
	cfg := Config{FunctionsToCheck: map[string]bool{"test": true}, EventPrintMode: EventErrorOnly}
	out := runWithDump(t, tu, cfg)

	if !strings.Contains(out, "ERROR: ") || !strings.Contains(out, "use of moved value") {
		t.Fatalf("expected the use-of-moved-value error streamed to the trace writer, got %q", out)
	}
}
