// Package ast defines the inbound AST contract the analyzer consumes.
// Lexing and parsing C source into these shapes, and mapping byte
// offsets back to line numbers, are the external driver's job (see
// source.LineResolver); this package only names the node kinds the
// core traversal dispatches on.
package ast

import "ownc/internal/source"

// Node is implemented by every AST node the core ever visits.
type Node interface {
	Span() source.Span
}

// TranslationUnit is the root of a parsed C file: an ordered list of
// external declarations.
type TranslationUnit struct {
	Decls []ExternalDecl
}

// ExternalDecl is either a Declaration or a FunctionDefinition.
type ExternalDecl interface {
	Node
	externalDecl()
}
