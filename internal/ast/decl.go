package ast

import "ownc/internal/source"

// DerivedKind distinguishes the kinds of declarator a name can carry.
// Only the first derived qualifier is consulted by type inference;
// later positions are not modeled.
type DerivedKind uint8

const (
	DerivedNone DerivedKind = iota
	DerivedPointer
	DerivedFunction
	DerivedArray
)

// DerivedDeclarator is one layer of a declarator (pointer, function, or
// array), in outer-to-inner order as written in the source.
type DerivedDeclarator struct {
	Kind DerivedKind
	// Params is the parameter list when Kind is DerivedFunction, so a
	// bare prototype still records its parameter reference kinds.
	Params []ParamDecl
}

// Declarator names a variable or parameter and carries its derived
// qualifiers (e.g. `*p`, `a[]`).
type Declarator struct {
	Name    string
	Derived []DerivedDeclarator
}

// IsPointer reports whether the first derived qualifier is a pointer.
func (d Declarator) IsPointer() bool {
	return len(d.Derived) > 0 && d.Derived[0].Kind == DerivedPointer
}

// Specifiers captures the declaration specifiers preceding a
// declarator: type qualifiers and the base type name.
type Specifiers struct {
	// ConstBeforeType is true when `const` appears before the type
	// specifier, e.g. `const int *p` (a const-qualified pointee).
	ConstBeforeType bool
	// IsStruct is true when the base type is a struct type, either
	// named directly (`struct Foo`) or through a typedef of one.
	IsStruct bool
	// StructName is the struct tag backing IsStruct, used to look up
	// the struct layout table.
	StructName string
	// TypeName is the raw base type token, kept for diagnostics.
	TypeName string
}

// InitDeclarator pairs a declarator with its optional initializer.
type InitDeclarator struct {
	Declarator Declarator
	Init       Expr // nil if there is no initializer
	Span_      source.Span
}

// FieldDecl is one member of a struct definition.
type FieldDecl struct {
	Specifiers Specifiers
	Declarator Declarator
}

// Declaration is an external or block-scope declaration: a struct
// definition, a typedef, or a list of declarators sharing specifiers.
type Declaration struct {
	Span_ source.Span

	Specifiers Specifiers

	// Struct definition, e.g. `struct Foo { ... };`. Populates the
	// struct layout table; Fields is non-nil only here.
	StructTag string
	Fields    []FieldDecl

	// Typedef introduces TypedefName as an alias of Specifiers'
	// base type (only struct typedefs matter to the checker).
	IsTypedef   bool
	TypedefName string

	// Ordinary declaration: variables or function prototypes sharing
	// Specifiers, one InitDeclarator per comma-separated name.
	Declarators []InitDeclarator
}

func (d *Declaration) Span() source.Span { return d.Span_ }
func (d *Declaration) externalDecl()     {}

// ParamDecl is one function parameter.
type ParamDecl struct {
	Specifiers Specifiers
	Declarator Declarator
}

// FunctionDefinition is a function with a body; only functions named in
// the checker's configured function set are traversed.
type FunctionDefinition struct {
	Span_  source.Span
	Name   string
	Params []ParamDecl
	Body   *CompoundStmt
}

func (f *FunctionDefinition) Span() source.Span { return f.Span_ }
func (f *FunctionDefinition) externalDecl()     {}
