package ast

import "ownc/internal/source"

// Expr is implemented by every expression kind.
type Expr interface {
	Node
	expr()
}

// Ident is a bare identifier reference.
type Ident struct {
	Span_ source.Span
	Name  string
}

func (e *Ident) Span() source.Span { return e.Span_ }
func (e *Ident) expr()             {}

// IntLit is an integer literal; it never participates in ownership or
// borrow tracking but rounds out the expression surface.
type IntLit struct {
	Span_ source.Span
	Value string
}

func (e *IntLit) Span() source.Span { return e.Span_ }
func (e *IntLit) expr()             {}

// Member is a dotted or arrow member access, e.g. `s.a` or `p->a`.
// Arrow access implicitly dereferences X before projecting Field; the
// environment still keys the result by the joined dotted name.
type Member struct {
	Span_ source.Span
	X     Expr
	Field string
	Arrow bool
}

func (e *Member) Span() source.Span { return e.Span_ }
func (e *Member) expr()             {}

// UnaryOp enumerates the unary operators relevant to the checker.
// Operators outside this set (logical not, numeric negation, ...) are
// accepted but carry no ownership/borrow meaning.
type UnaryOp uint8

const (
	UnaryOther UnaryOp = iota
	UnaryAddr          // &x
	UnaryDeref         // *p
)

// Unary is a prefix unary expression.
type Unary struct {
	Span_ source.Span
	Op    UnaryOp
	X     Expr
}

func (e *Unary) Span() source.Span { return e.Span_ }
func (e *Unary) expr()             {}

// BinaryOp enumerates binary operators; none of them currently carry
// ownership or borrow meaning, but the node exists so arbitrary C
// expressions can be represented and their operands still walked as
// reads.
type BinaryOp uint8

// Binary is a binary expression; both operands are walked as reads.
type Binary struct {
	Span_ source.Span
	Op    BinaryOp
	X, Y  Expr
}

func (e *Binary) Span() source.Span { return e.Span_ }
func (e *Binary) expr()             {}

// Assign is `LHS = RHS`. Compound assignment (`+=`, ...) is represented
// as plain Assign by the driver once desugared, since the checker only
// ever distinguishes "is this an assignment" from "is this a read".
type Assign struct {
	Span_    source.Span
	LHS, RHS Expr
}

func (e *Assign) Span() source.Span { return e.Span_ }
func (e *Assign) expr()             {}

// Call is a function call `Callee(Args...)`. Callee is expected to be
// an *Ident; calls through function pointers are not supported.
type Call struct {
	Span_  source.Span
	Callee Expr
	Args   []Expr
}

func (e *Call) Span() source.Span { return e.Span_ }
func (e *Call) expr()             {}
