package ast

import "ownc/internal/source"

// Stmt is implemented by every statement kind.
type Stmt interface {
	Node
	stmt()
}

// CompoundStmt is a `{ ... }` block. Declarations and statements share
// the same item list (C block items).
type CompoundStmt struct {
	Span_ source.Span
	Items []Stmt
}

func (s *CompoundStmt) Span() source.Span { return s.Span_ }
func (s *CompoundStmt) stmt()             {}

// DeclStmt wraps a block-scope Declaration as a statement.
type DeclStmt struct {
	Span_ source.Span
	Decl  *Declaration
}

func (s *DeclStmt) Span() source.Span { return s.Span_ }
func (s *DeclStmt) stmt()             {}

// ExprStmt is a bare expression statement, e.g. `f(x);` or `a = b;`.
type ExprStmt struct {
	Span_ source.Span
	X     Expr
}

func (s *ExprStmt) Span() source.Span { return s.Span_ }
func (s *ExprStmt) stmt()             {}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Span_ source.Span
	Cond  Expr
	Then  Stmt
	Else  Stmt // nil if absent
}

func (s *IfStmt) Span() source.Span { return s.Span_ }
func (s *IfStmt) stmt()             {}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Span_ source.Span
	Cond  Expr
	Body  Stmt
}

func (s *WhileStmt) Span() source.Span { return s.Span_ }
func (s *WhileStmt) stmt()             {}

// DoWhileStmt is `do Body while (Cond);`.
type DoWhileStmt struct {
	Span_ source.Span
	Body  Stmt
	Cond  Expr
}

func (s *DoWhileStmt) Span() source.Span { return s.Span_ }
func (s *DoWhileStmt) stmt()             {}

// ForStmt is `for (Init; Cond; Post) Body`. Init may be a DeclStmt or an
// ExprStmt; any may be nil.
type ForStmt struct {
	Span_ source.Span
	Init  Stmt
	Cond  Expr
	Post  Expr
	Body  Stmt
}

func (s *ForStmt) Span() source.Span { return s.Span_ }
func (s *ForStmt) stmt()             {}

// ReturnStmt is `return [X];`.
type ReturnStmt struct {
	Span_ source.Span
	X     Expr // nil for bare `return;`
}

func (s *ReturnStmt) Span() source.Span { return s.Span_ }
func (s *ReturnStmt) stmt()             {}

// EmptyStmt is a bare `;`.
type EmptyStmt struct {
	Span_ source.Span
}

func (s *EmptyStmt) Span() source.Span { return s.Span_ }
func (s *EmptyStmt) stmt()             {}
