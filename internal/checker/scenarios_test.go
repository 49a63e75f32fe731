package checker

import (
	"testing"

	"ownc/internal/ast"
	"ownc/internal/diag"
	"ownc/internal/source"
)

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func structSDecl() *ast.Declaration {
	return &ast.Declaration{
		StructTag: "S",
		Fields: []ast.FieldDecl{
			{Specifiers: ast.Specifiers{}, Declarator: ast.Declarator{Name: "a"}},
		},
	}
}

func fn(name string, params []ast.ParamDecl, items ...ast.Stmt) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{
		Name:   name,
		Params: params,
		Body:   &ast.CompoundStmt{Items: items},
	}
}

func run(t *testing.T, tu *ast.TranslationUnit, fns ...string) *diag.Bag {
	t.Helper()
	checked := make(map[string]bool, len(fns))
	for _, f := range fns {
		checked[f] = true
	}
	cfg := Config{FunctionsToCheck: checked}
	a := NewAnalyzer(cfg, source.NoLineResolver{}, nil)
	return a.Run(tu)
}

func structDeclarator(name, structName string) ast.InitDeclarator {
	return ast.InitDeclarator{Declarator: ast.Declarator{Name: name}}
}

func ownerSpecifiers(structName string) ast.Specifiers {
	return ast.Specifiers{IsStruct: true, StructName: structName}
}

// struct S s1; struct S s2 = s1; use(s1);
func TestScenarioSimpleMove(t *testing.T) {
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
			&ast.ExprStmt{X: &ast.Call{Callee: ident("use"), Args: []ast.Expr{ident("s1")}}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.UseOfMovedValue) {
		t.Fatalf("expected use-of-moved-value, got %v", bag.Items())
	}
}

// struct S s; int c; if (c) { move(s); } s;
// A read of s after the if must report use-of-moved-value because the
// join pessimizes ownership.
func TestScenarioBranchJoinPessimizesOwnership(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		structSDecl(),
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{structDeclarator("s", "S")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "c"}}},
			}},
			&ast.IfStmt{
				Cond: ident("c"),
				Then: &ast.CompoundStmt{Items: []ast.Stmt{
					&ast.ExprStmt{X: &ast.Call{Callee: ident("move"), Args: []ast.Expr{ident("s")}}},
				}},
			},
			&ast.ExprStmt{X: ident("s")},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.UseOfMovedValue) {
		t.Fatalf("expected use-of-moved-value after the join, got %v", bag.Items())
	}
}

// int *p; { int x; p = &x; } *p;
// Popping the inner block purges x from p's points_to (the reverse-edge
// invariant maintained on scope exit), leaving p an empty reference by
// the time it is read.
func TestScenarioEmptyReferenceAfterScopeExit(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{
					Name:    "p",
					Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}},
				}}},
			}},
			&ast.CompoundStmt{Items: []ast.Stmt{
				&ast.DeclStmt{Decl: &ast.Declaration{
					Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "x"}}},
				}},
				&ast.ExprStmt{X: &ast.Assign{
					LHS: ident("p"),
					RHS: &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.ExprStmt{X: &ast.Unary{Op: ast.UnaryDeref, X: ident("p")}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.EmptyReference) {
		t.Fatalf("expected empty-reference, got %v", bag.Items())
	}
}

// int *mp; const int *cp = mp; assigning a mutable pointer to a
// const-qualified one must be flagged rather than silently narrowing.
func TestScenarioPointerKindMismatch(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{
					Name:    "mp",
					Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}},
				}}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{
						Name:    "cp",
						Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}},
					},
					Init: ident("mp"),
				}},
			}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.MutToConstMove) {
		t.Fatalf("expected mut-to-const-move, got %v", bag.Items())
	}
}

// int x; int *p = &x; const int *q = &x; *p;
// A shared borrow invalidates a pre-existing mutable borrow of the same
// pointee, so the later read through p is reported.
func TestSharedBorrowInvalidatesExistingMutableBorrow(t *testing.T) {
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
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "q", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.ExprStmt{X: &ast.Unary{Op: ast.UnaryDeref, X: ident("p")}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.InvalidReference) {
		t.Fatalf("expected invalid-reference once q's borrow invalidates p, got %v", bag.Items())
	}
}

// struct Outer s; struct Outer other; s.a = other.a; other.a.b;
// Moving a struct field out from under its owner must be visible
// through a deeper member path read afterward, not just a read of the
// moved field itself.
func TestScenarioStructMemberMoveCascades(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.Declaration{
			StructTag: "Inner",
			Fields: []ast.FieldDecl{
				{Specifiers: ast.Specifiers{}, Declarator: ast.Declarator{Name: "b"}},
			},
		},
		&ast.Declaration{
			StructTag: "Outer",
			Fields: []ast.FieldDecl{
				{Specifiers: ownerSpecifiers("Inner"), Declarator: ast.Declarator{Name: "a"}},
			},
		},
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("Outer"),
				Declarators: []ast.InitDeclarator{structDeclarator("s", "Outer")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("Outer"),
				Declarators: []ast.InitDeclarator{structDeclarator("other", "Outer")},
			}},
			&ast.ExprStmt{X: &ast.Assign{
				LHS: &ast.Member{X: ident("s"), Field: "a"},
				RHS: &ast.Member{X: ident("other"), Field: "a"},
			}},
			&ast.ExprStmt{X: &ast.Member{
				X:     &ast.Member{X: ident("other"), Field: "a"},
				Field: "b",
			}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.UseOfMovedValue) {
		t.Fatalf("expected use-of-moved-value on other.a.b after other.a moved, got %v", bag.Items())
	}
}

// A prototype's const-qualified pointer parameter classifies &x at the
// call site as a shared borrow, so an existing const reference to x
// survives the call.
func TestPrototypeConstParamKeepsSharedBorrowValid(t *testing.T) {
	proto := &ast.Declaration{
		Declarators: []ast.InitDeclarator{{
			Declarator: ast.Declarator{
				Name: "read_only",
				Derived: []ast.DerivedDeclarator{{
					Kind: ast.DerivedFunction,
					Params: []ast.ParamDecl{{
						Specifiers: ast.Specifiers{ConstBeforeType: true},
						Declarator: ast.Declarator{Name: "p", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					}},
				}},
			},
		}},
	}
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		proto,
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "x"}}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "q", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.ExprStmt{X: &ast.Call{
				Callee: ident("read_only"),
				Args:   []ast.Expr{&ast.Unary{Op: ast.UnaryAddr, X: ident("x")}},
			}},
			&ast.ExprStmt{X: &ast.Unary{Op: ast.UnaryDeref, X: ident("q")}},
		),
	}}

	bag := run(t, tu, "test")
	if hasCode(bag, diag.UndeclaredFunction) {
		t.Fatalf("the prototype should have registered a signature, got %v", bag.Items())
	}
	if hasCode(bag, diag.InvalidReference) {
		t.Fatalf("a shared borrow must not invalidate an existing const reference, got %v", bag.Items())
	}
}

// struct S s; while (c) { use(s); } — the widening pass over the body
// means the real pass observes the move a prior iteration would have
// performed.
func TestLoopBodySecondIterationSeesMove(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		structSDecl(),
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers:  ownerSpecifiers("S"),
				Declarators: []ast.InitDeclarator{structDeclarator("s", "S")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "c"}}},
			}},
			&ast.WhileStmt{
				Cond: ident("c"),
				Body: &ast.CompoundStmt{Items: []ast.Stmt{
					&ast.ExprStmt{X: &ast.Call{Callee: ident("use"), Args: []ast.Expr{ident("s")}}},
				}},
			},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.UseOfMovedValue) {
		t.Fatalf("expected use-of-moved-value inside the loop body, got %v", bag.Items())
	}
}

// Copying a pointer out from behind a pointer-to-pointer: after
// q = *pp the reference q really aliases x, so a later mutable borrow
// of x invalidates it.
func TestDerefPointerCopyAliasesTarget(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "x"}}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "cp", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "pp", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("cp")},
				}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "q", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
				}},
			}},
			&ast.ExprStmt{X: &ast.Assign{
				LHS: ident("q"),
				RHS: &ast.Unary{Op: ast.UnaryDeref, X: ident("pp")},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "m", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.ExprStmt{X: &ast.Unary{Op: ast.UnaryDeref, X: ident("q")}},
		),
	}}

	bag := run(t, tu, "test")
	if hasCode(bag, diag.MoveFromBehindReference) {
		t.Fatalf("dereferencing a pointer to a const reference is a plain copy, got %v", bag.Items())
	}
	if !hasCode(bag, diag.InvalidReference) {
		t.Fatalf("q should alias x after q = *pp and be invalidated by the later mutable borrow, got %v", bag.Items())
	}
}

// int x; const int *q = &x; mutate(&x); *q;
// mutate has no recorded signature, so &x is passed as a mutable borrow
// and the existing const reference q stops being valid.
func TestUndeclaredFunctionPessimizesToMutableBorrow(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		fn("test", nil,
			&ast.DeclStmt{Decl: &ast.Declaration{
				Declarators: []ast.InitDeclarator{{Declarator: ast.Declarator{Name: "x"}}},
			}},
			&ast.DeclStmt{Decl: &ast.Declaration{
				Specifiers: ast.Specifiers{ConstBeforeType: true},
				Declarators: []ast.InitDeclarator{{
					Declarator: ast.Declarator{Name: "q", Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}},
					Init:       &ast.Unary{Op: ast.UnaryAddr, X: ident("x")},
				}},
			}},
			&ast.ExprStmt{X: &ast.Call{
				Callee: ident("mutate"),
				Args:   []ast.Expr{&ast.Unary{Op: ast.UnaryAddr, X: ident("x")}},
			}},
			&ast.ExprStmt{X: &ast.Unary{Op: ast.UnaryDeref, X: ident("q")}},
		),
	}}

	bag := run(t, tu, "test")
	if !hasCode(bag, diag.UndeclaredFunction) {
		t.Fatalf("expected undeclared-function, got %v", bag.Items())
	}
	if !hasCode(bag, diag.InvalidReference) {
		t.Fatalf("expected the pessimized mutable borrow to invalidate q, got %v", bag.Items())
	}
}
