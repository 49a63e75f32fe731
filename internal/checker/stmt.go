package checker

import (
	"ownc/internal/ast"
)

// walkFunction implements block entry for a function body: the scope
// is pushed before parameters are declared, so parameters live in the
// function's own frame, then the body's items are walked directly (no
// extra nested push for the compound statement itself).
func (a *Analyzer) walkFunction(fn *ast.FunctionDefinition) {
	a.env.PushScope()
	defer a.env.PopScope()

	for _, p := range fn.Params {
		vt := inferDeclaredType(p.Specifiers, p.Declarator)
		v := a.env.Declare(p.Declarator.Name, vt)
		if vt.Kind.IsRef() {
			a.synthesizePlaceholder(v)
		}
	}
	if fn.Body != nil {
		a.walkStmts(fn.Body.Items)
	}
}

func (a *Analyzer) walkStmts(items []ast.Stmt) {
	for _, s := range items {
		a.walkStmt(s)
		a.dumpLine(s)
	}
}

func (a *Analyzer) walkStmt(s ast.Stmt) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.CompoundStmt:
		a.env.PushScope()
		a.walkStmts(x.Items)
		a.env.PopScope()
	case *ast.DeclStmt:
		a.walkLocalDecl(x.Decl)
	case *ast.ExprStmt:
		a.walkExprRead(x.X)
	case *ast.IfStmt:
		a.walkIf(x)
	case *ast.WhileStmt:
		a.walkLoop(x.Cond, x.Body)
	case *ast.DoWhileStmt:
		a.walkLoop(x.Cond, x.Body)
	case *ast.ForStmt:
		a.walkFor(x)
	case *ast.ReturnStmt:
		if x.X != nil {
			a.walkExprRead(x.X)
		}
	case *ast.EmptyStmt:
	}
}

// walkLocalDecl handles a block-scope declaration: struct/typedef and
// function-prototype forms update the shared tables exactly as they
// would at external scope; plain declarators are declared in the
// current (innermost) frame and bound to their initializer, if any.
func (a *Analyzer) walkLocalDecl(d *ast.Declaration) {
	if d.StructTag != "" || len(d.Fields) > 0 || d.IsTypedef {
		a.registerExternalDecl(d)
		return
	}
	for _, id := range d.Declarators {
		vt := inferDeclaredType(d.Specifiers, id.Declarator)
		v := a.env.Declare(id.Declarator.Name, vt)
		a.bindDeclaratorInit(v, id.Init, id.Span_)
	}
}

// walkIf implements the branch-merge join: the then branch is walked
// from a snapshot of the pre-if state; the else branch (or nothing) is
// walked from a restored copy of that same snapshot; the then
// branch's post-state is then merged into whichever state the else
// arm produced.
func (a *Analyzer) walkIf(s *ast.IfStmt) {
	a.walkExprRead(s.Cond)

	pre := a.env.Snapshot()
	a.walkStmt(s.Then)
	thenSnap := a.env.Snapshot()

	a.env.Restore(pre)
	if s.Else != nil {
		a.walkStmt(s.Else)
	}
	a.env.MergeThen(thenSnap)
}

// withDiagsSuppressed runs fn with reporting and dump output disabled,
// used for the throwaway widening pass over a loop body.
func (a *Analyzer) withDiagsSuppressed(fn func()) {
	prev := a.suppressDiags
	a.suppressDiags = true
	fn()
	a.suppressDiags = prev
}

// walkLoop widens the entry state of a loop body: a loop body may run
// zero or more times, so a single pass cannot observe aliasing effects
// a second iteration would see. A silent pass over the body
// approximates the post-iteration state; merging that into the
// pre-loop state produces a widened entry state, which is then walked
// once more with diagnostics enabled. The widening is a single round:
// it is not repeated until the state stops changing, so an effect that
// takes more than one extra iteration to reach the loop entry is not
// seen by the real pass.
func (a *Analyzer) walkLoop(cond ast.Expr, body ast.Stmt) {
	pre := a.env.Snapshot()
	a.withDiagsSuppressed(func() {
		if cond != nil {
			a.walkExprRead(cond)
		}
		a.walkStmt(body)
	})
	post := a.env.Snapshot()
	a.env.Restore(pre)
	a.env.MergeThen(post)

	if cond != nil {
		a.walkExprRead(cond)
	}
	a.walkStmt(body)
}

// walkFor pushes the loop's own scope for Init's declarations, then
// folds the post-expression into the body so the fixed-point widening
// in walkLoop sees its effect on every simulated iteration.
func (a *Analyzer) walkFor(s *ast.ForStmt) {
	a.env.PushScope()
	defer a.env.PopScope()
	if s.Init != nil {
		a.walkStmt(s.Init)
	}
	a.walkLoop(s.Cond, wrapForBody(s.Post, s.Body))
}

func wrapForBody(post ast.Expr, body ast.Stmt) ast.Stmt {
	if post == nil {
		return body
	}
	return &ast.CompoundStmt{Items: []ast.Stmt{body, &ast.ExprStmt{X: post}}}
}
