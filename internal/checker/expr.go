package checker

import (
	"fmt"

	"ownc/internal/ast"
	"ownc/internal/diag"
	"ownc/internal/source"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// walkExprRead walks e as a pure read: every name it touches is
// checked for use-after-move and reference validity, but nothing is
// transferred. Used for binary operands, if/while conditions, call
// callees, and the pointer operand of a dereference that is not
// itself in move position.
func (a *Analyzer) walkExprRead(e ast.Expr) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.Ident:
		a.checkName(x.Name, x.Span())
	case *ast.Member:
		if path, ok := a.resolvePath(x); ok {
			a.checkName(path, x.Span())
			return
		}
		a.walkExprRead(x.X)
	case *ast.IntLit:
		// no names to check
	case *ast.Unary:
		switch x.Op {
		case ast.UnaryDeref:
			if name, ok := a.resolvePath(x.X); ok {
				a.handleDerefRead(name, x.Span())
				return
			}
			a.walkExprRead(x.X)
		default:
			a.walkExprRead(x.X)
		}
	case *ast.Binary:
		a.walkExprRead(x.X)
		a.walkExprRead(x.Y)
	case *ast.Assign:
		a.walkAssign(x)
	case *ast.Call:
		a.walkCall(x)
	}
}

// readForMove walks e in move position: a bare name or member path
// transfers ownership; any other expression shape (a call, a nested
// operator) is walked as an ordinary read, since only a named Owner
// can be moved.
func (a *Analyzer) readForMove(e ast.Expr) {
	if path, ok := a.resolvePath(e); ok {
		a.moveName(path, e.Span())
		return
	}
	a.walkExprRead(e)
}

// walkAssign implements the assignment rule: read the RHS in move
// position, write the LHS (set_ownership true for an Owner), and
// delegate pointer bookkeeping to the borrow engine for &x, deref, and
// pointer-to-pointer RHS shapes.
func (a *Analyzer) walkAssign(asg *ast.Assign) {
	lhsName, lhsIsPath := a.resolvePath(asg.LHS)

	switch rhs := asg.RHS.(type) {
	case *ast.Unary:
		switch rhs.Op {
		case ast.UnaryAddr:
			if lhsIsPath {
				a.handleAddressOfAssign(lhsName, rhs.X, asg.Span())
			} else {
				a.walkExprRead(rhs.X)
			}
		case ast.UnaryDeref:
			if ptrName, ok := a.resolvePath(rhs.X); ok {
				a.handleDerefRead(ptrName, asg.Span())
				if lhsIsPath {
					a.copyPointerThroughDeref(lhsName, ptrName, asg.Span())
				}
			} else {
				a.walkExprRead(rhs.X)
			}
		default:
			a.walkExprRead(rhs.X)
		}
	default:
		a.readForMove(asg.RHS)
		if lhsIsPath {
			if rhsName, ok := a.resolvePath(asg.RHS); ok {
				if lhs, _ := a.env.LookupOrCreate(lhsName); lhs.IsRef() {
					if rhsVar, _ := a.env.LookupOrCreate(rhsName); rhsVar.IsRef() {
						a.handlePointerAssign(lhs, rhsVar, asg.Span())
					}
				}
			}
		}
	}

	if !lhsIsPath {
		a.walkExprRead(asg.LHS)
		return
	}
	if lhs, _ := a.env.LookupOrCreate(lhsName); lhs.Type.Kind == types.KindOwner {
		a.setOwnership(lhs, true)
	}
}

// walkCall classifies each call argument: an &x argument is a mutable
// or shared borrow depending on the callee's declared parameter kind
// (unknown signatures pessimize to mutable); any other argument is an
// ordinary move-or-copy read.
func (a *Analyzer) walkCall(call *ast.Call) {
	calleeName := ""
	if ident, ok := call.Callee.(*ast.Ident); ok {
		calleeName = ident.Name
		if _, known := a.env.Funcs.Lookup(calleeName); !known {
			a.report(diag.SevWarning, diag.UndeclaredFunction, call.Span(),
				fmt.Sprintf("call to %q with no recorded signature", calleeName))
		}
	} else {
		a.walkExprRead(call.Callee)
	}

	for i, arg := range call.Args {
		addr, isAddr := arg.(*ast.Unary)
		if isAddr && addr.Op == ast.UnaryAddr {
			name, ok := a.resolvePath(addr.X)
			if !ok {
				a.walkExprRead(addr.X)
				continue
			}
			v, _ := a.env.LookupOrCreate(name)
			kind, _ := a.env.Funcs.ParamKindAt(calleeName, i)
			switch kind {
			case types.ParamMutRef:
				v.ConstRefs = nil
				v.MutRefs = nil
			case types.ParamConstRef:
				v.MutRefs = nil
			}
			continue
		}
		a.readForMove(arg)
	}
}

// bindDeclaratorInit gives a freshly declared variable its initial
// state: an initializer is read in move position; an address-of
// initializer creates a reference; a pointer-typed initializer from
// another pointer aliases it; a bare declaration leaves the inferred
// type as-is (synthesizing a placeholder if it is itself a reference).
func (a *Analyzer) bindDeclaratorInit(v *symbols.Variable, init ast.Expr, span source.Span) {
	if init == nil {
		if v.IsRef() {
			a.synthesizePlaceholder(v)
		}
		return
	}
	if addr, ok := init.(*ast.Unary); ok && addr.Op == ast.UnaryAddr {
		a.handleAddressOfAssign(v.ID.Name, addr.X, span)
		return
	}
	if rhsName, ok := a.resolvePath(init); ok && v.IsRef() {
		if rhsVar, _ := a.env.LookupOrCreate(rhsName); rhsVar.IsRef() {
			a.handlePointerAssign(v, rhsVar, span)
		}
	}
	a.readForMove(init)
	if v.Type.Kind == types.KindOwner {
		a.setOwnership(v, true)
	}
}
