package checker

import (
	"fmt"
	"strings"

	"ownc/internal/ast"
	"ownc/internal/diag"
	"ownc/internal/source"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// rootSegment returns the portion of a dotted name before its first
// '.', or name itself if it has none.
func rootSegment(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// resolvePath flattens an Ident/Member chain into the dotted name the
// environment keys variables by. Arrow access (`p->field`) resolves
// through p's single current pointee rather than literally joining
// "p.field", since the pointee's own Id is what the member path must
// be rooted at. ok is false for any other expression shape, or for an
// arrow access through a reference with no (or more than one) pointee.
func (a *Analyzer) resolvePath(e ast.Expr) (string, bool) {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name, true
	case *ast.Member:
		if x.Arrow {
			base, ok := a.resolvePath(x.X)
			if !ok {
				return "", false
			}
			ptr, _ := a.env.LookupOrCreate(base)
			pointee, ok := singlePointee(ptr)
			if !ok {
				return "", false
			}
			return pointee.Name + "." + x.Field, true
		}
		base, ok := a.resolvePath(x.X)
		if !ok {
			return "", false
		}
		return base + "." + x.Field, true
	default:
		return "", false
	}
}

// singlePointee returns the one Id a reference currently aliases, if
// it aliases exactly one.
func singlePointee(v *symbols.Variable) (types.Id, bool) {
	if v == nil || !v.IsRef() || len(v.Type.PointsTo) != 1 {
		return types.Id{}, false
	}
	for id := range v.Type.PointsTo {
		return id, true
	}
	return types.Id{}, false
}

// unlinkPointer removes ref from every pointee's reverse-edge sets and
// empties its own points_to, the first step of both address-of and
// pointer-to-pointer assignment.
func (a *Analyzer) unlinkPointer(ref *symbols.Variable) {
	for id := range ref.Type.PointsTo {
		if pointee, ok := a.env.Get(id); ok {
			pointee.ConstRefs.Remove(ref.ID)
			pointee.MutRefs.Remove(ref.ID)
		}
	}
	ref.Type.PointsTo = nil
}

// handleAddressOfAssign implements `lhs = &x`. `&s.a.b…` borrows the
// root aggregate: it resolves the first segment and uses it as the
// pointee rather than the deepest named member.
func (a *Analyzer) handleAddressOfAssign(lhsName string, target ast.Expr, span source.Span) {
	path, ok := a.resolvePath(target)
	if !ok {
		a.walkExprRead(target)
		return
	}
	root := rootSegment(path)
	pointee, _ := a.env.LookupOrCreate(root)
	lhs, _ := a.env.LookupOrCreate(lhsName)

	a.unlinkPointer(lhs)
	switch lhs.Type.Kind {
	case types.KindConstRef:
		pointee.MutRefs = nil
		pointee.ConstRefs = pointee.ConstRefs.Add(lhs.ID)
	case types.KindMutRef:
		pointee.ConstRefs = nil
		pointee.MutRefs = types.NewIdSet(lhs.ID)
	default:
		return
	}
	lhs.Type.PointsTo = types.NewIdSet(pointee.ID)
	a.emitEvent("borrow", fmt.Sprintf("%s = &%s", lhsName, root))
}

// handlePointerAssign implements `p2 = p1`: p2's points_to becomes
// p1's, p2 is inserted into each pointee's reverse set matching p2's
// own kind, and a kind mismatch between p1 and p2 themselves is
// reported (coercing to p2's reverse set regardless).
func (a *Analyzer) handlePointerAssign(lhs, rhs *symbols.Variable, span source.Span) {
	a.unlinkPointer(lhs)
	lhs.Type.PointsTo = rhs.Type.PointsTo.Clone()

	switch {
	case rhs.Type.Kind == types.KindMutRef && lhs.Type.Kind == types.KindConstRef:
		a.report(diag.SevError, diag.MutToConstMove, span,
			fmt.Sprintf("moving mutable reference %q to const reference %q", rhs.ID.Name, lhs.ID.Name))
	case rhs.Type.Kind == types.KindConstRef && lhs.Type.Kind == types.KindMutRef:
		a.report(diag.SevError, diag.ConstToMutMove, span,
			fmt.Sprintf("moving const reference %q to mutable reference %q", rhs.ID.Name, lhs.ID.Name))
	}

	for id := range rhs.Type.PointsTo {
		pointee, ok := a.env.Get(id)
		if !ok {
			continue
		}
		switch lhs.Type.Kind {
		case types.KindConstRef:
			pointee.ConstRefs = pointee.ConstRefs.Add(lhs.ID)
		case types.KindMutRef:
			pointee.MutRefs = pointee.MutRefs.Add(lhs.ID)
		}
	}
	a.emitEvent("borrow", fmt.Sprintf("%s = %s", lhs.ID.Name, rhs.ID.Name))
}

// copyPointerThroughDeref implements the pointer-copy half of the
// RHS-dereference rule: `lhs = *p` where p's single pointee is itself
// a reference copies that pointer, so lhs comes to alias the pointee's
// own targets.
func (a *Analyzer) copyPointerThroughDeref(lhsName, ptrName string, span source.Span) {
	ptr, _ := a.env.LookupOrCreate(ptrName)
	pointeeID, ok := singlePointee(ptr)
	if !ok {
		return
	}
	pointee, ok := a.env.Get(pointeeID)
	if !ok || !pointee.IsRef() {
		return
	}
	lhs, _ := a.env.LookupOrCreate(lhsName)
	if !lhs.IsRef() {
		return
	}
	a.handlePointerAssign(lhs, pointee, span)
}

// handleDerefRead implements the RHS-dereference rule: `*p` where p's
// pointee is a Copy or a ConstRef is an ordinary pointer copy;
// anything else (an Owner or a MutRef pointee) cannot be read out from
// behind a reference without violating uniqueness.
func (a *Analyzer) handleDerefRead(ptrName string, span source.Span) {
	v := a.checkName(ptrName, span)
	if v == nil || !v.IsRef() {
		return
	}
	for id := range v.Type.PointsTo {
		pointee, ok := a.env.Get(id)
		if !ok {
			continue
		}
		if pointee.Type.Kind == types.KindOwner || pointee.Type.Kind == types.KindMutRef {
			a.report(diag.SevError, diag.MoveFromBehindReference, span,
				fmt.Sprintf("cannot move non-copy value from behind reference %q", ptrName))
		}
	}
}

// validateReferenceUse implements the use-site validation: an empty
// points_to is an empty reference; a pointee outside the current stack
// depth is dangling; a pointee that no longer names this reference in
// its matching reverse-edge set is invalid.
func (a *Analyzer) validateReferenceUse(v *symbols.Variable, span source.Span) {
	if len(v.Type.PointsTo) == 0 {
		a.report(diag.SevError, diag.EmptyReference, span,
			fmt.Sprintf("reference %q has no value", v.ID.Name))
		return
	}
	for id := range v.Type.PointsTo {
		pointee, ok := a.env.Get(id)
		if !ok || pointee.ID.Scope >= a.env.Depth() {
			a.report(diag.SevError, diag.DanglingReference, span,
				fmt.Sprintf("reference %q is dangling", v.ID.Name))
			continue
		}
		var valid bool
		switch v.Type.Kind {
		case types.KindConstRef:
			valid = pointee.ConstRefs.Has(v.ID)
		case types.KindMutRef:
			valid = pointee.MutRefs.Has(v.ID)
		default:
			valid = true
		}
		if !valid {
			a.report(diag.SevError, diag.InvalidReference, span,
				fmt.Sprintf("reference %q is no longer valid", v.ID.Name))
		}
	}
}
