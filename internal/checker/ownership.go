package checker

import (
	"fmt"
	"strings"

	"ownc/internal/diag"
	"ownc/internal/source"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// prefixes returns every non-empty leading prefix of a dotted name,
// shortest first, including the full name.
func prefixes(name string) []string {
	parts := strings.Split(name, ".")
	out := make([]string, len(parts))
	cur := parts[0]
	out[0] = cur
	for i := 1; i < len(parts); i++ {
		cur += "." + parts[i]
		out[i] = cur
	}
	return out
}

// dominantMovedPrefix reports the shortest proper prefix of name that
// is itself a moved Owner, if any: "a.b.c" read after "a" moved is
// reported against "a", not "a.b.c".
func (a *Analyzer) dominantMovedPrefix(name string) (string, bool) {
	ps := prefixes(name)
	for _, p := range ps[:len(ps)-1] {
		v, _ := a.env.LookupOrCreate(p)
		if v.Type.Kind == types.KindOwner && !v.Type.HasOwnership {
			return p, true
		}
	}
	return "", false
}

// checkName applies the read-time use-of-moved-value check and, for a
// reference-typed variable, the use-site borrow validation. It never
// transfers ownership: non-move read contexts (binary operands,
// conditions, the pointer operand of a dereference) use this, not
// moveName.
func (a *Analyzer) checkName(name string, span source.Span) *symbols.Variable {
	if prefix, ok := a.dominantMovedPrefix(name); ok {
		a.report(diag.SevError, diag.UseOfMovedValue, span,
			fmt.Sprintf("use of moved value %q (moved via %q)", name, prefix))
		return nil
	}
	v, unresolved := a.env.LookupOrCreate(name)
	if unresolved {
		a.report(diag.SevWarning, diag.UnresolvedMember, span,
			fmt.Sprintf("%q has no known declaration", name))
	}
	if v.Type.Kind == types.KindOwner && !v.Type.HasOwnership {
		a.report(diag.SevError, diag.UseOfMovedValue, span,
			fmt.Sprintf("use of moved value %q", name))
		return v
	}
	if v.IsRef() {
		a.validateReferenceUse(v, span)
	}
	return v
}

// moveName is checkName plus the ownership transfer due for a name
// read in move position: the RHS of an assignment or initializer, or
// a plain (non-&) call argument.
func (a *Analyzer) moveName(name string, span source.Span) {
	v := a.checkName(name, span)
	if v == nil || v.Type.Kind != types.KindOwner || !v.Type.HasOwnership {
		return
	}
	a.setOwnership(v, false)
}

// setOwnership sets the has_ownership flag and clears the variable's
// outstanding borrows (a moved or freshly (re)initialized value has no
// valid aliases). Moving away ownership cascades the same state to
// every already-materialized member of the struct, and to any
// unknown-source placeholder reachable through a pointer-typed member.
func (a *Analyzer) setOwnership(v *symbols.Variable, has bool) {
	v.Type.HasOwnership = has
	v.ConstRefs = nil
	v.MutRefs = nil
	a.emitEvent("ownership", fmt.Sprintf("%s has_ownership=%v", v.ID.Name, has))
	if !has {
		a.cascadeMove(v.ID.Scope, v.ID.Name)
	}
}

// cascadeMove marks every already-materialized member "name.*" moved
// too, and for pointer-typed members, their unknown-source placeholder
// if it is itself an Owner.
func (a *Analyzer) cascadeMove(scope int, name string) {
	for _, child := range a.env.ChildMembers(scope, name) {
		cv, _ := a.env.LookupOrCreate(child)
		switch {
		case cv.Type.Kind == types.KindOwner && cv.Type.HasOwnership:
			cv.Type.HasOwnership = false
			cv.ConstRefs = nil
			cv.MutRefs = nil
			a.cascadeMove(scope, child)
		case cv.IsRef():
			if ph, ok := a.env.Placeholder(child); ok && ph.Type.Kind == types.KindOwner && ph.Type.HasOwnership {
				ph.Type.HasOwnership = false
				ph.ConstRefs = nil
				ph.MutRefs = nil
				a.cascadeMove(ph.ID.Scope, ph.ID.Name)
			}
		}
	}
}
