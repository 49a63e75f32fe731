// Package symbols implements the scope-stacked environment the checker
// walks the AST against: named variables, their VarTypes, and the
// reverse-edge bookkeeping the borrow engine relies on.
package symbols

import "ownc/internal/types"

// Variable bundles an Id, its VarType, and the two reverse-edge sets
// naming references that currently claim to point at it.
type Variable struct {
	ID   types.Id
	Type types.VarType

	// ConstRefs/MutRefs name references that currently claim to
	// alias this variable. Invariant: for r in v.ConstRefs, r's
	// VarType is ConstRef and v.ID is in r's PointsTo (symmetrically
	// for MutRefs).
	ConstRefs types.IdSet
	MutRefs   types.IdSet
}

// Clone returns a deep-enough copy for branch snapshotting: the
// VarType's PointsTo set and both reverse-edge sets are copied so
// mutating the clone never affects the original.
func (v *Variable) Clone() *Variable {
	if v == nil {
		return nil
	}
	return &Variable{
		ID:        v.ID,
		Type:      v.Type.Clone(),
		ConstRefs: v.ConstRefs.Clone(),
		MutRefs:   v.MutRefs.Clone(),
	}
}

// IsOwner reports whether the variable holds an Owner VarType.
func (v *Variable) IsOwner() bool {
	return v.Type.Kind == types.KindOwner
}

// IsRef reports whether the variable holds a ConstRef or MutRef
// VarType.
func (v *Variable) IsRef() bool {
	return v.Type.Kind.IsRef()
}
