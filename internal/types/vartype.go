package types

// Kind tags the VarType union.
type Kind uint8

const (
	// KindCopy is a scalar or a pointer-to-scalar whose value is
	// freely duplicable: never moved, never produces a borrow
	// diagnostic.
	KindCopy Kind = iota
	// KindOwner is a struct value whose assignment transfers
	// responsibility.
	KindOwner
	// KindConstRef is a shared, read-only reference.
	KindConstRef
	// KindMutRef is an exclusive, mutable reference.
	KindMutRef
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindOwner:
		return "owner"
	case KindConstRef:
		return "const_ref"
	case KindMutRef:
		return "mut_ref"
	default:
		return "unknown"
	}
}

// IsRef reports whether the kind is one of the two reference kinds.
func (k Kind) IsRef() bool {
	return k == KindConstRef || k == KindMutRef
}

// VarType is the tagged union over Copy, Owner, ConstRef, or MutRef.
// Only the fields relevant to Kind are meaningful; the zero value is a
// Copy type.
type VarType struct {
	Kind Kind

	// Owner fields.
	StructName   string
	HasOwnership bool

	// ConstRef/MutRef fields: the set of variables the reference
	// currently aliases. A set rather than a single Id because the
	// branch-merge join widens it.
	PointsTo IdSet

	// PointeeIsStruct/PointeeStruct record the reference's static
	// pointee type (from the declaration's specifiers), used only to
	// pick Owner vs. Copy when an unknown-source placeholder is
	// synthesized for this reference. They play no part in the dynamic
	// points-to bookkeeping.
	PointeeIsStruct bool
	PointeeStruct   string
}

// Copy returns the Copy VarType.
func Copy() VarType {
	return VarType{Kind: KindCopy}
}

// Owner returns an Owner VarType for the given struct, with the given
// initial ownership state.
func Owner(structName string, hasOwnership bool) VarType {
	return VarType{Kind: KindOwner, StructName: structName, HasOwnership: hasOwnership}
}

// ConstRef returns a ConstRef VarType pointing to the given set (may be
// empty), whose pointee's static type is described by isStruct/structName.
func ConstRef(pointsTo IdSet, isStruct bool, structName string) VarType {
	return VarType{Kind: KindConstRef, PointsTo: pointsTo, PointeeIsStruct: isStruct, PointeeStruct: structName}
}

// MutRef returns a MutRef VarType pointing to the given set (may be
// empty), whose pointee's static type is described by isStruct/structName.
func MutRef(pointsTo IdSet, isStruct bool, structName string) VarType {
	return VarType{Kind: KindMutRef, PointsTo: pointsTo, PointeeIsStruct: isStruct, PointeeStruct: structName}
}

// Clone returns a deep-enough copy of the VarType (the PointsTo set is
// cloned so branch snapshots don't alias each other's mutations).
func (t VarType) Clone() VarType {
	t.PointsTo = t.PointsTo.Clone()
	return t
}
