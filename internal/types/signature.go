package types

// ParamKind classifies how a function parameter relates to ownership
// and borrowing at call sites: a mutable borrow, a shared borrow, or a
// plain by-value parameter (Copy or Owner passed by move).
type ParamKind uint8

const (
	ParamValue ParamKind = iota
	ParamConstRef
	ParamMutRef
)

// FunctionSignature is the simplified per-parameter view the call-site
// ownership/borrow rules need: just enough to choose between a mutable
// borrow, a shared borrow, or an ordinary read.
type FunctionSignature struct {
	Params []ParamKind
}

// SignatureTable maps function name to its recorded signature.
type SignatureTable struct {
	byName map[string]FunctionSignature
}

// NewSignatureTable returns an empty signature table.
func NewSignatureTable() *SignatureTable {
	return &SignatureTable{byName: make(map[string]FunctionSignature)}
}

// Define records (or overwrites with a later prototype/definition) a
// function's signature.
func (t *SignatureTable) Define(name string, sig FunctionSignature) {
	t.byName[name] = sig
}

// Lookup returns the recorded signature for name, if any.
func (t *SignatureTable) Lookup(name string) (FunctionSignature, bool) {
	sig, ok := t.byName[name]
	return sig, ok
}

// ParamKindAt returns the parameter kind at index i for the named
// function. It returns ParamMutRef, false when the function or the
// parameter index is unknown: an unknown signature pessimizes every
// pointer argument to a mutable borrow, the conservative choice when
// the callee's real parameter kinds can't be observed.
func (t *SignatureTable) ParamKindAt(name string, i int) (ParamKind, bool) {
	sig, ok := t.byName[name]
	if !ok || i >= len(sig.Params) {
		return ParamMutRef, false
	}
	return sig.Params[i], true
}
