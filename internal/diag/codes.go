package diag

// Code identifies the class of a diagnostic. The taxonomy mirrors the
// error kinds the ownership and borrow engines can emit.
type Code uint16

const (
	UnknownCode Code = 0

	// Ownership engine.
	UseOfMovedValue  Code = 100
	UnresolvedMember Code = 101

	// Borrow engine.
	MoveFromBehindReference Code = 200
	MutToConstMove          Code = 201
	ConstToMutMove          Code = 202
	DanglingReference       Code = 203
	InvalidReference        Code = 204
	EmptyReference          Code = 205

	// Call resolution.
	UndeclaredFunction Code = 300
)

var codeText = map[Code]string{
	UnknownCode:             "unknown",
	UseOfMovedValue:         "use of moved value",
	UnresolvedMember:        "unresolved member",
	MoveFromBehindReference: "cannot move non-copy value from behind a reference",
	MutToConstMove:          "moving mutable reference to const reference",
	ConstToMutMove:          "moving const reference to mutable reference",
	DanglingReference:       "reference to out-of-scope variable",
	InvalidReference:        "invalid reference",
	EmptyReference:          "reference to no value",
	UndeclaredFunction:      "call to function with no recorded signature",
}

// String returns the human-readable label for the diagnostic class.
func (c Code) String() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return "unknown"
}
