package symbols

import (
	"strings"

	"ownc/internal/types"
)

// frame is one scope's name-to-variable mapping.
type frame map[string]*Variable

// Environment is the stack of scope frames the traversal walks
// against, plus the global struct-layout and function-signature tables
// consulted for type information.
type Environment struct {
	frames  []frame
	Structs *types.StructLayout
	Funcs   *types.SignatureTable

	// OnRefFieldCreated, if set, is invoked right after a dotted
	// member path materializes as a reference-typed variable for the
	// first time (a pointer-typed struct field reached lazily). The
	// checker uses it to synthesize the field's unknown-source
	// placeholder without this package needing to know about
	// placeholder construction itself.
	OnRefFieldCreated func(v *Variable)
}

// NewEnvironment returns an environment with a single (global) frame.
func NewEnvironment(structs *types.StructLayout, funcs *types.SignatureTable) *Environment {
	return &Environment{
		frames:  []frame{make(frame)},
		Structs: structs,
		Funcs:   funcs,
	}
}

// Depth returns the number of live scope frames, i.e. the current
// stack depth.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// PushScope opens a fresh innermost frame.
func (e *Environment) PushScope() {
	e.frames = append(e.frames, make(frame))
}

// PopScope purges reverse edges naming anything in the top frame, then
// discards it: when a pointee goes out of scope, any reference that
// named it now points at nothing.
func (e *Environment) PopScope() {
	top := len(e.frames) - 1
	if top < 0 {
		return
	}
	dying := e.frames[top]
	for _, v := range dying {
		for refID := range v.ConstRefs {
			if ref, ok := e.Get(refID); ok {
				ref.Type.PointsTo.Remove(v.ID)
			}
		}
		for refID := range v.MutRefs {
			if ref, ok := e.Get(refID); ok {
				ref.Type.PointsTo.Remove(v.ID)
			}
		}
	}
	e.frames = e.frames[:top]
}

// rootSegment returns the portion of name before the first '.', or
// name itself if it has no member path.
func rootSegment(name string) string {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// splitMemberPath splits "a.b.c" into parent "a.b" and field "c". ok is
// false for a plain identifier.
func splitMemberPath(name string) (parent, field string, ok bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}

// ScopeOf walks frames from innermost outward and returns the index of
// the frame holding name's root segment. Absent names resolve to the
// global frame (index 0).
func (e *Environment) ScopeOf(name string) int {
	root := rootSegment(name)
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][root]; ok {
			return i
		}
	}
	return 0
}

// Get resolves an Id to its Variable by direct frame indexing.
func (e *Environment) Get(id types.Id) (*Variable, bool) {
	if id.Scope < 0 || id.Scope >= len(e.frames) {
		return nil, false
	}
	v, ok := e.frames[id.Scope][id.Name]
	return v, ok
}

// Declare creates name with the given VarType in the current
// (innermost) frame, overwriting any prior binding of the same name in
// that frame. Used for declarations, parameter introduction, and
// re-initialization after a fresh declarator.
func (e *Environment) Declare(name string, vt types.VarType) *Variable {
	scope := len(e.frames) - 1
	v := &Variable{ID: types.Id{Name: name, Scope: scope}, Type: vt}
	e.frames[scope][name] = v
	return v
}

// DeclareGlobal creates name in the outermost (global) frame, used for
// unknown-source placeholders.
func (e *Environment) DeclareGlobal(name string, vt types.VarType) *Variable {
	v := &Variable{ID: types.Id{Name: name, Scope: 0}, Type: vt}
	e.frames[0][name] = v
	return v
}

// EnsurePlaceholder returns the existing "?name" global placeholder, or
// creates one with the given VarType if absent: unknown-source
// placeholders give every reference a concrete, total pointee.
func (e *Environment) EnsurePlaceholder(name string, vt types.VarType) *Variable {
	key := "?" + name
	if v, ok := e.frames[0][key]; ok {
		return v
	}
	return e.DeclareGlobal(key, vt)
}

// Placeholder returns the "?name" global placeholder for name, if one
// has been synthesized for it.
func (e *Environment) Placeholder(name string) (*Variable, bool) {
	v, ok := e.frames[0]["?"+name]
	return v, ok
}

// LookupOrCreate resolves name to its Variable, lazily creating it if
// absent. unresolved is true when the lookup fell back to a default
// Copy type because the name had never been declared, because its
// member path's parent was not a known Owner, or because that Owner's
// struct layout has no such field.
func (e *Environment) LookupOrCreate(name string) (v *Variable, unresolved bool) {
	scope := e.ScopeOf(name)
	return e.lookupOrCreateAt(scope, name)
}

func (e *Environment) lookupOrCreateAt(scope int, name string) (*Variable, bool) {
	if v, ok := e.frames[scope][name]; ok {
		return v, false
	}
	id := types.Id{Name: name, Scope: scope}
	parent, field, isMember := splitMemberPath(name)
	if isMember {
		parentVar, _ := e.lookupOrCreateAt(scope, parent)
		if parentVar.Type.Kind == types.KindOwner && e.Structs != nil {
			if ft, ok := e.Structs.Field(parentVar.Type.StructName, field); ok {
				v := &Variable{ID: id, Type: ft}
				e.frames[scope][name] = v
				if ft.Kind.IsRef() && e.OnRefFieldCreated != nil {
					e.OnRefFieldCreated(v)
				}
				return v, false
			}
		}
		v := &Variable{ID: id, Type: types.Copy()}
		e.frames[scope][name] = v
		return v, true
	}
	v := &Variable{ID: id, Type: types.Copy()}
	e.frames[scope][name] = v
	return v, true
}

// ChildMembers returns the member names known in the same scope as parent
// that are direct children "parent.field" of it, used to cascade a
// whole-struct move across already-materialized members.
func (e *Environment) ChildMembers(scope int, parent string) []string {
	prefix := parent + "."
	var out []string
	for name := range e.frames[scope] {
		if strings.HasPrefix(name, prefix) && !strings.Contains(name[len(prefix):], ".") {
			out = append(out, name)
		}
	}
	return out
}

// Snapshot is a deep copy of every scope frame, used to save the
// pre-branch state before walking an if's then/else arms.
type Snapshot struct {
	frames []frame
}

func cloneFrames(frames []frame) []frame {
	out := make([]frame, len(frames))
	for i, fr := range frames {
		nf := make(frame, len(fr))
		for name, v := range fr {
			nf[name] = v.Clone()
		}
		out[i] = nf
	}
	return out
}

// Snapshot captures the current environment state.
func (e *Environment) Snapshot() Snapshot {
	return Snapshot{frames: cloneFrames(e.frames)}
}

// Restore replaces the environment's state with a previously captured
// snapshot (deep-copied again, so the snapshot itself stays reusable).
func (e *Environment) Restore(s Snapshot) {
	e.frames = cloneFrames(s.frames)
}

// MergeThen merges a "then"-branch snapshot into the current state
// (which holds the "else"-branch's outcome, or the pre-if state when
// there is no else): the ownership meet is conservative (AND), the
// borrow join is a union.
func (e *Environment) MergeThen(thenSnap Snapshot) {
	for i, thenFrame := range thenSnap.frames {
		if i >= len(e.frames) {
			continue
		}
		curFrame := e.frames[i]
		for name, thenVar := range thenFrame {
			if curVar, ok := curFrame[name]; ok {
				mergeVariable(curVar, thenVar)
			} else {
				curFrame[name] = thenVar.Clone()
			}
		}
	}
}

func mergeVariable(cur, then *Variable) {
	switch cur.Type.Kind {
	case types.KindOwner:
		cur.Type.HasOwnership = cur.Type.HasOwnership && then.Type.HasOwnership
	case types.KindConstRef, types.KindMutRef:
		cur.Type.PointsTo = cur.Type.PointsTo.Union(then.Type.PointsTo)
	}
	cur.ConstRefs = cur.ConstRefs.Union(then.ConstRefs)
	cur.MutRefs = cur.MutRefs.Union(then.MutRefs)
}

// GlobalFrame exposes the global scope's variables for dump printing.
func (e *Environment) GlobalFrame() map[string]*Variable {
	return e.frames[0]
}

// Frames exposes every frame for dump printing, innermost last.
func (e *Environment) Frames() []map[string]*Variable {
	out := make([]map[string]*Variable, len(e.frames))
	for i, fr := range e.frames {
		out[i] = fr
	}
	return out
}
