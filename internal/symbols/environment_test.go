package symbols

import (
	"testing"

	"ownc/internal/types"
)

func newTestEnv() *Environment {
	structs := types.NewStructLayout()
	structs.Define("S", []types.FieldLayout{
		{Name: "a", Type: types.Copy()},
	})
	funcs := types.NewSignatureTable()
	return NewEnvironment(structs, funcs)
}

func TestDeclareAndScopeOf(t *testing.T) {
	e := newTestEnv()
	e.Declare("x", types.Copy())
	if got := e.ScopeOf("x"); got != 0 {
		t.Fatalf("ScopeOf(x) = %d, want 0", got)
	}

	e.PushScope()
	e.Declare("y", types.Copy())
	if got := e.ScopeOf("y"); got != 1 {
		t.Fatalf("ScopeOf(y) = %d, want 1", got)
	}
	if got := e.ScopeOf("x"); got != 0 {
		t.Fatalf("ScopeOf(x) from inner scope = %d, want 0", got)
	}
}

func TestPopScopePurgesReverseEdges(t *testing.T) {
	e := newTestEnv()
	p := e.Declare("p", types.MutRef(nil, false, ""))

	e.PushScope()
	x := e.Declare("x", types.Copy())
	x.MutRefs = x.MutRefs.Add(p.ID)
	p.Type.PointsTo = types.NewIdSet(x.ID)

	e.PopScope()

	if len(p.Type.PointsTo) != 0 {
		t.Fatalf("expected p's points_to cleared on scope exit, got %v", p.Type.PointsTo)
	}
}

func TestLookupOrCreateMemberPath(t *testing.T) {
	e := newTestEnv()
	e.Declare("s", types.Owner("S", true))

	v, unresolved := e.LookupOrCreate("s.a")
	if unresolved {
		t.Fatalf("s.a should resolve via the struct layout")
	}
	if v.Type.Kind != types.KindCopy {
		t.Fatalf("s.a kind = %v, want Copy", v.Type.Kind)
	}

	_, unresolved = e.LookupOrCreate("s.nope")
	if !unresolved {
		t.Fatalf("s.nope should be unresolved")
	}
}

func TestOnRefFieldCreatedHook(t *testing.T) {
	e := newTestEnv()
	e.Structs.Define("S", []types.FieldLayout{
		{Name: "p", Type: types.MutRef(nil, false, "")},
	})
	e.Declare("s", types.Owner("S", true))

	var created *Variable
	e.OnRefFieldCreated = func(v *Variable) { created = v }

	v, _ := e.LookupOrCreate("s.p")
	if created != v {
		t.Fatalf("OnRefFieldCreated was not invoked for the lazily materialized field")
	}
}

func TestMergeThenPessimizesOwnership(t *testing.T) {
	e := newTestEnv()
	e.Declare("s", types.Owner("S", true))

	pre := e.Snapshot()
	sv, _ := e.LookupOrCreate("s")
	sv.Type.HasOwnership = false
	thenSnap := e.Snapshot()

	e.Restore(pre)
	e.MergeThen(thenSnap)

	sv, _ = e.LookupOrCreate("s")
	if sv.Type.HasOwnership {
		t.Fatalf("join should pessimize ownership to moved when either branch moved it")
	}
}

func TestMergeThenUnionsPointsTo(t *testing.T) {
	e := newTestEnv()
	e.Declare("a", types.Copy())
	e.Declare("b", types.Copy())
	p := e.Declare("p", types.MutRef(nil, false, ""))

	av, _ := e.LookupOrCreate("a")
	bv, _ := e.LookupOrCreate("b")

	pre := e.Snapshot()
	p.Type.PointsTo = types.NewIdSet(av.ID)
	thenSnap := e.Snapshot()

	e.Restore(pre)
	p2, _ := e.LookupOrCreate("p")
	p2.Type.PointsTo = types.NewIdSet(bv.ID)

	e.MergeThen(thenSnap)

	p3, _ := e.LookupOrCreate("p")
	if !p3.Type.PointsTo.Has(av.ID) || !p3.Type.PointsTo.Has(bv.ID) {
		t.Fatalf("join should union points_to, got %v", p3.Type.PointsTo)
	}
}
