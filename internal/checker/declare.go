package checker

import (
	"ownc/internal/ast"
	"ownc/internal/symbols"
	"ownc/internal/types"
)

// inferDeclaredType derives a VarType from a declarator and its
// specifiers: pointer declarators become references (mutable unless
// const-qualified before the type specifier), struct/typedef-of-struct
// declarators become Owner, and everything else is Copy. Function and
// array derived qualifiers in positions other than the first are not
// modeled.
func inferDeclaredType(specs ast.Specifiers, decl ast.Declarator) types.VarType {
	if decl.IsPointer() {
		if specs.ConstBeforeType {
			return types.ConstRef(nil, specs.IsStruct, specs.StructName)
		}
		return types.MutRef(nil, specs.IsStruct, specs.StructName)
	}
	if specs.IsStruct {
		return types.Owner(specs.StructName, true)
	}
	return types.Copy()
}

// paramKind classifies a parameter for call-site borrow selection: a
// pointer parameter is a mutable borrow unless const-qualified,
// anything else is passed by value.
func paramKind(specs ast.Specifiers, decl ast.Declarator) types.ParamKind {
	if !decl.IsPointer() {
		return types.ParamValue
	}
	if specs.ConstBeforeType {
		return types.ParamConstRef
	}
	return types.ParamMutRef
}

// registerExternalDecl populates the struct layout and function
// signature tables from a top-level Declaration, and declares plain
// global variables in the environment's global frame.
func (a *Analyzer) registerExternalDecl(d *ast.Declaration) {
	if d.StructTag != "" || len(d.Fields) > 0 {
		fields := make([]types.FieldLayout, 0, len(d.Fields))
		for _, f := range d.Fields {
			fields = append(fields, types.FieldLayout{
				Name: f.Declarator.Name,
				Type: inferDeclaredType(f.Specifiers, f.Declarator),
			})
		}
		a.env.Structs.Define(d.StructTag, fields)
	}
	if d.IsTypedef {
		if d.Specifiers.IsStruct {
			a.env.Structs.Alias(d.TypedefName, d.Specifiers.StructName)
		}
		return
	}
	for _, id := range d.Declarators {
		if isFunctionDeclarator(id.Declarator) {
			a.env.Funcs.Define(id.Declarator.Name, buildPrototypeSignature(id.Declarator))
			continue
		}
		vt := inferDeclaredType(d.Specifiers, id.Declarator)
		v := a.env.DeclareGlobal(id.Declarator.Name, vt)
		if vt.Kind.IsRef() {
			a.synthesizePlaceholder(v)
		}
	}
}

func isFunctionDeclarator(d ast.Declarator) bool {
	return len(d.Derived) > 0 && d.Derived[0].Kind == ast.DerivedFunction
}

// buildPrototypeSignature derives a signature from a bare function
// declarator's parameter list: prototypes of functions whose bodies
// are never walked still drive the borrow classification of &x
// arguments at their call sites.
func buildPrototypeSignature(d ast.Declarator) types.FunctionSignature {
	params := d.Derived[0].Params
	sig := types.FunctionSignature{Params: make([]types.ParamKind, len(params))}
	for i, p := range params {
		sig.Params[i] = paramKind(p.Specifiers, p.Declarator)
	}
	return sig
}

// registerFunctionSignature records a function definition's signature
// from its typed parameter list, regardless of whether its body will
// be walked (callees are summarized only by declared parameter
// reference kinds, per the Non-goals).
func (a *Analyzer) registerFunctionSignature(fn *ast.FunctionDefinition) {
	sig := types.FunctionSignature{Params: make([]types.ParamKind, len(fn.Params))}
	for i, p := range fn.Params {
		sig.Params[i] = paramKind(p.Specifiers, p.Declarator)
	}
	a.env.Funcs.Define(fn.Name, sig)
}

// synthesizePlaceholder gives a newly bound reference a concrete
// pointee: an unknown-source global "?name" standing in for storage
// reachable through the pointer. It is used when a pointer enters
// scope as a parameter, a global, a lazily materialized struct field,
// or a local variable declared without an initializer.
func (a *Analyzer) synthesizePlaceholder(ptrVar *symbols.Variable) {
	if !ptrVar.Type.Kind.IsRef() {
		return
	}
	var placeholderType types.VarType
	if ptrVar.Type.PointeeIsStruct {
		placeholderType = types.Owner(ptrVar.Type.PointeeStruct, true)
	} else {
		placeholderType = types.Copy()
	}
	ph := a.env.EnsurePlaceholder(ptrVar.ID.Name, placeholderType)
	ptrVar.Type.PointsTo = types.NewIdSet(ph.ID)
	switch ptrVar.Type.Kind {
	case types.KindConstRef:
		ph.ConstRefs = ph.ConstRefs.Add(ptrVar.ID)
	case types.KindMutRef:
		ph.MutRefs = ph.MutRefs.Add(ptrVar.ID)
	}
}
