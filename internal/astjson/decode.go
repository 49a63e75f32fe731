// Package astjson is the example external driver's AST decoder: it
// turns a JSON fixture into the ast.TranslationUnit the checker
// consumes. Real C lexing and parsing are a separate concern this
// package doesn't take on; it stands in for that external collaborator
// so the CLI and the test suite have a concrete, human-writable input
// format instead of a hand-built Go literal for every fixture.
//
// Each node carries a "line" number instead of a byte offset; the
// driver's line resolver is simply the identity function, since the
// fixture format has no underlying source text to map offsets against.
package astjson

import (
	"encoding/json"
	"fmt"

	"fortio.org/safecast"

	"ownc/internal/ast"
	"ownc/internal/source"
)

// span converts a fixture's signed JSON line number into the unsigned
// offset the core's source.Span expects. The fixture is untrusted
// external input (unlike every other uint32 narrowing in this core,
// which narrows a len() the process itself computed), so the
// conversion is checked rather than a bare cast; a negative or
// overflowing line number becomes offset 0 instead of wrapping.
func span(line int) source.Span {
	off, err := safecast.Conv[uint32](line)
	if err != nil {
		off = 0
	}
	return source.Span{Start: off, End: off}
}

type unit struct {
	Decls []json.RawMessage `json:"decls"`
}

// Decode parses a JSON fixture into a translation unit.
func Decode(data []byte) (*ast.TranslationUnit, error) {
	var u unit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	tu := &ast.TranslationUnit{}
	for _, raw := range u.Decls {
		d, err := decodeExternalDecl(raw)
		if err != nil {
			return nil, err
		}
		tu.Decls = append(tu.Decls, d)
	}
	return tu, nil
}

type head struct {
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

func decodeExternalDecl(raw json.RawMessage) (ast.ExternalDecl, error) {
	var h head
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	switch h.Kind {
	case "struct":
		var n struct {
			Tag    string      `json:"tag"`
			Fields []fieldJSON `json:"fields"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		fields := make([]ast.FieldDecl, 0, len(n.Fields))
		for _, f := range n.Fields {
			fields = append(fields, ast.FieldDecl{
				Specifiers: f.Type.toSpecifiers(),
				Declarator: ast.Declarator{Name: f.Name, Derived: derivedFor(f.Type.Pointer)},
			})
		}
		return &ast.Declaration{Span_: span(h.Line), StructTag: n.Tag, Fields: fields}, nil
	case "typedef":
		var n struct {
			Name   string `json:"name"`
			Struct string `json:"struct"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.Declaration{
			Span_:       span(h.Line),
			Specifiers:  ast.Specifiers{IsStruct: true, StructName: n.Struct},
			IsTypedef:   true,
			TypedefName: n.Name,
		}, nil
	case "var":
		var n struct {
			Specifiers typeJSON          `json:"specifiers"`
			Declarators []declaratorJSON `json:"declarators"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		decls := make([]ast.InitDeclarator, 0, len(n.Declarators))
		for _, d := range n.Declarators {
			init, err := decodeOptExpr(d.Init)
			if err != nil {
				return nil, err
			}
			decls = append(decls, ast.InitDeclarator{
				Declarator: ast.Declarator{Name: d.Name, Derived: derivedFor(d.Pointer)},
				Init:       init,
				Span_:      span(d.Line),
			})
		}
		return &ast.Declaration{
			Span_:       span(h.Line),
			Specifiers:  n.Specifiers.toSpecifiers(),
			Declarators: decls,
		}, nil
	case "proto":
		var n struct {
			Name   string      `json:"name"`
			Params []paramJSON `json:"params"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		params := make([]ast.ParamDecl, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, ast.ParamDecl{
				Specifiers: p.toSpecifiers(),
				Declarator: ast.Declarator{Name: p.Name, Derived: derivedFor(p.Pointer)},
			})
		}
		return &ast.Declaration{
			Span_: span(h.Line),
			Declarators: []ast.InitDeclarator{{
				Declarator: ast.Declarator{Name: n.Name, Derived: []ast.DerivedDeclarator{{Kind: ast.DerivedFunction, Params: params}}},
				Span_:      span(h.Line),
			}},
		}, nil
	case "func":
		var n struct {
			Name   string          `json:"name"`
			Params []paramJSON     `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		params := make([]ast.ParamDecl, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, ast.ParamDecl{
				Specifiers: p.toSpecifiers(),
				Declarator: ast.Declarator{Name: p.Name, Derived: derivedFor(p.Pointer)},
			})
		}
		items, err := decodeStmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDefinition{
			Span_:  span(h.Line),
			Name:   n.Name,
			Params: params,
			Body:   &ast.CompoundStmt{Span_: span(h.Line), Items: items},
		}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown external decl kind %q", h.Kind)
	}
}

type fieldJSON struct {
	Name string  `json:"name"`
	Type typeJSON `json:"type"`
}

type typeJSON struct {
	Struct     bool   `json:"struct"`
	StructName string `json:"structName"`
	Const      bool   `json:"const"`
	Pointer    bool   `json:"pointer"`
	TypeName   string `json:"typeName"`
}

func (t typeJSON) toSpecifiers() ast.Specifiers {
	return ast.Specifiers{
		ConstBeforeType: t.Const,
		IsStruct:        t.Struct,
		StructName:      t.StructName,
		TypeName:        t.TypeName,
	}
}

type paramJSON = typeNamedJSON

type typeNamedJSON struct {
	Name       string `json:"name"`
	Struct     bool   `json:"struct"`
	StructName string `json:"structName"`
	Const      bool   `json:"const"`
	Pointer    bool   `json:"pointer"`
	TypeName   string `json:"typeName"`
}

func (p typeNamedJSON) toSpecifiers() ast.Specifiers {
	return ast.Specifiers{
		ConstBeforeType: p.Const,
		IsStruct:        p.Struct,
		StructName:      p.StructName,
		TypeName:        p.TypeName,
	}
}

type declaratorJSON struct {
	Name    string          `json:"name"`
	Pointer bool            `json:"pointer"`
	Init    json.RawMessage `json:"init"`
	Line    int             `json:"line"`
}

func derivedFor(pointer bool) []ast.DerivedDeclarator {
	if !pointer {
		return nil
	}
	return []ast.DerivedDeclarator{{Kind: ast.DerivedPointer}}
}

func decodeStmts(raws []json.RawMessage) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raws))
	for _, raw := range raws {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	var h head
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	sp := span(h.Line)
	switch h.Kind {
	case "compound":
		var n struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		items, err := decodeStmts(n.Items)
		if err != nil {
			return nil, err
		}
		return &ast.CompoundStmt{Span_: sp, Items: items}, nil
	case "decl":
		var n struct {
			Decl json.RawMessage `json:"decl"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		d, err := decodeExternalDecl(n.Decl)
		if err != nil {
			return nil, err
		}
		decl, ok := d.(*ast.Declaration)
		if !ok {
			return nil, fmt.Errorf("astjson: block-scope decl must be a declaration, not %T", d)
		}
		return &ast.DeclStmt{Span_: sp, Decl: decl}, nil
	case "expr":
		var n struct {
			X json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Span_: sp, X: x}, nil
	case "if":
		var n struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmt(n.Then)
		if err != nil {
			return nil, err
		}
		var elseStmt ast.Stmt
		if len(n.Else) > 0 {
			elseStmt, err = decodeStmt(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfStmt{Span_: sp, Cond: cond, Then: then, Else: elseStmt}, nil
	case "while":
		var n struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Span_: sp, Cond: cond, Body: body}, nil
	case "do_while":
		var n struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{Span_: sp, Cond: cond, Body: body}, nil
	case "for":
		var n struct {
			Init json.RawMessage `json:"init"`
			Cond json.RawMessage `json:"cond"`
			Post json.RawMessage `json:"post"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		var initStmt ast.Stmt
		var err error
		if len(n.Init) > 0 {
			initStmt, err = decodeStmt(n.Init)
			if err != nil {
				return nil, err
			}
		}
		cond, err := decodeOptExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		post, err := decodeOptExpr(n.Post)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmt(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Span_: sp, Init: initStmt, Cond: cond, Post: post, Body: body}, nil
	case "return":
		var n struct {
			X json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeOptExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Span_: sp, X: x}, nil
	case "empty":
		return &ast.EmptyStmt{Span_: sp}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", h.Kind)
	}
}

func decodeOptExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return decodeExpr(raw)
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	var h head
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	sp := span(h.Line)
	switch h.Kind {
	case "ident":
		var n struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.Ident{Span_: sp, Name: n.Name}, nil
	case "int":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return &ast.IntLit{Span_: sp, Value: n.Value}, nil
	case "member":
		var n struct {
			X     json.RawMessage `json:"x"`
			Field string          `json:"field"`
			Arrow bool            `json:"arrow"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		return &ast.Member{Span_: sp, X: x, Field: n.Field, Arrow: n.Arrow}, nil
	case "addr", "deref", "unary":
		var n struct {
			Op string          `json:"op"`
			X  json.RawMessage `json:"x"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		op := ast.UnaryOther
		switch {
		case h.Kind == "addr" || n.Op == "&":
			op = ast.UnaryAddr
		case h.Kind == "deref" || n.Op == "*":
			op = ast.UnaryDeref
		}
		return &ast.Unary{Span_: sp, Op: op, X: x}, nil
	case "binary":
		var n struct {
			X json.RawMessage `json:"x"`
			Y json.RawMessage `json:"y"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		x, err := decodeExpr(n.X)
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(n.Y)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Span_: sp, X: x, Y: y}, nil
	case "assign":
		var n struct {
			LHS json.RawMessage `json:"lhs"`
			RHS json.RawMessage `json:"rhs"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		lhs, err := decodeExpr(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpr(n.RHS)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Span_: sp, LHS: lhs, RHS: rhs}, nil
	case "call":
		var n struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		callee, err := decodeExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(n.Args))
		for _, a := range n.Args {
			e, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		return &ast.Call{Span_: sp, Callee: callee, Args: args}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", h.Kind)
	}
}
