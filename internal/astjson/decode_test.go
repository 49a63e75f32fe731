package astjson

import (
	"testing"

	"ownc/internal/ast"
)

const fixture = `{
  "decls": [
    {"kind": "struct", "line": 1, "tag": "Point", "fields": [
      {"name": "x", "type": {"typeName": "int"}},
      {"name": "y", "type": {"typeName": "int"}}
    ]},
    {"kind": "proto", "line": 5, "name": "use", "params": []},
    {"kind": "func", "line": 7, "name": "main", "params": [
      {"name": "argc", "typeName": "int"}
    ], "body": [
      {"kind": "decl", "line": 8, "decl": {"kind": "var", "line": 8,
        "specifiers": {"struct": true, "structName": "Point"},
        "declarators": [{"name": "p", "line": 8}]
      }},
      {"kind": "decl", "line": 9, "decl": {"kind": "var", "line": 9,
        "specifiers": {"struct": true, "structName": "Point"},
        "declarators": [{"name": "q", "line": 9, "init": {"kind": "ident", "line": 9, "name": "p"}}]
      }},
      {"kind": "if", "line": 10,
        "cond": {"kind": "ident", "line": 10, "name": "argc"},
        "then": {"kind": "compound", "line": 10, "items": [
          {"kind": "expr", "line": 11, "x": {"kind": "call", "line": 11,
            "callee": {"kind": "ident", "line": 11, "name": "use"},
            "args": [{"kind": "ident", "line": 11, "name": "p"}]
          }}
        ]}
      },
      {"kind": "return", "line": 12}
    ]}
  ]
}`

func TestDecodeFixture(t *testing.T) {
	tu, err := Decode([]byte(fixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tu.Decls) != 3 {
		t.Fatalf("got %d external decls, want 3", len(tu.Decls))
	}

	structDecl, ok := tu.Decls[0].(*ast.Declaration)
	if !ok || structDecl.StructTag != "Point" || len(structDecl.Fields) != 2 {
		t.Fatalf("unexpected struct decl: %+v", tu.Decls[0])
	}

	proto, ok := tu.Decls[1].(*ast.Declaration)
	if !ok || len(proto.Declarators) != 1 || proto.Declarators[0].Declarator.Name != "use" {
		t.Fatalf("unexpected proto decl: %+v", tu.Decls[1])
	}

	fn, ok := tu.Decls[2].(*ast.FunctionDefinition)
	if !ok || fn.Name != "main" {
		t.Fatalf("unexpected func decl: %+v", tu.Decls[2])
	}
	if len(fn.Params) != 1 || fn.Params[0].Declarator.Name != "argc" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.Body.Items) != 4 {
		t.Fatalf("got %d body items, want 4", len(fn.Body.Items))
	}
	if _, ok := fn.Body.Items[2].(*ast.IfStmt); !ok {
		t.Fatalf("expected the third body item to be an if statement, got %T", fn.Body.Items[2])
	}
}

func TestDecodeUnknownExprKind(t *testing.T) {
	_, err := Decode([]byte(`{"decls":[{"kind":"func","line":1,"name":"f","params":[],"body":[
		{"kind":"expr","line":2,"x":{"kind":"bogus","line":2}}
	]}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown expression kind")
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
