package ast

import (
	"testing"
)

func TestDecodeModule(t *testing.T) {
	data := []byte(`{
		"name": "main",
		"span": {"file": "main.lum", "start": {"line": 1, "column": 1}, "end": {"line": 9, "column": 1}},
		"items": [
			{"kind": "sig", "name": "inc",
			 "type": {"kind": "func",
				"param": {"kind": "named", "name": "Int"},
				"result": {"kind": "named", "name": "Int"}}},
			{"kind": "def", "name": "inc",
			 "params": [{"kind": "bind", "name": "x"}],
			 "body": {"kind": "binary", "op": "+",
				"left": {"kind": "ident", "name": "x"},
				"right": {"kind": "number", "text": "1"}}}
		]
	}`)
	mod, err := DecodeModule(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mod.Name != "main" || len(mod.Items) != 2 {
		t.Fatalf("module = %q with %d items", mod.Name, len(mod.Items))
	}

	sig, ok := mod.Items[0].(*TypeSig)
	if !ok || sig.Name != "inc" {
		t.Fatalf("first item = %T", mod.Items[0])
	}
	if _, ok := sig.Type.(*FuncTypeExpr); !ok {
		t.Errorf("sig type = %T, want *FuncTypeExpr", sig.Type)
	}

	def, ok := mod.Items[1].(*Def)
	if !ok || def.Name != "inc" || len(def.Params) != 1 {
		t.Fatalf("second item = %T", mod.Items[1])
	}
	bin, ok := def.Body.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("body = %T", def.Body)
	}
	if id, ok := bin.Left.(*Ident); !ok || id.Name != "x" {
		t.Errorf("left operand = %#v", bin.Left)
	}
	if num, ok := bin.Right.(*NumberLit); !ok || num.Text != "1" {
		t.Errorf("right operand = %#v", bin.Right)
	}
}

func TestDecodeMatchWithPatterns(t *testing.T) {
	data := []byte(`{
		"kind": "match",
		"scrutinee": {"kind": "ident", "name": "o"},
		"arms": [
			{"pattern": {"kind": "ctor", "name": "Some", "args": [{"kind": "bind", "name": "x"}]},
			 "body": {"kind": "ident", "name": "x"}},
			{"pattern": {"kind": "wildcard"},
			 "guard": {"kind": "bool", "bool": true},
			 "body": {"kind": "number", "text": "0"}}
		]
	}`)
	expr, err := decodeExpr(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	match, ok := expr.(*MatchExpr)
	if !ok || len(match.Arms) != 2 {
		t.Fatalf("decoded %T with %d arms", expr, len(match.Arms))
	}
	ctor, ok := match.Arms[0].Pattern.(*CtorPattern)
	if !ok || ctor.Name != "Some" || len(ctor.Args) != 1 {
		t.Fatalf("first pattern = %#v", match.Arms[0].Pattern)
	}
	if match.Arms[0].Guard != nil {
		t.Error("first arm should have no guard")
	}
	if match.Arms[1].Guard == nil {
		t.Error("second arm should have a guard")
	}
}

func TestDecodeProgramRejectsUnknownKind(t *testing.T) {
	if _, err := decodeExpr([]byte(`{"kind": "mystery"}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDecodeRecordAndPatch(t *testing.T) {
	data := []byte(`{
		"kind": "record",
		"fields": [
			{"spread": true, "expr": {"kind": "ident", "name": "base"}},
			{"path": [{"kind": "field", "name": "x"}],
			 "expr": {"kind": "number", "text": "1"}}
		]
	}`)
	expr, err := decodeExpr(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	rec, ok := expr.(*RecordLit)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("decoded %T with %d fields", expr, len(rec.Fields))
	}
	if !rec.Fields[0].Spread {
		t.Error("first field should be a spread")
	}
	if len(rec.Fields[1].Path) != 1 || rec.Fields[1].Path[0].Name != "x" {
		t.Errorf("second field path = %#v", rec.Fields[1].Path)
	}
}
