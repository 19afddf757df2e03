package checker

import (
	"strings"
	"testing"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
)

func TestInferLiterals(t *testing.T) {
	cases := []struct {
		expr ast.Expr
		want string
	}{
		{num("42"), "Int"},
		{num("-7"), "Int"},
		{num("3.25"), "Float"},
		{str("hi"), "Text"},
		{&ast.BoolLit{Value: true, Loc: sp()}, "Bool"},
		{list(num("1"), num("2")), "List Int"},
		{&ast.TupleLit{Items: []ast.Expr{num("1"), str("s")}, Loc: sp()}, "(Int, Text)"},
	}
	for _, tc := range cases {
		if got := typeString(inferOne(t, tc.expr)); got != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}
}

func TestInferHeterogeneousListFails(t *testing.T) {
	te := inferOneErr(t, list(num("1"), str("s")), diagnostics.ErrTypeMismatch)
	if !strings.Contains(te.Message, "expected Int") {
		t.Errorf("unexpected message: %s", te.Message)
	}
}

func TestInferUnknownName(t *testing.T) {
	te := inferOneErr(t, ident("nope"), diagnostics.ErrUnknownName)
	if !strings.Contains(te.Message, "'nope'") {
		t.Errorf("unexpected message: %s", te.Message)
	}
}

func TestInferIfBranchesMustAgree(t *testing.T) {
	expr := &ast.IfExpr{
		Cond: ident("True"),
		Then: num("1"),
		Else: str("s"),
		Loc:  sp(),
	}
	inferOneErr(t, expr, diagnostics.ErrTypeMismatch)
}

func TestInferIfCondMustBeBool(t *testing.T) {
	expr := &ast.IfExpr{Cond: num("1"), Then: num("1"), Else: num("2"), Loc: sp()}
	inferOneErr(t, expr, diagnostics.ErrTypeMismatch)
}

func TestInferLambdaAndApplication(t *testing.T) {
	lam := &ast.Lambda{
		Params: []ast.Pattern{bindP("x")},
		Body:   binary("+", ident("x"), num("1")),
		Loc:    sp(),
	}
	if got := typeString(inferOne(t, lam)); got != "Int -> Int" {
		t.Errorf("lambda typed %s, want Int -> Int", got)
	}
	if got := typeString(inferOne(t, call(lam, num("2")))); got != "Int" {
		t.Errorf("application typed %s, want Int", got)
	}
}

func TestInferOptionConstructors(t *testing.T) {
	if got := typeString(inferOne(t, call(ident("Some"), num("1")))); got != "Option Int" {
		t.Errorf("Some 1 typed %s", got)
	}
	if got := typeString(inferOne(t, ident("None"))); got != "Option 'a" {
		t.Errorf("None typed %s", got)
	}
}

func TestInferListIndex(t *testing.T) {
	expr := &ast.IndexExpr{Base: list(num("10"), num("20")), Index: num("1"), Loc: sp()}
	if got := typeString(inferOne(t, expr)); got != "Int" {
		t.Errorf("index typed %s, want Int", got)
	}
}

func TestInferListIndexRequiresInt(t *testing.T) {
	expr := &ast.IndexExpr{Base: list(num("10")), Index: str("x"), Loc: sp()}
	inferOneErr(t, expr, diagnostics.ErrTypeMismatch)
}

func TestInferUnaryNegBacktracksToFloat(t *testing.T) {
	if got := typeString(inferOne(t, &ast.UnaryNeg{Operand: num("1.5"), Loc: sp()})); got != "Float" {
		t.Errorf("negation typed %s, want Float", got)
	}
	if got := typeString(inferOne(t, &ast.UnaryNeg{Operand: num("1"), Loc: sp()})); got != "Int" {
		t.Errorf("negation typed %s, want Int", got)
	}
	te := inferOneErr(t, &ast.UnaryNeg{Operand: str("s"), Loc: sp()}, diagnostics.ErrTypeMismatch)
	if !strings.Contains(te.Message, "unary '-' expects Int or Float") {
		t.Errorf("unexpected message: %s", te.Message)
	}
}

func TestGeneralizationAllowsPolymorphicUse(t *testing.T) {
	expectClean(t,
		def("id", ident("x"), bindP("x")),
		def("use", &ast.TupleLit{
			Items: []ast.Expr{
				call(ident("id"), num("1")),
				call(ident("id"), str("s")),
			},
			Loc: sp(),
		}),
	)
}

func TestMonomorphicParameterDoesNotGeneralize(t *testing.T) {
	// f's parameter is used at Int and Text inside one body; that must
	// fail because a lambda parameter stays monomorphic.
	body := &ast.TupleLit{
		Items: []ast.Expr{
			call(ident("g"), num("1")),
			call(ident("g"), str("s")),
		},
		Loc: sp(),
	}
	diags := checkProgram(t, def("f", body, bindP("g")))
	if !diags.HasErrors() {
		t.Fatal("expected a type error for monomorphic parameter used at two types")
	}
}

func TestDefCheckedAgainstSignature(t *testing.T) {
	expectClean(t,
		sig("inc", funcT(namedT("Int"), namedT("Int"))),
		def("inc", binary("+", ident("x"), num("1")), bindP("x")),
	)
	expectDiagnostic(t, diagnostics.ErrTypeMismatch, "",
		sig("bad", funcT(namedT("Text"), namedT("Int"))),
		def("bad", binary("+", ident("x"), num("1")), bindP("x")),
	)
}

func TestSuffixedLiteralUsesTemplate(t *testing.T) {
	// 1s : Int -> Duration declared as a signature makes `5s` a Duration.
	expectClean(t,
		&ast.TypeDecl{Name: "Duration", Ctors: []ast.CtorDecl{{Name: "Duration", Args: []ast.TypeExpr{namedT("Int")}, Loc: sp()}}, Loc: sp()},
		sig("1s", funcT(namedT("Duration"), namedT("Int"))),
		sig("wait", funcT(namedT("Duration"))),
		def("wait", num("5s")),
	)
	expectDiagnostic(t, diagnostics.ErrUnknownName, "unknown numeric suffix",
		def("oops", num("5parsecs")),
	)
}

func TestRangeProducesIntList(t *testing.T) {
	if got := typeString(inferOne(t, binary("..", num("1"), num("9")))); got != "List Int" {
		t.Errorf("range typed %s, want List Int", got)
	}
}

func TestPipelineAppliesFunction(t *testing.T) {
	lam := &ast.Lambda{Params: []ast.Pattern{bindP("x")}, Body: binary("+", ident("x"), num("1")), Loc: sp()}
	if got := typeString(inferOne(t, binary("|>", num("1"), lam))); got != "Int" {
		t.Errorf("pipeline typed %s, want Int", got)
	}
}
