package checker

import (
	"testing"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
)

func matchOn(scrutinee ast.Expr, arms ...ast.MatchArm) *ast.MatchExpr {
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Loc: sp()}
}

func arm(p ast.Pattern, body ast.Expr) ast.MatchArm {
	return ast.MatchArm{Pattern: p, Body: body, Loc: sp()}
}

func guardedArm(p ast.Pattern, guard, body ast.Expr) ast.MatchArm {
	return ast.MatchArm{Pattern: p, Guard: guard, Body: body, Loc: sp()}
}

func TestMatchNonExhaustiveBool(t *testing.T) {
	expectDiagnostic(t, diagnostics.ErrNonExhaustiveMatch, "missing: False",
		sig("f", funcT(namedT("Int"), namedT("Bool"))),
		def("f", matchOn(ident("b"), arm(ctorP("True"), num("1"))), bindP("b")),
	)
}

func TestMatchExhaustiveBool(t *testing.T) {
	expectClean(t,
		sig("f", funcT(namedT("Int"), namedT("Bool"))),
		def("f", matchOn(ident("b"),
			arm(ctorP("True"), num("1")),
			arm(ctorP("False"), num("0")),
		), bindP("b")),
	)
}

func TestMatchCatchAllIsExhaustive(t *testing.T) {
	expectClean(t,
		sig("f", funcT(namedT("Int"), namedT("Bool"))),
		def("f", matchOn(ident("b"), arm(wildP(), num("1"))), bindP("b")),
	)
}

func TestMatchOptionMissingSome(t *testing.T) {
	expectDiagnostic(t, diagnostics.ErrNonExhaustiveMatch, "missing: Some",
		sig("f", funcT(namedT("Int"), namedT("Option", namedT("Int")))),
		def("f", matchOn(ident("o"), arm(ctorP("None"), num("0"))), bindP("o")),
	)
}

func TestMatchGuardedCatchAllDoesNotCount(t *testing.T) {
	// A guarded wildcard can fail at runtime, so the match is still
	// non-exhaustive.
	expectDiagnostic(t, diagnostics.ErrNonExhaustiveMatch, "missing:",
		sig("f", funcT(namedT("Int"), namedT("Bool"))),
		def("f", matchOn(ident("b"),
			guardedArm(wildP(), ident("b"), num("1")),
		), bindP("b")),
	)
}

func TestMatchUnreachableAfterCatchAll(t *testing.T) {
	expectDiagnostic(t, diagnostics.WarnUnreachableArm, "previous arm matches everything",
		sig("f", funcT(namedT("Int"), namedT("Bool"))),
		def("f", matchOn(ident("b"),
			arm(wildP(), num("1")),
			arm(ctorP("True"), num("2")),
		), bindP("b")),
	)
}

func TestMatchRepeatedConstructorUnreachable(t *testing.T) {
	expectDiagnostic(t, diagnostics.WarnUnreachableArm, "constructor 'Some' already matched",
		sig("f", funcT(namedT("Int"), namedT("Option", namedT("Int")))),
		def("f", matchOn(ident("o"),
			arm(ctorP("Some", wildP()), num("1")),
			arm(ctorP("Some", bindP("x")), num("2")),
			arm(ctorP("None"), num("0")),
		), bindP("o")),
	)
}

func TestMatchCtorWithLiteralArgStillMentioned(t *testing.T) {
	// `Some 5` only matches one value, but Some is mentioned, so the
	// match is not reported as missing it.
	expectClean(t,
		sig("f", funcT(namedT("Int"), namedT("Option", namedT("Int")))),
		def("f", matchOn(ident("o"),
			arm(ctorP("Some", &ast.LiteralPattern{Lit: num("5"), Loc: sp()}), num("1")),
			arm(ctorP("None"), num("0")),
		), bindP("o")),
	)
}

func TestMatchGuardedCtorStillMentioned(t *testing.T) {
	expectClean(t,
		sig("f", funcT(namedT("Int"), namedT("Bool"), namedT("Option", namedT("Int")))),
		def("f", matchOn(ident("o"),
			guardedArm(ctorP("Some", bindP("x")), ident("g"), ident("x")),
			arm(ctorP("None"), num("0")),
		), bindP("g"), bindP("o")),
	)
}

func TestMatchUserDeclaredADT(t *testing.T) {
	shape := &ast.TypeDecl{
		Name: "Shape",
		Ctors: []ast.CtorDecl{
			{Name: "Circle", Args: []ast.TypeExpr{namedT("Float")}, Loc: sp()},
			{Name: "Square", Args: []ast.TypeExpr{namedT("Float")}, Loc: sp()},
			{Name: "Dot", Loc: sp()},
		},
		Loc: sp(),
	}
	expectDiagnostic(t, diagnostics.ErrNonExhaustiveMatch, "missing: Square, Dot",
		shape,
		sig("f", funcT(namedT("Float"), namedT("Shape"))),
		def("f", matchOn(ident("s"),
			arm(ctorP("Circle", bindP("r")), ident("r")),
		), bindP("s")),
	)
}

func TestMatchWithoutScrutineeTypesAsFunction(t *testing.T) {
	sugar := &ast.MatchExpr{
		Arms: []ast.MatchArm{
			arm(ctorP("True"), num("1")),
			arm(ctorP("False"), num("0")),
		},
		Loc: sp(),
	}
	if got := typeString(inferOne(t, sugar)); got != "Bool -> Int" {
		t.Errorf("match sugar typed %s, want Bool -> Int", got)
	}
}

func TestMatchArmBodiesMustAgree(t *testing.T) {
	expr := matchOn(ident("True"),
		arm(ctorP("True"), num("1")),
		arm(ctorP("False"), str("s")),
	)
	inferOneErr(t, expr, diagnostics.ErrTypeMismatch)
}

func TestMatchPatternBindsVariable(t *testing.T) {
	expr := matchOn(call(ident("Some"), num("3")),
		arm(ctorP("Some", bindP("x")), binary("+", ident("x"), num("1"))),
		arm(ctorP("None"), num("0")),
	)
	if got := typeString(inferOne(t, expr)); got != "Int" {
		t.Errorf("match typed %s, want Int", got)
	}
}

func TestMatchOnIntSkipsExhaustiveness(t *testing.T) {
	// Int has no constructor table; only reachability is analyzed.
	expectClean(t,
		sig("f", funcT(namedT("Int"), namedT("Int"))),
		def("f", matchOn(ident("n"),
			arm(&ast.LiteralPattern{Lit: num("0"), Loc: sp()}, num("1")),
			arm(wildP(), num("2")),
		), bindP("n")),
	)
}
