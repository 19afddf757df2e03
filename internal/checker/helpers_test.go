package checker

import (
	"strings"
	"testing"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

var spanLine int

// sp allocates a distinct span per call, so diagnostics from different
// nodes never collapse in the deduplicating set.
func sp() diagnostics.Span {
	spanLine++
	return diagnostics.Span{
		File:  "test.lum",
		Start: diagnostics.Pos{Line: spanLine, Column: 1},
		End:   diagnostics.Pos{Line: spanLine, Column: 2},
	}
}

func ident(name string) *ast.Ident           { return &ast.Ident{Name: name, Loc: sp()} }
func num(text string) *ast.NumberLit         { return &ast.NumberLit{Text: text, Loc: sp()} }
func str(value string) *ast.StringLit        { return &ast.StringLit{Value: value, Loc: sp()} }
func call(fn ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Func: fn, Args: args, Loc: sp()}
}
func binary(op string, left, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: sp()}
}
func list(items ...ast.Expr) *ast.ListLit {
	out := &ast.ListLit{Loc: sp()}
	for _, item := range items {
		out.Items = append(out.Items, ast.ListItem{Expr: item, Loc: item.Span()})
	}
	return out
}
func bindP(name string) *ast.BindPattern    { return &ast.BindPattern{Name: name, Loc: sp()} }
func wildP() *ast.WildcardPattern           { return &ast.WildcardPattern{Loc: sp()} }
func ctorP(name string, args ...ast.Pattern) *ast.CtorPattern {
	return &ast.CtorPattern{Name: name, Args: args, Loc: sp()}
}

func namedT(name string, args ...ast.TypeExpr) *ast.NamedType {
	return &ast.NamedType{Name: name, Args: args, Loc: sp()}
}
func varT(name string) *ast.VarType { return &ast.VarType{Name: name, Loc: sp()} }

// funcT builds a curried function type expression from parameters and a
// result.
func funcT(result ast.TypeExpr, params ...ast.TypeExpr) ast.TypeExpr {
	out := result
	for i := len(params) - 1; i >= 0; i-- {
		out = &ast.FuncTypeExpr{Param: params[i], Result: out, Loc: sp()}
	}
	return out
}

func sig(name string, t ast.TypeExpr) *ast.TypeSig {
	return &ast.TypeSig{Name: name, Type: t, Loc: sp()}
}

func def(name string, body ast.Expr, params ...ast.Pattern) *ast.Def {
	return &ast.Def{Name: name, Params: params, Body: body, Loc: sp()}
}

func module(name string, items ...ast.ModuleItem) *ast.Module {
	return &ast.Module{Name: name, Items: items, Loc: sp()}
}

// inferOne infers a standalone expression in a fresh checker and returns
// the resolved type.
func inferOne(t *testing.T, expr ast.Expr) typesystem.Type {
	t.Helper()
	c := New()
	env := c.builtins.Child()
	ty, err := c.Infer(expr, env)
	if err != nil {
		t.Fatalf("unexpected inference error: %v", err)
	}
	return c.subst.Apply(ty)
}

// inferOneErr infers a standalone expression expecting an error with the
// given code.
func inferOneErr(t *testing.T, expr ast.Expr, code diagnostics.Code) *TypeError {
	t.Helper()
	c := New()
	env := c.builtins.Child()
	_, err := c.Infer(expr, env)
	if err == nil {
		t.Fatalf("expected error %s, got none", code)
	}
	te, ok := err.(*TypeError)
	if !ok {
		t.Fatalf("expected *TypeError, got %T: %v", err, err)
	}
	if te.Code != code {
		t.Fatalf("expected error code %s, got %s: %s", code, te.Code, te.Message)
	}
	return te
}

// checkProgram runs CheckModules over one module's items and returns the
// diagnostics.
func checkProgram(t *testing.T, items ...ast.ModuleItem) *diagnostics.Set {
	t.Helper()
	c := New()
	return c.CheckModules([]*ast.Module{module("main", items...)})
}

// expectClean asserts that checking the items produces no diagnostics.
func expectClean(t *testing.T, items ...ast.ModuleItem) {
	t.Helper()
	diags := checkProgram(t, items...)
	if diags.Len() != 0 {
		var msgs []string
		for _, d := range diags.Items() {
			msgs = append(msgs, d.Error())
		}
		t.Fatalf("expected no diagnostics, got:\n%s", strings.Join(msgs, "\n"))
	}
}

// expectDiagnostic asserts that checking produces a diagnostic with the
// given code whose message contains substr.
func expectDiagnostic(t *testing.T, code diagnostics.Code, substr string, items ...ast.ModuleItem) {
	t.Helper()
	diags := checkProgram(t, items...)
	for _, d := range diags.Items() {
		if d.Code == code && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags.Items() {
		msgs = append(msgs, d.Error())
	}
	t.Fatalf("expected diagnostic %s containing %q, got:\n%s", code, substr, strings.Join(msgs, "\n"))
}

func typeString(t typesystem.Type) string {
	return typesystem.NewPrinter().Print(t)
}
