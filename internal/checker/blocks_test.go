package checker

import (
	"testing"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
)

func block(kind ast.BlockKind, monad string, items ...ast.BlockItem) *ast.BlockExpr {
	return &ast.BlockExpr{Kind: kind, Monad: monad, Items: items, Loc: sp()}
}

func letItem(name string, value ast.Expr) ast.BlockItem {
	return ast.BlockItem{Kind: ast.ItemLet, Pattern: bindP(name), Expr: value, Loc: sp()}
}

func bindItem(name string, value ast.Expr) ast.BlockItem {
	return ast.BlockItem{Kind: ast.ItemBind, Pattern: bindP(name), Expr: value, Loc: sp()}
}

func exprItem(value ast.Expr) ast.BlockItem {
	return ast.BlockItem{Kind: ast.ItemExpr, Expr: value, Loc: sp()}
}

func yieldItem(value ast.Expr) ast.BlockItem {
	return ast.BlockItem{Kind: ast.ItemYield, Expr: value, Loc: sp()}
}

func filterItem(cond ast.Expr) ast.BlockItem {
	return ast.BlockItem{Kind: ast.ItemFilter, Expr: cond, Loc: sp()}
}

func TestPlainBlockThreadsLets(t *testing.T) {
	b := block(ast.BlockPlain, "",
		letItem("x", num("1")),
		exprItem(binary("+", ident("x"), num("2"))),
	)
	if got := typeString(inferOne(t, b)); got != "Int" {
		t.Errorf("block typed %s, want Int", got)
	}
}

func TestEmptyBlockIsUnit(t *testing.T) {
	if got := typeString(inferOne(t, block(ast.BlockPlain, ""))); got != "Unit" {
		t.Errorf("empty block typed %s, want Unit", got)
	}
}

func TestPlainBlockRejectsBind(t *testing.T) {
	b := block(ast.BlockPlain, "", bindItem("x", num("1")))
	inferOneErr(t, b, diagnostics.ErrTypeMismatch)
}

func TestDoEffectBlock(t *testing.T) {
	b := block(ast.BlockDo, "Effect",
		bindItem("x", call(ident("pure"), num("1"))),
		exprItem(call(ident("pure"), binary("+", ident("x"), num("1")))),
	)
	if got := typeString(inferOne(t, b)); got != "Effect 'a Int" {
		t.Errorf("do block typed %s, want Effect 'a Int", got)
	}
}

func TestDoBlockSharesErrorType(t *testing.T) {
	// fail pins the error side; a later pure must not change it.
	expectClean(t,
		sig("prog", funcT(namedT("Effect", namedT("Text"), namedT("Int")))),
		def("prog", block(ast.BlockDo, "Effect",
			bindItem("x", call(ident("pure"), num("1"))),
			exprItem(call(ident("fail"), str("boom"))),
		)),
	)
}

func TestDoResultBlock(t *testing.T) {
	b := block(ast.BlockDo, "Result",
		bindItem("x", call(ident("Ok"), num("1"))),
		exprItem(call(ident("Ok"), binary("+", ident("x"), num("1")))),
	)
	if got := typeString(inferOne(t, b)); got != "Result 'a Int" {
		t.Errorf("do Result block typed %s, want Result 'a Int", got)
	}
}

func TestDoBlockBindExtractsValue(t *testing.T) {
	// x is the Text inside the Effect, so Text + Int has no operator.
	b := block(ast.BlockDo, "Effect",
		bindItem("x", call(ident("pure"), str("s"))),
		exprItem(call(ident("pure"), binary("+", ident("x"), num("1")))),
	)
	inferOneErr(t, b, diagnostics.ErrNoOverload)
}

func TestGenerateBlockFromList(t *testing.T) {
	b := block(ast.BlockGenerate, "",
		bindItem("x", list(num("1"), num("2"), num("3"))),
		filterItem(binary(">", ident("x"), num("1"))),
		yieldItem(binary("*", ident("x"), num("2"))),
	)
	if got := typeString(inferOne(t, b)); got != "List Int" {
		t.Errorf("generate block typed %s, want List Int", got)
	}
}

func TestGenerateBlockRequiresYield(t *testing.T) {
	b := block(ast.BlockGenerate, "",
		bindItem("x", list(num("1"))),
	)
	te := inferOneErr(t, b, diagnostics.ErrTypeMismatch)
	if te.Message != "generate block never yields" {
		t.Errorf("unexpected message: %s", te.Message)
	}
}

func TestGenerateFilterMustBeBool(t *testing.T) {
	b := block(ast.BlockGenerate, "",
		bindItem("x", list(num("1"))),
		filterItem(num("1")),
		yieldItem(ident("x")),
	)
	inferOneErr(t, b, diagnostics.ErrTypeMismatch)
}

func TestResourceBlockWrapsResult(t *testing.T) {
	b := block(ast.BlockResource, "",
		letItem("x", num("1")),
		exprItem(binary("+", ident("x"), num("1"))),
	)
	if got := typeString(inferOne(t, b)); got != "Resource Int" {
		t.Errorf("resource block typed %s, want Resource Int", got)
	}
}
