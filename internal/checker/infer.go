package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// Infer computes the type of expr in env, extending the checker's
// substitution. Errors are returned, not recorded; the definition-level
// driver converts them into diagnostics.
func (c *Checker) Infer(expr ast.Expr, env *TypeEnv) (typesystem.Type, error) {
	switch expr := expr.(type) {
	case *ast.NumberLit:
		return c.inferNumber(expr, env)
	case *ast.StringLit:
		return tText, nil
	case *ast.BoolLit:
		return tBool, nil
	case *ast.Ident:
		return c.inferIdent(expr, env)
	case *ast.ListLit:
		return c.inferList(expr, env)
	case *ast.TupleLit:
		return c.inferTuple(expr, env)
	case *ast.RecordLit:
		return c.inferRecord(expr, env)
	case *ast.PatchLit:
		return c.inferPatch(expr, env)
	case *ast.FieldAccess:
		return c.inferFieldAccess(expr, env)
	case *ast.IndexExpr:
		return c.inferIndex(expr, env)
	case *ast.CallExpr:
		return c.inferCall(expr, env)
	case *ast.Lambda:
		return c.inferLambda(expr, env)
	case *ast.MatchExpr:
		return c.inferMatch(expr, env)
	case *ast.IfExpr:
		return c.inferIf(expr, env)
	case *ast.BinaryExpr:
		return c.inferBinary(expr, env)
	case *ast.UnaryNeg:
		return c.inferUnaryNeg(expr, env)
	case *ast.SuffixedExpr:
		return c.inferSuffixed(expr, env)
	case *ast.BlockExpr:
		return c.inferBlock(expr, env)
	default:
		return nil, errorf(diagnostics.ErrTypeMismatch, expr.Span(), "unsupported expression")
	}
}

// inferNumber types a numeric literal by lexical shape. A suffixed literal
// like `5s` resolves through the unit template registered under the name
// `1<suffix>`, applied to the bare number's type.
func (c *Checker) inferNumber(lit *ast.NumberLit, env *TypeEnv) (typesystem.Type, error) {
	if kind, ok := typesystem.ClassifyNumber(lit.Text); ok {
		if kind == typesystem.NumberFloat {
			return tFloat, nil
		}
		return tInt, nil
	}
	_, suffix, kind, ok := typesystem.SplitSuffixedNumber(lit.Text)
	if !ok {
		return nil, errorf(diagnostics.ErrTypeMismatch, lit.Loc, "malformed numeric literal '%s'", lit.Text)
	}
	template, found := env.Lookup("1" + suffix)
	if !found {
		return nil, errorf(diagnostics.ErrUnknownName, lit.Loc, "unknown numeric suffix '%s'", suffix)
	}
	base := typesystem.Type(tInt)
	if kind == typesystem.NumberFloat {
		base = tFloat
	}
	result := c.fresh()
	if err := c.unify(c.instantiate(template), typesystem.Func(result, base), lit.Loc); err != nil {
		return nil, err
	}
	return result, nil
}

// inferIdent resolves a name reference. Overloaded names cannot be used
// bare; call sites and expected-type checks pick the overload.
func (c *Checker) inferIdent(ident *ast.Ident, env *TypeEnv) (typesystem.Type, error) {
	schemes, found := env.LookupAll(ident.Name)
	if !found {
		if len(c.methodToClasses[ident.Name]) > 0 {
			return nil, errorf(diagnostics.ErrAmbiguousName, ident.Loc, "method '%s' must be applied to arguments to resolve its instance", ident.Name)
		}
		return nil, errorf(diagnostics.ErrUnknownName, ident.Loc, "unknown name '%s'", ident.Name)
	}
	if len(schemes) > 1 {
		return nil, errorf(diagnostics.ErrAmbiguousName, ident.Loc, "ambiguous name '%s' (multiple overloads in scope); add a type annotation or apply it to arguments", ident.Name)
	}
	return c.instantiate(schemes[0]), nil
}

func (c *Checker) inferList(lit *ast.ListLit, env *TypeEnv) (typesystem.Type, error) {
	elem := c.fresh()
	for _, item := range lit.Items {
		ty, err := c.Infer(item.Expr, env)
		if err != nil {
			return nil, err
		}
		expected := typesystem.Type(elem)
		if item.Spread {
			expected = tList(elem)
		}
		if err := c.unify(ty, expected, item.Expr.Span()); err != nil {
			return nil, err
		}
	}
	return tList(elem), nil
}

func (c *Checker) inferTuple(lit *ast.TupleLit, env *TypeEnv) (typesystem.Type, error) {
	items := make([]typesystem.Type, len(lit.Items))
	for i, item := range lit.Items {
		ty, err := c.Infer(item, env)
		if err != nil {
			return nil, err
		}
		items[i] = ty
	}
	return typesystem.TTuple{Items: items}, nil
}

func (c *Checker) inferLambda(lambda *ast.Lambda, env *TypeEnv) (typesystem.Type, error) {
	scope := env.Child()
	params := make([]typesystem.Type, len(lambda.Params))
	for i, param := range lambda.Params {
		ty, err := c.inferPattern(param, scope)
		if err != nil {
			return nil, err
		}
		params[i] = ty
	}
	body, err := c.Infer(lambda.Body, scope)
	if err != nil {
		return nil, err
	}
	return typesystem.Func(body, params...), nil
}

func (c *Checker) inferIf(expr *ast.IfExpr, env *TypeEnv) (typesystem.Type, error) {
	condTy, err := c.Infer(expr.Cond, env)
	if err != nil {
		return nil, err
	}
	if err := c.unify(condTy, tBool, expr.Cond.Span()); err != nil {
		return nil, err
	}
	thenTy, err := c.Infer(expr.Then, env)
	if err != nil {
		return nil, err
	}
	elseTy, err := c.Infer(expr.Else, env)
	if err != nil {
		return nil, err
	}
	if err := c.unify(elseTy, thenTy, expr.Else.Span()); err != nil {
		return nil, err
	}
	return thenTy, nil
}

// inferSuffixed applies a unit suffix to an arbitrary expression, e.g.
// `(a + b)s`, through the same `1<suffix>` template as suffixed literals.
func (c *Checker) inferSuffixed(expr *ast.SuffixedExpr, env *TypeEnv) (typesystem.Type, error) {
	baseTy, err := c.Infer(expr.Base, env)
	if err != nil {
		return nil, err
	}
	template, found := env.Lookup("1" + expr.Suffix)
	if !found {
		return nil, errorf(diagnostics.ErrUnknownName, expr.Loc, "unknown numeric suffix '%s'", expr.Suffix)
	}
	result := c.fresh()
	if err := c.unify(c.instantiate(template), typesystem.Func(result, baseTy), expr.Loc); err != nil {
		return nil, err
	}
	return result, nil
}

// inferUnaryNeg types numeric negation, trying Int before Float with a
// substitution rollback between attempts.
func (c *Checker) inferUnaryNeg(expr *ast.UnaryNeg, env *TypeEnv) (typesystem.Type, error) {
	ty, err := c.Infer(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	saved := c.subst
	if err := c.unify(ty, tInt, expr.Loc); err == nil {
		return tInt, nil
	}
	c.subst = saved
	if err := c.unify(ty, tFloat, expr.Loc); err == nil {
		return tFloat, nil
	}
	c.subst = saved
	p := typesystem.NewPrinter()
	return nil, errorf(diagnostics.ErrTypeMismatch, expr.Loc, "unary '-' expects Int or Float (found %s)", p.Print(c.subst.Apply(ty)))
}
