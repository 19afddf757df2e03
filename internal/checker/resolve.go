package checker

import (
	"strings"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// inferCall types a function application. Calls to overloaded names
// resolve against the whole overload set; calls to class methods dispatch
// over instances; everything else threads the arguments through plain
// function unification.
func (c *Checker) inferCall(call *ast.CallExpr, env *TypeEnv) (typesystem.Type, error) {
	if ident, ok := call.Func.(*ast.Ident); ok {
		schemes, found := env.LookupAll(ident.Name)
		if found && len(schemes) > 1 {
			return c.resolveOverloadedCall(ident.Name, schemes, call.Args, env, call.Loc)
		}
		if !found && len(c.methodToClasses[ident.Name]) > 0 {
			argTys, err := c.inferArgs(call.Args, env)
			if err != nil {
				return nil, err
			}
			return c.resolveMethod(ident.Name, argTys, call.Loc)
		}
	}
	fnTy, err := c.Infer(call.Func, env)
	if err != nil {
		return nil, err
	}
	return c.applyArgs(fnTy, call.Args, env)
}

func (c *Checker) inferArgs(args []ast.Expr, env *TypeEnv) ([]typesystem.Type, error) {
	out := make([]typesystem.Type, len(args))
	for i, arg := range args {
		ty, err := c.Infer(arg, env)
		if err != nil {
			return nil, err
		}
		out[i] = ty
	}
	return out, nil
}

// applyArgs threads each argument through the function type, producing a
// fresh result variable per application step.
func (c *Checker) applyArgs(fnTy typesystem.Type, args []ast.Expr, env *TypeEnv) (typesystem.Type, error) {
	cur := fnTy
	for _, arg := range args {
		argTy, err := c.Infer(arg, env)
		if err != nil {
			return nil, err
		}
		result := c.fresh()
		if err := c.unify(cur, typesystem.TFunc{Param: argTy, Result: result}, arg.Span()); err != nil {
			return nil, err
		}
		cur = result
	}
	return cur, nil
}

// resolveOverloadedCall picks the overload of name that fits the argument
// types. Arguments are inferred once up front; every candidate is then
// attempted from that substitution, and duplicate signatures collapse to
// one candidate before counting.
func (c *Checker) resolveOverloadedCall(name string, schemes []typesystem.Scheme, args []ast.Expr, env *TypeEnv, span diagnostics.Span) (typesystem.Type, error) {
	argTys, err := c.inferArgs(args, env)
	if err != nil {
		return nil, err
	}
	base := c.subst

	type attempt struct {
		subst  typesystem.Subst
		result typesystem.Type
	}
	var successes []attempt
	tried := make(map[string]bool, len(schemes))

	for _, scheme := range schemes {
		key := renderSchemeKey(scheme)
		if tried[key] {
			continue
		}
		tried[key] = true
		c.subst = base
		fn := c.instantiate(scheme)
		result := c.fresh()
		if err := c.unify(fn, typesystem.Func(result, argTys...), span); err == nil {
			successes = append(successes, attempt{subst: c.subst, result: result})
		}
	}
	c.subst = base

	switch len(successes) {
	case 1:
		c.subst = successes[0].subst
		return c.subst.Apply(successes[0].result), nil
	case 0:
		return nil, errorf(diagnostics.ErrNoOverload, span, "no matching overload for '%s'", name)
	default:
		return nil, errorf(diagnostics.ErrAmbiguousOverload, span, "ambiguous call to '%s' (multiple overloads match)", name)
	}
}

// renderSchemeKey renders a scheme body with variable names normalized,
// so two signatures that spell the same type collapse to one candidate.
func renderSchemeKey(s typesystem.Scheme) string {
	p := typesystem.NewPrinter()
	var b strings.Builder
	b.WriteString(p.Print(s.Body))
	return b.String()
}
