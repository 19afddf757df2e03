package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// instantiate replaces every quantified variable of s with a fresh one.
func (c *Checker) instantiate(s typesystem.Scheme) typesystem.Type {
	if len(s.Vars) == 0 {
		return s.Body
	}
	mapping := make(map[typesystem.VarID]typesystem.Type, len(s.Vars))
	for _, v := range s.Vars {
		mapping[v] = c.fresh()
	}
	return typesystem.Substitute(s.Body, mapping)
}

// generalize quantifies the variables of t that are not free in env,
// after resolving t through the current substitution.
func (c *Checker) generalize(t typesystem.Type, env *TypeEnv) typesystem.Scheme {
	body := c.subst.Apply(t)
	envFree := env.freeVars(c.subst)
	var vars []typesystem.VarID
	for _, id := range body.FreeTypeVariables() {
		if !envFree[id] {
			vars = append(vars, id)
		}
	}
	return typesystem.Scheme{Vars: vars, Body: body}
}

// typeCtx tracks the variable names of one surface type expression, so
// repeated occurrences of a name share a variable. Allocation order is
// kept for quantification.
type typeCtx struct {
	vars  map[string]typesystem.VarID
	order []typesystem.VarID
}

func newTypeCtx() *typeCtx {
	return &typeCtx{vars: make(map[string]typesystem.VarID)}
}

func (ctx *typeCtx) varFor(c *Checker, name string) typesystem.TVar {
	if id, ok := ctx.vars[name]; ok {
		return typesystem.TVar{ID: id}
	}
	v := c.fresh()
	ctx.vars[name] = v.ID
	ctx.order = append(ctx.order, v.ID)
	return v
}

// buildType converts a surface type expression into a type, validating
// constructor names and arities. Aliases stay un-expanded here; unification
// expands them lazily.
func (c *Checker) buildType(te ast.TypeExpr, ctx *typeCtx) (typesystem.Type, error) {
	switch te := te.(type) {
	case *ast.NamedType:
		args := make([]typesystem.Type, len(te.Args))
		for i, arg := range te.Args {
			built, err := c.buildType(arg, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = built
		}
		arity, known := c.typeCtors[te.Name]
		if !known {
			arity, known = c.aliasArity[te.Name]
		}
		if !known {
			return nil, errorf(diagnostics.ErrUnknownName, te.Loc, "unknown type '%s'", te.Name)
		}
		if arity != len(te.Args) {
			return nil, errorf(diagnostics.ErrTypeMismatch, te.Loc, "type '%s' expects %d argument(s), got %d", te.Name, arity, len(te.Args))
		}
		return typesystem.Con(te.Name, args...), nil
	case *ast.VarType:
		return ctx.varFor(c, te.Name), nil
	case *ast.FuncTypeExpr:
		param, err := c.buildType(te.Param, ctx)
		if err != nil {
			return nil, err
		}
		result, err := c.buildType(te.Result, ctx)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Param: param, Result: result}, nil
	case *ast.TupleTypeExpr:
		items := make([]typesystem.Type, len(te.Items))
		for i, item := range te.Items {
			built, err := c.buildType(item, ctx)
			if err != nil {
				return nil, err
			}
			items[i] = built
		}
		return typesystem.TTuple{Items: items}, nil
	case *ast.RecordTypeExpr:
		fields := make(map[string]typesystem.Type, len(te.Fields))
		for _, field := range te.Fields {
			built, err := c.buildType(field.Type, ctx)
			if err != nil {
				return nil, err
			}
			fields[field.Name] = built
		}
		return typesystem.Record(fields, te.Open), nil
	default:
		return nil, errorf(diagnostics.ErrTypeMismatch, te.Span(), "unsupported type expression")
	}
}

// buildScheme converts a signature's type expression into a scheme
// quantified over all of its named variables.
func (c *Checker) buildScheme(te ast.TypeExpr, origin *typesystem.Origin) (typesystem.Scheme, error) {
	ctx := newTypeCtx()
	body, err := c.buildType(te, ctx)
	if err != nil {
		return typesystem.Scheme{}, err
	}
	return typesystem.Scheme{Vars: ctx.order, Body: body, Origin: origin}, nil
}
