package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// inferPattern types a pattern and inserts its bindings into env. All
// bindings are monomorphic; patterns never generalize.
func (c *Checker) inferPattern(pat ast.Pattern, env *TypeEnv) (typesystem.Type, error) {
	switch pat := pat.(type) {
	case *ast.WildcardPattern:
		return c.fresh(), nil
	case *ast.BindPattern:
		ty := c.fresh()
		env.Insert(pat.Name, typesystem.Mono(ty))
		return ty, nil
	case *ast.LiteralPattern:
		return c.inferLiteralPattern(pat)
	case *ast.CtorPattern:
		return c.inferCtorPattern(pat, env)
	case *ast.TuplePattern:
		items := make([]typesystem.Type, len(pat.Items))
		for i, item := range pat.Items {
			ty, err := c.inferPattern(item, env)
			if err != nil {
				return nil, err
			}
			items[i] = ty
		}
		return typesystem.TTuple{Items: items}, nil
	case *ast.ListPattern:
		elem := c.fresh()
		for _, item := range pat.Items {
			ty, err := c.inferPattern(item, env)
			if err != nil {
				return nil, err
			}
			if err := c.unify(ty, elem, item.Span()); err != nil {
				return nil, err
			}
		}
		if pat.HasRest && pat.Rest != "" {
			env.Insert(pat.Rest, typesystem.Mono(tList(elem)))
		}
		return tList(elem), nil
	case *ast.RecordPattern:
		fields := make(map[string]typesystem.Type, len(pat.Fields))
		for _, field := range pat.Fields {
			if field.Pattern == nil {
				ty := c.fresh()
				env.Insert(field.Name, typesystem.Mono(ty))
				fields[field.Name] = ty
				continue
			}
			ty, err := c.inferPattern(field.Pattern, env)
			if err != nil {
				return nil, err
			}
			fields[field.Name] = ty
		}
		// Matching requires only the named fields to exist.
		return typesystem.Record(fields, true), nil
	case *ast.AsPattern:
		ty, err := c.inferPattern(pat.Inner, env)
		if err != nil {
			return nil, err
		}
		env.Insert(pat.Name, typesystem.Mono(ty))
		return ty, nil
	default:
		return nil, errorf(diagnostics.ErrTypeMismatch, pat.Span(), "unsupported pattern")
	}
}

func (c *Checker) inferLiteralPattern(pat *ast.LiteralPattern) (typesystem.Type, error) {
	switch lit := pat.Lit.(type) {
	case *ast.NumberLit:
		kind, ok := typesystem.ClassifyNumber(lit.Text)
		if !ok {
			return nil, errorf(diagnostics.ErrTypeMismatch, lit.Loc, "malformed numeric literal '%s'", lit.Text)
		}
		if kind == typesystem.NumberFloat {
			return tFloat, nil
		}
		return tInt, nil
	case *ast.StringLit:
		return tText, nil
	case *ast.BoolLit:
		return tBool, nil
	default:
		return nil, errorf(diagnostics.ErrTypeMismatch, pat.Loc, "unsupported literal pattern")
	}
}

// inferCtorPattern types a constructor pattern by instantiating the
// constructor's scheme and peeling one parameter per sub-pattern; the
// remaining type is the matched value's.
func (c *Checker) inferCtorPattern(pat *ast.CtorPattern, env *TypeEnv) (typesystem.Type, error) {
	scheme, found := env.Lookup(pat.Name)
	if !found {
		return nil, errorf(diagnostics.ErrUnknownName, pat.Loc, "unknown constructor '%s'", pat.Name)
	}
	cur := c.instantiate(scheme)
	for _, arg := range pat.Args {
		argTy, err := c.inferPattern(arg, env)
		if err != nil {
			return nil, err
		}
		result := c.fresh()
		if err := c.unify(cur, typesystem.TFunc{Param: argTy, Result: result}, arg.Span()); err != nil {
			return nil, err
		}
		cur = result
	}
	resolved := c.subst.Apply(cur)
	if _, stillFunc := resolved.(typesystem.TFunc); stillFunc {
		return nil, errorf(diagnostics.ErrTypeMismatch, pat.Loc, "constructor '%s' is applied to too few arguments in this pattern", pat.Name)
	}
	return cur, nil
}
