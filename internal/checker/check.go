package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// checkExpr checks expr against an expected type instead of inferring
// bottom-up. The expected type lets an overloaded name resolve and an
// integral literal stand for a Float; every other expression falls back
// to infer-then-unify.
func (c *Checker) checkExpr(expr ast.Expr, expected typesystem.Type, env *TypeEnv) error {
	switch expr := expr.(type) {
	case *ast.Ident:
		return c.checkIdent(expr, expected, env)
	case *ast.NumberLit:
		return c.checkNumber(expr, expected, env)
	case *ast.RecordLit:
		return c.checkRecord(expr, expected, env)
	default:
		ty, err := c.Infer(expr, env)
		if err != nil {
			return err
		}
		return c.unify(ty, expected, expr.Span())
	}
}

func (c *Checker) checkIdent(ident *ast.Ident, expected typesystem.Type, env *TypeEnv) error {
	schemes, found := env.LookupAll(ident.Name)
	if !found {
		ty, err := c.inferIdent(ident, env)
		if err != nil {
			return err
		}
		return c.unify(ty, expected, ident.Loc)
	}
	if len(schemes) == 1 {
		return c.unify(c.instantiate(schemes[0]), expected, ident.Loc)
	}

	base := c.subst
	var winner typesystem.Subst
	matches := 0
	tried := make(map[string]bool, len(schemes))
	for _, scheme := range schemes {
		key := renderSchemeKey(scheme)
		if tried[key] {
			continue
		}
		tried[key] = true
		c.subst = base
		if err := c.unify(c.instantiate(scheme), expected, ident.Loc); err == nil {
			winner = c.subst
			matches++
		}
	}
	c.subst = base
	switch matches {
	case 1:
		c.subst = winner
		return nil
	case 0:
		return errorf(diagnostics.ErrNoOverload, ident.Loc, "no matching overload for '%s'", ident.Name)
	default:
		return errorf(diagnostics.ErrAmbiguousOverload, ident.Loc, "ambiguous call to '%s' (multiple overloads match)", ident.Name)
	}
}

// checkNumber lets an integral literal satisfy an expected Float.
func (c *Checker) checkNumber(lit *ast.NumberLit, expected typesystem.Type, env *TypeEnv) error {
	kind, ok := typesystem.ClassifyNumber(lit.Text)
	if ok && kind == typesystem.NumberInt {
		want := c.expandAlias(c.subst.Apply(expected), make(map[string]bool))
		if con, isCon := want.(typesystem.TCon); isCon && con.Name == "Float" && len(con.Args) == 0 {
			return nil
		}
	}
	ty, err := c.inferNumber(lit, env)
	if err != nil {
		return err
	}
	return c.unify(ty, expected, lit.Loc)
}

// checkRecord checks a record literal fieldwise when the expected type is
// a record, so each field's expected type flows into its value. Literals
// with spreads or nested paths go through plain inference.
func (c *Checker) checkRecord(lit *ast.RecordLit, expected typesystem.Type, env *TypeEnv) error {
	want := c.expandAlias(c.subst.Apply(expected), make(map[string]bool))
	rec, isRecord := want.(typesystem.TRecord)
	if !isRecord || !plainRecordLit(lit) {
		ty, err := c.inferRecord(lit, env)
		if err != nil {
			return err
		}
		return c.unify(ty, expected, lit.Loc)
	}
	seen := make(map[string]bool, len(lit.Fields))
	for _, field := range lit.Fields {
		name := field.Path[0].Name
		seen[name] = true
		fieldTy, known := rec.Fields[name]
		if !known {
			if rec.Open {
				if _, err := c.Infer(field.Value, env); err != nil {
					return err
				}
				continue
			}
			return errorf(diagnostics.ErrTypeMismatch, field.Loc, "missing field '%s'", name)
		}
		if err := c.checkExpr(field.Value, fieldTy, env); err != nil {
			return err
		}
	}
	for name := range rec.Fields {
		if !seen[name] {
			return errorf(diagnostics.ErrTypeMismatch, lit.Loc, "missing field '%s'", name)
		}
	}
	return nil
}

func plainRecordLit(lit *ast.RecordLit) bool {
	for _, field := range lit.Fields {
		if field.Spread || len(field.Path) != 1 || field.Path[0].Kind != ast.PathField {
			return false
		}
	}
	return true
}
