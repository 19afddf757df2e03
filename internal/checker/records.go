package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// inferRecord types a record literal by folding its entries left to right
// into one field map. Spreads contribute a whole record; the result is
// open only when some spread source was open.
func (c *Checker) inferRecord(lit *ast.RecordLit, env *TypeEnv) (typesystem.Type, error) {
	fields := make(map[string]typesystem.Type)
	open := false
	for _, field := range lit.Fields {
		if field.Spread {
			srcOpen, err := c.spreadInto(fields, field.Value, env)
			if err != nil {
				return nil, err
			}
			open = open || srcOpen
			continue
		}
		if err := c.assignPath(fields, field.Path, field.Value, env); err != nil {
			return nil, err
		}
	}
	return typesystem.Record(fields, open), nil
}

// spreadInto merges the fields of a spread source into the accumulator.
// Labels already present unify with the source's; a source that is still
// a variable is pinned to an open record over the accumulated fields.
func (c *Checker) spreadInto(fields map[string]typesystem.Type, src ast.Expr, env *TypeEnv) (bool, error) {
	ty, err := c.Infer(src, env)
	if err != nil {
		return false, err
	}
	resolved := c.expandAlias(c.subst.Apply(ty), make(map[string]bool))
	switch resolved := resolved.(type) {
	case typesystem.TRecord:
		for name, fieldTy := range resolved.Fields {
			if existing, ok := fields[name]; ok {
				if err := c.unify(fieldTy, existing, src.Span()); err != nil {
					return false, err
				}
				continue
			}
			fields[name] = fieldTy
		}
		return resolved.Open, nil
	case typesystem.TVar:
		known := make(map[string]typesystem.Type, len(fields))
		for name, fieldTy := range fields {
			known[name] = fieldTy
		}
		if err := c.unify(resolved, typesystem.Record(known, true), src.Span()); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, errorf(diagnostics.ErrTypeMismatch, src.Span(), "cannot spread non-record value")
	}
}

// assignPath writes one (possibly nested) field assignment into the
// accumulator, creating closed intermediate records along the way.
func (c *Checker) assignPath(fields map[string]typesystem.Type, path []ast.PathSegment, value ast.Expr, env *TypeEnv) error {
	if len(path) == 0 {
		return errorf(diagnostics.ErrTypeMismatch, value.Span(), "record entry is missing a field name")
	}
	head := path[0]
	if head.Kind != ast.PathField {
		return errorf(diagnostics.ErrTypeMismatch, head.Loc, "index paths are only valid inside patches")
	}
	if len(path) == 1 {
		ty, err := c.Infer(value, env)
		if err != nil {
			return err
		}
		if existing, ok := fields[head.Name]; ok {
			return c.unify(ty, existing, value.Span())
		}
		fields[head.Name] = ty
		return nil
	}
	existing, ok := fields[head.Name]
	if !ok {
		inner := make(map[string]typesystem.Type)
		if err := c.assignPath(inner, path[1:], value, env); err != nil {
			return err
		}
		fields[head.Name] = typesystem.Record(inner, false)
		return nil
	}
	resolved := c.expandAlias(c.subst.Apply(existing), make(map[string]bool))
	rec, isRecord := resolved.(typesystem.TRecord)
	if !isRecord {
		return errorf(diagnostics.ErrTypeMismatch, head.Loc, "field '%s' is not a record", head.Name)
	}
	inner := make(map[string]typesystem.Type, len(rec.Fields))
	for name, fieldTy := range rec.Fields {
		inner[name] = fieldTy
	}
	if err := c.assignPath(inner, path[1:], value, env); err != nil {
		return err
	}
	fields[head.Name] = typesystem.Record(inner, rec.Open)
	return nil
}

// inferFieldAccess types `base.field` by unifying the base with an open
// record requiring just that field.
func (c *Checker) inferFieldAccess(expr *ast.FieldAccess, env *TypeEnv) (typesystem.Type, error) {
	baseTy, err := c.Infer(expr.Base, env)
	if err != nil {
		return nil, err
	}
	fieldTy := c.fresh()
	want := typesystem.Record(map[string]typesystem.Type{expr.Field: fieldTy}, true)
	if err := c.unify(baseTy, want, expr.FieldLoc); err != nil {
		return nil, err
	}
	return fieldTy, nil
}

// inferIndex types `base[index]`. List indexing is attempted first; on
// failure the substitution is rolled back and map indexing is tried.
func (c *Checker) inferIndex(expr *ast.IndexExpr, env *TypeEnv) (typesystem.Type, error) {
	baseTy, err := c.Infer(expr.Base, env)
	if err != nil {
		return nil, err
	}
	idxTy, err := c.Infer(expr.Index, env)
	if err != nil {
		return nil, err
	}

	saved := c.subst
	elem := c.fresh()
	listErr := c.unify(baseTy, tList(elem), expr.Loc)
	if listErr == nil {
		if err := c.unify(idxTy, tInt, expr.Index.Span()); err == nil {
			return elem, nil
		} else {
			listErr = err
		}
	}
	c.subst = saved

	key, val := c.fresh(), c.fresh()
	if err := c.unify(baseTy, typesystem.Con("Map", key, val), expr.Loc); err == nil {
		if err := c.unify(idxTy, key, expr.Index.Span()); err == nil {
			return val, nil
		}
	}
	c.subst = saved
	return nil, listErr
}

// inferPatch types a standalone patch literal as Patch t, where t is
// pinned to an open record shaped by the patched paths.
func (c *Checker) inferPatch(lit *ast.PatchLit, env *TypeEnv) (typesystem.Type, error) {
	target := c.fresh()
	if err := c.checkPatchFields(lit.Fields, target, env); err != nil {
		return nil, err
	}
	return typesystem.Con("Patch", target), nil
}

// checkPatchFields checks patch entries against a known target type. Each
// entry's value may be either a replacement of the field's type or a
// transform function over it; a spread composes a whole patch of the
// target.
func (c *Checker) checkPatchFields(fields []ast.RecordField, target typesystem.Type, env *TypeEnv) error {
	for _, field := range fields {
		if field.Spread {
			ty, err := c.Infer(field.Value, env)
			if err != nil {
				return err
			}
			if err := c.unify(ty, typesystem.TFunc{Param: target, Result: target}, field.Loc); err != nil {
				return err
			}
			continue
		}
		fieldTy, err := c.pathType(target, field.Path, env)
		if err != nil {
			return err
		}
		valueTy, err := c.Infer(field.Value, env)
		if err != nil {
			return err
		}
		saved := c.subst
		if err := c.unify(valueTy, fieldTy, field.Loc); err == nil {
			continue
		}
		c.subst = saved
		if err := c.unify(valueTy, typesystem.TFunc{Param: fieldTy, Result: fieldTy}, field.Loc); err != nil {
			c.subst = saved
			return err
		}
	}
	return nil
}

// checkRecordOverlay checks a record literal used as the right side of a
// patch application: every named entry replaces the target's field of the
// same type, and a spread source's fields all replace their counterparts.
func (c *Checker) checkRecordOverlay(lit *ast.RecordLit, target typesystem.Type, env *TypeEnv) error {
	for _, field := range lit.Fields {
		if field.Spread {
			ty, err := c.Infer(field.Value, env)
			if err != nil {
				return err
			}
			resolved := c.expandAlias(c.subst.Apply(ty), make(map[string]bool))
			rec, ok := resolved.(typesystem.TRecord)
			if !ok {
				return errorf(diagnostics.ErrTypeMismatch, field.Loc, "cannot spread non-record value")
			}
			for _, name := range rec.FieldNames() {
				slot := c.fresh()
				want := typesystem.Record(map[string]typesystem.Type{name: slot}, true)
				if err := c.unify(target, want, field.Loc); err != nil {
					return err
				}
				if err := c.unify(rec.Fields[name], slot, field.Loc); err != nil {
					return err
				}
			}
			continue
		}
		fieldTy, err := c.pathType(target, field.Path, env)
		if err != nil {
			return err
		}
		if err := c.checkExpr(field.Value, fieldTy, env); err != nil {
			return err
		}
	}
	return nil
}

// pathType resolves the type at the end of a patch path, constraining the
// base as it walks: field segments demand open records, index segments
// demand lists with Int indices, `[*]` maps over a list's elements.
func (c *Checker) pathType(base typesystem.Type, path []ast.PathSegment, env *TypeEnv) (typesystem.Type, error) {
	cur := base
	for _, seg := range path {
		switch seg.Kind {
		case ast.PathField:
			fieldTy := c.fresh()
			want := typesystem.Record(map[string]typesystem.Type{seg.Name: fieldTy}, true)
			if err := c.unify(cur, want, seg.Loc); err != nil {
				return nil, err
			}
			cur = fieldTy
		case ast.PathIndex:
			elem := c.fresh()
			if err := c.unify(cur, tList(elem), seg.Loc); err != nil {
				return nil, err
			}
			idxTy, err := c.Infer(seg.Index, env)
			if err != nil {
				return nil, err
			}
			if err := c.unify(idxTy, tInt, seg.Index.Span()); err != nil {
				return nil, err
			}
			cur = elem
		case ast.PathAll:
			elem := c.fresh()
			if err := c.unify(cur, tList(elem), seg.Loc); err != nil {
				return nil, err
			}
			cur = elem
		}
	}
	return cur, nil
}
