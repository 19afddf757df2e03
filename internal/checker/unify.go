package checker

import (
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// unify makes found and expected equal under the current substitution,
// extending it as needed. Both sides are resolved through the substitution
// and alias-expanded at the head before their shapes are compared.
func (c *Checker) unify(found, expected typesystem.Type, span diagnostics.Span) error {
	a := c.expandAlias(c.subst.Apply(found), make(map[string]bool))
	b := c.expandAlias(c.subst.Apply(expected), make(map[string]bool))

	if va, ok := a.(typesystem.TVar); ok {
		return c.bind(va.ID, b, span)
	}
	if vb, ok := b.(typesystem.TVar); ok {
		return c.bind(vb.ID, a, span)
	}

	switch at := a.(type) {
	case typesystem.TCon:
		bt, ok := b.(typesystem.TCon)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return c.mismatch(span, found, expected)
		}
		for i := range at.Args {
			if err := c.unify(at.Args[i], bt.Args[i], span); err != nil {
				return err
			}
		}
		return nil
	case typesystem.TFunc:
		bt, ok := b.(typesystem.TFunc)
		if !ok {
			return c.mismatch(span, found, expected)
		}
		if err := c.unify(at.Param, bt.Param, span); err != nil {
			return err
		}
		return c.unify(at.Result, bt.Result, span)
	case typesystem.TTuple:
		bt, ok := b.(typesystem.TTuple)
		if !ok || len(at.Items) != len(bt.Items) {
			return c.mismatch(span, found, expected)
		}
		for i := range at.Items {
			if err := c.unify(at.Items[i], bt.Items[i], span); err != nil {
				return err
			}
		}
		return nil
	case typesystem.TRecord:
		bt, ok := b.(typesystem.TRecord)
		if !ok {
			return c.mismatch(span, found, expected)
		}
		return c.unifyRecords(at, bt, span)
	default:
		return c.mismatch(span, found, expected)
	}
}

// unifyRecords compares two record types over the union of their labels.
// A label present on one side only is tolerated when the side lacking it
// is open; a closed side missing a label is a hard error.
func (c *Checker) unifyRecords(a, b typesystem.TRecord, span diagnostics.Span) error {
	labels := make(map[string]bool, len(a.Fields)+len(b.Fields))
	for name := range a.Fields {
		labels[name] = true
	}
	for name := range b.Fields {
		labels[name] = true
	}
	for name := range labels {
		fa, inA := a.Fields[name]
		fb, inB := b.Fields[name]
		switch {
		case inA && inB:
			if err := c.unify(fa, fb, span); err != nil {
				return err
			}
		case inA && !inB:
			if !b.Open {
				return errorf(diagnostics.ErrTypeMismatch, span, "missing field '%s'", name)
			}
		case !inA && inB:
			if !a.Open {
				return errorf(diagnostics.ErrTypeMismatch, span, "missing field '%s'", name)
			}
		}
	}
	return nil
}

// bind records id -> t. The target is normalized through the substitution
// first so the occurs check sees the resolved shape; binding a variable to
// itself is a no-op.
func (c *Checker) bind(id typesystem.VarID, t typesystem.Type, span diagnostics.Span) error {
	t = c.subst.Apply(t)
	if tv, ok := t.(typesystem.TVar); ok && tv.ID == id {
		return nil
	}
	if occurs(id, t) {
		p := typesystem.NewPrinter()
		return errorf(diagnostics.ErrTypeMismatch, span, "infinite type: %s occurs in %s", p.Print(typesystem.TVar{ID: id}), p.Print(t))
	}
	c.subst = c.subst.Bind(id, t)
	return nil
}

func occurs(id typesystem.VarID, t typesystem.Type) bool {
	for _, free := range t.FreeTypeVariables() {
		if free == id {
			return true
		}
	}
	return false
}

// expandAlias rewrites the head of t through alias definitions until a
// non-alias head is reached. The visiting set stops self-referential
// aliases from looping.
func (c *Checker) expandAlias(t typesystem.Type, visiting map[string]bool) typesystem.Type {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return t
	}
	alias, ok := c.aliases[con.Name]
	if !ok || visiting[con.Name] || len(con.Args) != len(alias.Params) {
		return t
	}
	mapping := make(map[typesystem.VarID]typesystem.Type, len(alias.Params))
	for i, param := range alias.Params {
		mapping[param] = con.Args[i]
	}
	visiting[con.Name] = true
	out := c.expandAlias(typesystem.Substitute(alias.Body, mapping), visiting)
	delete(visiting, con.Name)
	return out
}
