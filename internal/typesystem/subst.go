package typesystem

import "github.com/benbjohnson/immutable"

// Subst maps type variables to partially resolved types. The backing map is
// persistent, so copying a Subst value is an O(1) pointer copy: speculative
// resolution saves the value before an attempt and assigns it back to
// restore, which can never leave partial bindings behind.
type Subst struct {
	m *immutable.Map
}

// NewSubst returns an empty substitution.
func NewSubst() Subst {
	return Subst{m: immutable.NewMap(nil)}
}

// Get returns the binding for id, if any.
func (s Subst) Get(id VarID) (Type, bool) {
	if s.m == nil {
		return nil, false
	}
	v, ok := s.m.Get(int(id))
	if !ok {
		return nil, false
	}
	return v.(Type), true
}

// Bind returns a substitution extended with id -> t. The receiver is
// unchanged.
func (s Subst) Bind(id VarID, t Type) Subst {
	if s.m == nil {
		s = NewSubst()
	}
	return Subst{m: s.m.Set(int(id), t)}
}

// Len reports the number of bound variables.
func (s Subst) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Apply resolves t through the substitution transitively: a variable is
// only considered resolved after walking its binding chain to a fixed
// point. Application is cycle-guarded so that a malformed substitution can
// never loop.
func (s Subst) Apply(t Type) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func applyType(t Type, s Subst, visiting map[VarID]bool) Type {
	switch t := t.(type) {
	case TVar:
		if visiting[t.ID] {
			return t
		}
		bound, ok := s.Get(t.ID)
		if !ok {
			return t
		}
		visiting[t.ID] = true
		out := applyType(bound, s, visiting)
		delete(visiting, t.ID)
		return out
	case TCon:
		args := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = applyType(arg, s, visiting)
		}
		return TCon{Name: t.Name, Args: args}
	case TFunc:
		return TFunc{
			Param:  applyType(t.Param, s, visiting),
			Result: applyType(t.Result, s, visiting),
		}
	case TTuple:
		items := make([]Type, len(t.Items))
		for i, item := range t.Items {
			items[i] = applyType(item, s, visiting)
		}
		return TTuple{Items: items}
	case TRecord:
		fields := make(map[string]Type, len(t.Fields))
		for name, field := range t.Fields {
			fields[name] = applyType(field, s, visiting)
		}
		return TRecord{Fields: fields, Open: t.Open}
	default:
		return t
	}
}

// Substitute replaces mapped variables structurally, without consulting a
// substitution. Instantiation and alias expansion use it to rewrite scheme
// and alias bodies.
func Substitute(t Type, mapping map[VarID]Type) Type {
	switch t := t.(type) {
	case TVar:
		if replacement, ok := mapping[t.ID]; ok {
			return replacement
		}
		return t
	case TCon:
		args := make([]Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = Substitute(arg, mapping)
		}
		return TCon{Name: t.Name, Args: args}
	case TFunc:
		return TFunc{
			Param:  Substitute(t.Param, mapping),
			Result: Substitute(t.Result, mapping),
		}
	case TTuple:
		items := make([]Type, len(t.Items))
		for i, item := range t.Items {
			items[i] = Substitute(item, mapping)
		}
		return TTuple{Items: items}
	case TRecord:
		fields := make(map[string]Type, len(t.Fields))
		for name, field := range t.Fields {
			fields[name] = Substitute(field, mapping)
		}
		return TRecord{Fields: fields, Open: t.Open}
	default:
		return t
	}
}
