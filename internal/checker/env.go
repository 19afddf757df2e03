package checker

import (
	"github.com/funvibe/lumen/internal/typesystem"
)

// TypeEnv is a parent-linked scope of value schemes. One name can map to
// several schemes in the same frame, which is how overload sets are stored;
// lexical scopes shadow whole overload sets, never extend them.
type TypeEnv struct {
	parent *TypeEnv
	values map[string][]typesystem.Scheme
}

// NewTypeEnv returns an empty environment frame on top of parent. A nil
// parent makes a root frame.
func NewTypeEnv(parent *TypeEnv) *TypeEnv {
	return &TypeEnv{parent: parent, values: make(map[string][]typesystem.Scheme)}
}

// Child returns a fresh scope with the receiver as parent.
func (e *TypeEnv) Child() *TypeEnv {
	return NewTypeEnv(e)
}

// Insert binds name to a single scheme in this frame, replacing any
// previous binding here.
func (e *TypeEnv) Insert(name string, s typesystem.Scheme) {
	e.values[name] = []typesystem.Scheme{s}
}

// InsertOverloads binds name to a whole overload set in this frame.
func (e *TypeEnv) InsertOverloads(name string, ss []typesystem.Scheme) {
	out := make([]typesystem.Scheme, len(ss))
	copy(out, ss)
	e.values[name] = out
}

// AddOverload appends one more scheme to name's set in this frame.
func (e *TypeEnv) AddOverload(name string, s typesystem.Scheme) {
	e.values[name] = append(e.values[name], s)
}

// Remove drops name from this frame only.
func (e *TypeEnv) Remove(name string) {
	delete(e.values, name)
}

// Lookup resolves name to a scheme. It reports ok only when the nearest
// frame holding the name has exactly one scheme; overloaded names need
// LookupAll and call-site resolution.
func (e *TypeEnv) Lookup(name string) (typesystem.Scheme, bool) {
	ss, found := e.LookupAll(name)
	if !found || len(ss) != 1 {
		return typesystem.Scheme{}, false
	}
	return ss[0], true
}

// LookupAll resolves name to the overload set of the nearest frame that
// holds it.
func (e *TypeEnv) LookupAll(name string) ([]typesystem.Scheme, bool) {
	for frame := e; frame != nil; frame = frame.parent {
		if ss, ok := frame.values[name]; ok {
			return ss, true
		}
	}
	return nil, false
}

// freeVars collects the free type variables of every scheme in scope,
// resolved through the current substitution. Generalization quantifies
// only variables absent from this set.
func (e *TypeEnv) freeVars(subst typesystem.Subst) map[typesystem.VarID]bool {
	out := make(map[typesystem.VarID]bool)
	for frame := e; frame != nil; frame = frame.parent {
		for _, ss := range frame.values {
			for _, s := range ss {
				for _, id := range subst.Apply(s.Body).FreeTypeVariables() {
					out[id] = true
				}
			}
		}
	}
	return out
}
