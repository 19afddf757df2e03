// Package typesystem defines the type algebra of the lumen checker: type
// variables, nominal constructors, curried functions, tuples and structural
// records, together with substitutions, schemes and a printer.
package typesystem

import (
	"sort"
	"strconv"
	"strings"
)

// VarID identifies a type variable. IDs are allocated monotonically by the
// checker and never reused within one inference run.
type VarID int

// Type is the interface for all types in the system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []VarID
}

// TVar is an unresolved type variable.
type TVar struct {
	ID VarID
}

func (t TVar) String() string {
	return "t" + strconv.Itoa(int(t.ID))
}

func (t TVar) Apply(s Subst) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func (t TVar) FreeTypeVariables() []VarID {
	return []VarID{t.ID}
}

// TCon is a nominal type constructor applied to zero or more arguments,
// e.g. Int, Bool, List a, Result e a.
type TCon struct {
	Name string
	Args []Type
}

// Con builds an applied constructor type.
func Con(name string, args ...Type) TCon {
	return TCon{Name: name, Args: args}
}

func (t TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, 0, len(t.Args)+1)
	parts = append(parts, t.Name)
	for _, arg := range t.Args {
		parts = append(parts, parenthesize(arg))
	}
	return strings.Join(parts, " ")
}

func (t TCon) Apply(s Subst) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func (t TCon) FreeTypeVariables() []VarID {
	return freeVarsOf(t.Args...)
}

// TFunc is a single-parameter function type. Multi-parameter functions are
// curried chains of TFunc.
type TFunc struct {
	Param  Type
	Result Type
}

// Func builds a curried function type from parameters and a result.
func Func(result Type, params ...Type) Type {
	out := result
	for i := len(params) - 1; i >= 0; i-- {
		out = TFunc{Param: params[i], Result: out}
	}
	return out
}

func (t TFunc) String() string {
	left := t.Param.String()
	if _, ok := t.Param.(TFunc); ok {
		left = "(" + left + ")"
	}
	return left + " -> " + t.Result.String()
}

func (t TFunc) Apply(s Subst) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func (t TFunc) FreeTypeVariables() []VarID {
	return freeVarsOf(t.Param, t.Result)
}

// TTuple is a fixed-arity tuple type.
type TTuple struct {
	Items []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Items))
	for i, item := range t.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) Apply(s Subst) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func (t TTuple) FreeTypeVariables() []VarID {
	return freeVarsOf(t.Items...)
}

// TRecord is a structural record type. A closed record's field set is
// exact; an open record permits additional unknown fields and is used for
// partial projections such as field access.
type TRecord struct {
	Fields map[string]Type
	Open   bool
}

// Record builds a record type from a field map. The map is used as-is, so
// callers hand over ownership.
func Record(fields map[string]Type, open bool) TRecord {
	if fields == nil {
		fields = make(map[string]Type)
	}
	return TRecord{Fields: fields, Open: open}
}

// FieldNames returns the record's labels in sorted order.
func (t TRecord) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t TRecord) String() string {
	parts := make([]string, 0, len(t.Fields)+1)
	for _, name := range t.FieldNames() {
		parts = append(parts, name+": "+t.Fields[name].String())
	}
	if t.Open {
		parts = append(parts, "..")
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (t TRecord) Apply(s Subst) Type {
	return applyType(t, s, make(map[VarID]bool))
}

func (t TRecord) FreeTypeVariables() []VarID {
	values := make([]Type, 0, len(t.Fields))
	for _, name := range t.FieldNames() {
		values = append(values, t.Fields[name])
	}
	return freeVarsOf(values...)
}

func parenthesize(t Type) string {
	switch inner := t.(type) {
	case TFunc:
		return "(" + inner.String() + ")"
	case TCon:
		if len(inner.Args) > 0 {
			return "(" + inner.String() + ")"
		}
		return inner.String()
	default:
		return t.String()
	}
}

func freeVarsOf(types ...Type) []VarID {
	var out []VarID
	seen := make(map[VarID]bool)
	for _, t := range types {
		for _, id := range t.FreeTypeVariables() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
