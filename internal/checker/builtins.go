package checker

import (
	"github.com/funvibe/lumen/internal/typesystem"
)

var (
	tUnit  = typesystem.Con("Unit")
	tBool  = typesystem.Con("Bool")
	tInt   = typesystem.Con("Int")
	tFloat = typesystem.Con("Float")
	tText  = typesystem.Con("Text")
)

func tList(elem typesystem.Type) typesystem.Type {
	return typesystem.Con("List", elem)
}

func tOption(elem typesystem.Type) typesystem.Type {
	return typesystem.Con("Option", elem)
}

func tResult(err, val typesystem.Type) typesystem.Type {
	return typesystem.Con("Result", err, val)
}

func tEffect(err, val typesystem.Type) typesystem.Type {
	return typesystem.Con("Effect", err, val)
}

// registerBuiltins installs the builtin type constructors, data
// constructors, core effect operations and the Patch alias into the root
// environment.
func (c *Checker) registerBuiltins() {
	for name, arity := range map[string]int{
		"Unit":      0,
		"Bool":      0,
		"Int":       0,
		"Float":     0,
		"Text":      0,
		"List":      1,
		"Option":    1,
		"Result":    2,
		"Effect":    2,
		"Resource":  1,
		"Generator": 1,
		"Map":       2,
	} {
		c.typeCtors[name] = arity
	}

	// Patch a = a -> a, so patch literals and `<|` share plain function
	// unification.
	patchVar := c.fresh()
	c.aliasArity["Patch"] = 1
	c.aliases["Patch"] = aliasInfo{
		Params: []typesystem.VarID{patchVar.ID},
		Body:   typesystem.TFunc{Param: patchVar, Result: patchVar},
	}

	c.adtCtors["Bool"] = []string{"True", "False"}
	c.adtCtors["Option"] = []string{"None", "Some"}
	c.adtCtors["Result"] = []string{"Ok", "Err"}
	for ctor, owner := range map[string]string{
		"True": "Bool", "False": "Bool",
		"None": "Option", "Some": "Option",
		"Ok": "Result", "Err": "Result",
	} {
		c.ctorOwner[ctor] = owner
	}

	env := NewTypeEnv(nil)
	c.builtins = env

	env.Insert("True", typesystem.Mono(tBool))
	env.Insert("False", typesystem.Mono(tBool))

	a := c.fresh()
	env.Insert("None", typesystem.Scheme{Vars: []typesystem.VarID{a.ID}, Body: tOption(a)})
	a = c.fresh()
	env.Insert("Some", typesystem.Scheme{Vars: []typesystem.VarID{a.ID}, Body: typesystem.Func(tOption(a), a)})

	e, a := c.fresh(), c.fresh()
	env.Insert("Ok", typesystem.Scheme{Vars: []typesystem.VarID{e.ID, a.ID}, Body: typesystem.Func(tResult(e, a), a)})
	e, a = c.fresh(), c.fresh()
	env.Insert("Err", typesystem.Scheme{Vars: []typesystem.VarID{e.ID, a.ID}, Body: typesystem.Func(tResult(e, a), e)})

	e, a = c.fresh(), c.fresh()
	env.Insert("pure", typesystem.Scheme{Vars: []typesystem.VarID{e.ID, a.ID}, Body: typesystem.Func(tEffect(e, a), a)})
	e, a = c.fresh(), c.fresh()
	env.Insert("fail", typesystem.Scheme{Vars: []typesystem.VarID{e.ID, a.ID}, Body: typesystem.Func(tEffect(e, a), e)})

	e, a = c.fresh(), c.fresh()
	e2 := c.fresh()
	env.Insert("attempt", typesystem.Scheme{
		Vars: []typesystem.VarID{e.ID, a.ID, e2.ID},
		Body: typesystem.Func(tEffect(e2, tResult(e, a)), tEffect(e, a)),
	})

	e = c.fresh()
	env.Insert("print", typesystem.Scheme{
		Vars: []typesystem.VarID{e.ID},
		Body: typesystem.Func(tEffect(e, tUnit), tText),
	})
}
