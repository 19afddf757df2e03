package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

type classInfo struct {
	Name    string
	Params  []string
	Supers  []string
	Members map[string]ast.TypeExpr
}

type instanceInfo struct {
	ClassName string
	Args      []ast.TypeExpr
	Loc       diagnostics.Span
}

// resolveMethod dispatches a class method call over the declared
// instances. Each (class, instance) pair is attempted speculatively: the
// member's type is built with the class parameters pinned to the instance
// arguments and unified against the actual argument types. Exactly one
// surviving attempt commits; zero falls back to assumed constraints from
// the enclosing signature.
func (c *Checker) resolveMethod(name string, argTys []typesystem.Type, span diagnostics.Span) (typesystem.Type, error) {
	classNames := c.methodToClasses[name]
	if len(classNames) == 0 {
		return nil, errorf(diagnostics.ErrUnknownName, span, "unknown name '%s'", name)
	}

	// An argument that is still a constrained variable must stay one;
	// trying instances against it would pin it to an arbitrary instance.
	if assumed := c.assumedClasses(classNames, argTys); len(assumed) > 0 {
		if len(assumed) > 1 {
			return nil, errorf(diagnostics.ErrAmbiguousInstance, span, "ambiguous constrained call for method '%s'", name)
		}
		return c.fresh(), nil
	}

	base := c.subst
	type attempt struct {
		subst  typesystem.Subst
		result typesystem.Type
	}
	var successes []attempt

	for _, className := range classNames {
		class, ok := c.classes[className]
		if !ok {
			continue
		}
		memberType, hasMember := class.Members[name]
		if !hasMember {
			continue
		}
		for _, inst := range c.instances {
			if inst.ClassName != className || len(inst.Args) != len(class.Params) {
				continue
			}
			c.subst = base
			if result, err := c.tryInstance(class, memberType, inst, argTys, span); err == nil {
				successes = append(successes, attempt{subst: c.subst, result: result})
			}
		}
	}
	c.subst = base

	switch len(successes) {
	case 1:
		c.subst = successes[0].subst
		return c.subst.Apply(successes[0].result), nil
	case 0:
		return nil, errorf(diagnostics.ErrNoInstance, span, "no instance found for method '%s'", name)
	default:
		return nil, errorf(diagnostics.ErrAmbiguousInstance, span, "ambiguous instance for method '%s'", name)
	}
}

func (c *Checker) tryInstance(class *classInfo, memberType ast.TypeExpr, inst instanceInfo, argTys []typesystem.Type, span diagnostics.Span) (typesystem.Type, error) {
	ctx := newTypeCtx()
	// Pin the class parameters to the instance arguments before building
	// the member type, so occurrences of a parameter inside the member
	// resolve to the instance's type.
	for i, paramName := range class.Params {
		paramVar := ctx.varFor(c, paramName)
		instArg, err := c.buildType(inst.Args[i], ctx)
		if err != nil {
			return nil, err
		}
		if err := c.unify(paramVar, instArg, span); err != nil {
			return nil, err
		}
	}
	methodTy, err := c.buildType(memberType, ctx)
	if err != nil {
		return nil, err
	}
	result := c.fresh()
	expected := typesystem.Func(result, argTys...)
	if err := c.unify(methodTy, expected, span); err != nil {
		return nil, err
	}
	return result, nil
}

// assumedClasses collects the classes among classNames that the enclosing
// signature's constraints assume for an argument that is still a type
// variable.
func (c *Checker) assumedClasses(classNames []string, argTys []typesystem.Type) map[string]bool {
	matched := make(map[string]bool)
	for _, argTy := range argTys {
		tv, ok := c.subst.Apply(argTy).(typesystem.TVar)
		if !ok {
			continue
		}
		for _, assumed := range c.assumed {
			if assumed.ID != tv.ID {
				continue
			}
			for _, className := range classNames {
				if assumed.Class == className {
					matched[className] = true
				}
			}
		}
	}
	return matched
}
