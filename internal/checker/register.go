package checker

import (
	"sort"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// registerModuleTypes records the names and arities of every type and
// alias declaration, so later passes can validate type expressions that
// reference declarations appearing further down or in another module.
func (c *Checker) registerModuleTypes(mod *ast.Module) {
	c.walkItems(mod.Items, func(item ast.ModuleItem, _ string) {
		switch item := item.(type) {
		case *ast.TypeDecl:
			c.typeCtors[item.Name] = len(item.Params)
		case *ast.AliasDecl:
			c.aliasArity[item.Name] = len(item.Params)
		}
	})
}

// collectModule builds alias bodies, signature schemes, constructor
// schemes, class tables and the instance list for one module. Signatures
// are accumulated per name; registerCollectedSigs installs them after all
// modules have been collected so overload sets merge across modules.
func (c *Checker) collectModule(mod *ast.Module, env *TypeEnv) {
	c.walkItems(mod.Items, func(item ast.ModuleItem, domain string) {
		switch item := item.(type) {
		case *ast.AliasDecl:
			c.collectAlias(item)
		case *ast.TypeDecl:
			c.collectTypeDecl(item, env)
		case *ast.TypeSig:
			c.collectTypeSig(item, mod.Name, domain)
		case *ast.ClassDecl:
			c.collectClassDecl(item)
		case *ast.InstanceDecl:
			c.instances = append(c.instances, instanceInfo{ClassName: item.ClassName, Args: item.Args, Loc: item.Loc})
		}
	})
}

func (c *Checker) collectAlias(decl *ast.AliasDecl) {
	ctx := newTypeCtx()
	params := make([]typesystem.VarID, len(decl.Params))
	for i, name := range decl.Params {
		params[i] = ctx.varFor(c, name).ID
	}
	body, err := c.buildType(decl.Body, ctx)
	if err != nil {
		c.report(err)
		return
	}
	c.aliases[decl.Name] = aliasInfo{Params: params, Body: body}
}

// collectTypeDecl registers an ADT's constructors as curried function
// schemes quantified over the declaration's parameters, plus the
// constructor table used by match analysis.
func (c *Checker) collectTypeDecl(decl *ast.TypeDecl, env *TypeEnv) {
	ctorNames := make([]string, 0, len(decl.Ctors))
	for _, ctor := range decl.Ctors {
		ctx := newTypeCtx()
		params := make([]typesystem.Type, len(decl.Params))
		ids := make([]typesystem.VarID, len(decl.Params))
		for i, name := range decl.Params {
			v := ctx.varFor(c, name)
			params[i] = v
			ids[i] = v.ID
		}
		args := make([]typesystem.Type, len(ctor.Args))
		var failed bool
		for i, arg := range ctor.Args {
			built, err := c.buildType(arg, ctx)
			if err != nil {
				c.report(err)
				failed = true
				break
			}
			args[i] = built
		}
		if failed {
			continue
		}
		body := typesystem.Func(typesystem.Con(decl.Name, params...), args...)
		env.Insert(ctor.Name, typesystem.Scheme{Vars: ctx.order, Body: body})
		ctorNames = append(ctorNames, ctor.Name)
		c.ctorOwner[ctor.Name] = decl.Name
	}
	c.adtCtors[decl.Name] = ctorNames
}

func (c *Checker) collectTypeSig(sig *ast.TypeSig, module, domain string) {
	origin := &typesystem.Origin{Module: module, Domain: domain}
	scheme, err := c.buildScheme(sig.Type, origin)
	if err != nil {
		c.report(err)
		return
	}
	c.sigs[sig.Name] = append(c.sigs[sig.Name], sigEntry{scheme: scheme, node: sig})
}

func (c *Checker) collectClassDecl(decl *ast.ClassDecl) {
	info := &classInfo{
		Name:    decl.Name,
		Params:  decl.Params,
		Supers:  decl.Supers,
		Members: make(map[string]ast.TypeExpr, len(decl.Members)),
	}
	for _, member := range decl.Members {
		info.Members[member.Name] = member.Type
		c.methodToClasses[member.Name] = append(c.methodToClasses[member.Name], decl.Name)
	}
	c.classes[decl.Name] = info
}

// registerCollectedSigs installs every signature's scheme into the global
// environment. Names with several signatures become overload sets.
func (c *Checker) registerCollectedSigs(env *TypeEnv) {
	names := make([]string, 0, len(c.sigs))
	for name := range c.sigs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries := c.sigs[name]
		schemes := make([]typesystem.Scheme, len(entries))
		for i, entry := range entries {
			schemes[i] = entry.scheme
		}
		env.InsertOverloads(name, schemes)
	}
}

// registerModuleDefs gives every definition without a signature a fresh
// monomorphic placeholder, so mutually recursive definitions can reference
// each other before their bodies are inferred.
func (c *Checker) registerModuleDefs(mod *ast.Module, env *TypeEnv) {
	c.walkItems(mod.Items, func(item ast.ModuleItem, _ string) {
		def, ok := item.(*ast.Def)
		if !ok {
			return
		}
		if _, hasSig := c.sigs[def.Name]; hasSig {
			return
		}
		if _, exists := env.LookupAll(def.Name); exists {
			return
		}
		env.Insert(def.Name, typesystem.Mono(c.fresh()))
	})
}

// checkModuleDefs infers every definition body. The substitution is
// restored after each definition; generalization has already resolved the
// definition's scheme by then, and bindings from one definition must not
// leak into the next.
func (c *Checker) checkModuleDefs(mod *ast.Module, env *TypeEnv) {
	c.walkItems(mod.Items, func(item ast.ModuleItem, _ string) {
		def, ok := item.(*ast.Def)
		if !ok {
			return
		}
		saved := c.subst
		savedAssumed := len(c.assumed)
		c.checkDef(def, env)
		c.subst = saved
		c.assumed = c.assumed[:savedAssumed]
	})
}

func (c *Checker) walkItems(items []ast.ModuleItem, visit func(ast.ModuleItem, string)) {
	for _, item := range items {
		if domain, ok := item.(*ast.DomainDecl); ok {
			for _, inner := range domain.Items {
				visit(inner, domain.Name)
			}
			continue
		}
		visit(item, "")
	}
}

// checkDef checks one top-level definition. With a single signature the
// body is checked against it; with several, the body is checked against
// each candidate speculatively and the first that fits wins; without one,
// the definition's type is inferred and generalized into the environment.
func (c *Checker) checkDef(def *ast.Def, env *TypeEnv) {
	entries := c.sigs[def.Name]
	switch len(entries) {
	case 0:
		c.checkUnsignedDef(def, env)
	case 1:
		if err := c.checkDefAgainst(def, entries[0], env); err != nil {
			c.report(err)
		}
	default:
		saved := c.subst
		for _, entry := range entries {
			c.subst = saved
			assumedMark := len(c.assumed)
			if err := c.checkDefAgainst(def, entry, env); err == nil {
				return
			}
			c.assumed = c.assumed[:assumedMark]
		}
		c.subst = saved
		if err := c.checkDefAgainst(def, entries[0], env); err != nil {
			c.report(err)
		}
	}
}

// checkDefAgainst checks def's parameters and body against one declared
// signature. Constraints on the signature register assumed class
// constraints for their variables, which instance dispatch consults when
// no concrete instance matches.
func (c *Checker) checkDefAgainst(def *ast.Def, entry sigEntry, env *TypeEnv) error {
	var declared typesystem.Type
	var quantified []typesystem.VarID
	if len(entry.node.Constraints) > 0 {
		ctx := newTypeCtx()
		built, err := c.buildType(entry.node.Type, ctx)
		if err != nil {
			return err
		}
		for _, constraint := range entry.node.Constraints {
			id, ok := ctx.vars[constraint.Var]
			if !ok {
				return errorf(diagnostics.ErrUnknownName, entry.node.Loc, "constraint names unknown type variable '%s'", constraint.Var)
			}
			c.assumed = append(c.assumed, assumedConstraint{Class: constraint.Class, ID: id})
		}
		declared = built
		quantified = ctx.order
	} else {
		mapping := make(map[typesystem.VarID]typesystem.Type, len(entry.scheme.Vars))
		for _, v := range entry.scheme.Vars {
			fresh := c.fresh()
			mapping[v] = fresh
			quantified = append(quantified, fresh.ID)
		}
		declared = typesystem.Substitute(entry.scheme.Body, mapping)
	}

	scope := env.Child()
	cur := declared
	for _, param := range def.Params {
		expanded := c.expandAlias(c.subst.Apply(cur), make(map[string]bool))
		fn, ok := expanded.(typesystem.TFunc)
		if !ok {
			argTy, err := c.inferPattern(param, scope)
			if err != nil {
				return err
			}
			result := c.fresh()
			if err := c.unify(cur, typesystem.TFunc{Param: argTy, Result: result}, param.Span()); err != nil {
				return err
			}
			cur = result
			continue
		}
		patTy, err := c.inferPattern(param, scope)
		if err != nil {
			return err
		}
		if err := c.unify(patTy, fn.Param, param.Span()); err != nil {
			return err
		}
		cur = fn.Result
	}

	bodyTy, err := c.Infer(def.Body, scope)
	if err != nil {
		return err
	}
	if err := c.unify(bodyTy, cur, def.Body.Span()); err != nil {
		return err
	}
	// A signature variable pinned to a concrete type means the body is
	// not as polymorphic as the signature claims.
	for _, id := range quantified {
		resolved := c.subst.Apply(typesystem.TVar{ID: id})
		if _, stillVar := resolved.(typesystem.TVar); !stillVar {
			return errorf(diagnostics.ErrTypeMismatch, def.Loc,
				"definition of '%s' is less general than its signature", def.Name)
		}
	}
	return nil
}

// checkUnsignedDef infers a definition with no signature and generalizes
// the result into the environment, replacing the monomorphic placeholder.
func (c *Checker) checkUnsignedDef(def *ast.Def, env *TypeEnv) {
	scope := env.Child()
	paramTys := make([]typesystem.Type, len(def.Params))
	for i, param := range def.Params {
		ty, err := c.inferPattern(param, scope)
		if err != nil {
			c.report(err)
			return
		}
		paramTys[i] = ty
	}
	bodyTy, err := c.Infer(def.Body, scope)
	if err != nil {
		c.report(err)
		return
	}
	defTy := typesystem.Func(bodyTy, paramTys...)
	if placeholder, ok := env.Lookup(def.Name); ok && len(placeholder.Vars) == 0 {
		if err := c.unify(defTy, placeholder.Body, def.Loc); err != nil {
			c.report(err)
			return
		}
	}
	// The placeholder's own variables must not block quantification.
	env.Remove(def.Name)
	env.Insert(def.Name, c.generalize(defTy, env))
}
