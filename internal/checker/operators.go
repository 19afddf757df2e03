package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

func isDomainOp(op string) bool {
	switch op {
	case "++", "+", "-", "*", "×", "/", "%", "<", ">", "<=", ">=":
		return true
	}
	return false
}

func isComparisonOp(op string) bool {
	switch op {
	case "<", ">", "<=", ">=":
		return true
	}
	return false
}

func (c *Checker) inferBinary(expr *ast.BinaryExpr, env *TypeEnv) (typesystem.Type, error) {
	switch expr.Op {
	case "|>":
		// x |> f is f(x); routing through call inference keeps overload
		// resolution working on the right-hand side.
		call := &ast.CallExpr{Func: expr.Right, Args: []ast.Expr{expr.Left}, Loc: expr.Loc}
		return c.inferCall(call, env)
	case "<|":
		return c.inferPatchApply(expr, env)
	case "..":
		return c.inferRange(expr, env)
	case "==", "!=":
		leftTy, err := c.Infer(expr.Left, env)
		if err != nil {
			return nil, err
		}
		rightTy, err := c.Infer(expr.Right, env)
		if err != nil {
			return nil, err
		}
		if err := c.unify(rightTy, leftTy, expr.Right.Span()); err != nil {
			return nil, err
		}
		return tBool, nil
	case "&&", "||":
		for _, side := range []ast.Expr{expr.Left, expr.Right} {
			ty, err := c.Infer(side, env)
			if err != nil {
				return nil, err
			}
			if err := c.unify(ty, tBool, side.Span()); err != nil {
				return nil, err
			}
		}
		return tBool, nil
	default:
		if isDomainOp(expr.Op) {
			return c.inferDomainOp(expr, env)
		}
		return nil, errorf(diagnostics.ErrUnknownName, expr.Loc, "unknown operator '%s'", expr.Op)
	}
}

// inferPatchApply types `target <| patch`. A patch or record literal on
// the right is checked directly against the target's type, so each entry
// sees the concrete field type when choosing between a replacement value
// and a transform function. Any other right-hand side must be a Patch of
// the target.
func (c *Checker) inferPatchApply(expr *ast.BinaryExpr, env *TypeEnv) (typesystem.Type, error) {
	targetTy, err := c.Infer(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch rhs := expr.Right.(type) {
	case *ast.PatchLit:
		if err := c.checkPatchFields(rhs.Fields, targetTy, env); err != nil {
			return nil, err
		}
		return targetTy, nil
	case *ast.RecordLit:
		if err := c.checkRecordOverlay(rhs, targetTy, env); err != nil {
			return nil, err
		}
		return targetTy, nil
	default:
		patchTy, err := c.Infer(expr.Right, env)
		if err != nil {
			return nil, err
		}
		if err := c.unify(patchTy, typesystem.TFunc{Param: targetTy, Result: targetTy}, expr.Right.Span()); err != nil {
			return nil, err
		}
		return targetTy, nil
	}
}

func (c *Checker) inferRange(expr *ast.BinaryExpr, env *TypeEnv) (typesystem.Type, error) {
	for _, side := range []ast.Expr{expr.Left, expr.Right} {
		ty, err := c.Infer(side, env)
		if err != nil {
			return nil, err
		}
		if err := c.unify(ty, tInt, side.Span()); err != nil {
			return nil, err
		}
	}
	return tList(tInt), nil
}

type opCandidate struct {
	scheme typesystem.Scheme
	subst  typesystem.Subst
	result typesystem.Type
}

// inferDomainOp types an infix domain operator. Builtin numeric and
// concatenation shapes are fast paths, then a Float operand pins a
// variable on the other side before any overload search. Otherwise the
// overload set registered under "(op)" is searched from the substitution
// produced by the operands; when the operator has several distinct
// overloads, the right operand is checked against each candidate's
// declared parameter instead of its inferred type, so an integral literal
// can stand for an expected Float. Numeric defaulting applies when no
// candidate exists at all.
func (c *Checker) inferDomainOp(expr *ast.BinaryExpr, env *TypeEnv) (typesystem.Type, error) {
	leftTy, err := c.Infer(expr.Left, env)
	if err != nil {
		return nil, err
	}
	rightTy, err := c.Infer(expr.Right, env)
	if err != nil {
		return nil, err
	}
	afterOperands := c.subst

	la := c.expandAlias(c.subst.Apply(leftTy), make(map[string]bool))
	ra := c.expandAlias(c.subst.Apply(rightTy), make(map[string]bool))

	if ty, ok := c.domainOpFastPath(expr.Op, la, ra, expr.Loc); ok {
		return ty, nil
	}
	if ty, done, err := c.floatPropagation(expr, leftTy, rightTy, la, ra); done {
		return ty, err
	}

	name := "(" + expr.Op + ")"
	schemes, _ := env.LookupAll(name)
	distinct := dedupeOpSchemes(schemes)

	var candidates []opCandidate
	if len(distinct) > 1 {
		candidates = c.tryOpCandidatesExpectedRHS(distinct, leftTy, expr.Right, env, afterOperands, expr.Loc)
	} else {
		candidates = c.tryOpCandidates(distinct, leftTy, rightTy, afterOperands, expr.Loc)
	}

	switch len(candidates) {
	case 1:
		c.subst = candidates[0].subst
		return c.subst.Apply(candidates[0].result), nil
	case 0:
		c.subst = afterOperands
		return c.domainOpFallback(expr, leftTy, rightTy, la, ra)
	default:
		c.subst = afterOperands
		return nil, c.ambiguousOpError(expr.Op, la, candidates, expr.Loc)
	}
}

// floatPropagation pins a variable operand to Float when the other side
// already is one. A concrete non-Float operand leaves resolution to the
// overload set instead; concatenation never propagates.
func (c *Checker) floatPropagation(expr *ast.BinaryExpr, leftTy, rightTy, la, ra typesystem.Type) (typesystem.Type, bool, error) {
	if expr.Op == "++" {
		return nil, false, nil
	}
	lName, lCon := conName(la)
	rName, rCon := conName(ra)
	_, lVar := la.(typesystem.TVar)
	_, rVar := ra.(typesystem.TVar)
	if !((lCon && lName == "Float" && rVar) || (rCon && rName == "Float" && lVar)) {
		return nil, false, nil
	}
	if err := c.unify(leftTy, tFloat, expr.Left.Span()); err != nil {
		return nil, true, err
	}
	if err := c.unify(rightTy, tFloat, expr.Right.Span()); err != nil {
		return nil, true, err
	}
	if isComparisonOp(expr.Op) {
		return tBool, true, nil
	}
	return tFloat, true, nil
}

// domainOpFastPath handles the builtin operand shapes without consulting
// the overload set.
func (c *Checker) domainOpFastPath(op string, la, ra typesystem.Type, span diagnostics.Span) (typesystem.Type, bool) {
	lName, lCon := conName(la)
	rName, rCon := conName(ra)
	if !lCon || !rCon {
		return nil, false
	}
	if op == "++" {
		if lName == "Text" && rName == "Text" {
			return tText, true
		}
		if lName == "List" && rName == "List" {
			saved := c.subst
			if err := c.unify(la, ra, span); err == nil {
				return c.subst.Apply(la), true
			}
			c.subst = saved
		}
		return nil, false
	}
	if lName == "Int" && rName == "Int" {
		if isComparisonOp(op) {
			return tBool, true
		}
		return tInt, true
	}
	if lName == "Float" && rName == "Float" {
		if isComparisonOp(op) {
			return tBool, true
		}
		return tFloat, true
	}
	return nil, false
}

// dedupeOpSchemes collapses overloads whose signatures render identically,
// so repeated declarations count as one candidate.
func dedupeOpSchemes(schemes []typesystem.Scheme) []typesystem.Scheme {
	var out []typesystem.Scheme
	seen := make(map[string]bool, len(schemes))
	for _, scheme := range schemes {
		key := renderSchemeKey(scheme)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, scheme)
	}
	return out
}

// tryOpCandidates attempts every overload of the operator from the given
// base substitution, keeping the ones whose parameters unify with both
// operand types.
func (c *Checker) tryOpCandidates(schemes []typesystem.Scheme, leftTy, rightTy typesystem.Type, base typesystem.Subst, span diagnostics.Span) []opCandidate {
	var out []opCandidate
	for _, scheme := range schemes {
		c.subst = base
		fn := c.instantiate(scheme)
		result := c.fresh()
		if err := c.unify(fn, typesystem.Func(result, leftTy, rightTy), span); err == nil {
			out = append(out, opCandidate{scheme: scheme, subst: c.subst, result: result})
		}
	}
	c.subst = base
	return out
}

// tryOpCandidatesExpectedRHS attempts each candidate with the right
// operand checked against the candidate's declared second parameter
// instead of its inferred type.
func (c *Checker) tryOpCandidatesExpectedRHS(schemes []typesystem.Scheme, leftTy typesystem.Type, right ast.Expr, env *TypeEnv, base typesystem.Subst, span diagnostics.Span) []opCandidate {
	var out []opCandidate
	for _, scheme := range schemes {
		c.subst = base
		fn := c.instantiate(scheme)
		first, ok := c.expandAlias(c.subst.Apply(fn), make(map[string]bool)).(typesystem.TFunc)
		if !ok {
			continue
		}
		if err := c.unify(leftTy, first.Param, span); err != nil {
			continue
		}
		second, ok := c.expandAlias(c.subst.Apply(first.Result), make(map[string]bool)).(typesystem.TFunc)
		if !ok {
			continue
		}
		if err := c.checkExpr(right, second.Param, env); err != nil {
			continue
		}
		out = append(out, opCandidate{scheme: scheme, subst: c.subst, result: second.Result})
	}
	c.subst = base
	return out
}

// domainOpFallback applies Int defaulting when no overload matched and
// both sides are Int-compatible. Concatenation never defaults.
func (c *Checker) domainOpFallback(expr *ast.BinaryExpr, leftTy, rightTy, la, ra typesystem.Type) (typesystem.Type, error) {
	if expr.Op == "++" {
		return nil, errorf(diagnostics.ErrNoOverload, expr.Loc, "no domain operator '%s' for these operand types", expr.Op)
	}
	lName, lCon := conName(la)
	rName, rCon := conName(ra)
	_, lVar := la.(typesystem.TVar)
	_, rVar := ra.(typesystem.TVar)

	lIntish := lVar || (lCon && lName == "Int")
	rIntish := rVar || (rCon && rName == "Int")
	if lIntish && rIntish {
		if err := c.unify(leftTy, tInt, expr.Left.Span()); err != nil {
			return nil, err
		}
		if err := c.unify(rightTy, tInt, expr.Right.Span()); err != nil {
			return nil, err
		}
		if isComparisonOp(expr.Op) {
			return tBool, nil
		}
		return tInt, nil
	}
	return nil, errorf(diagnostics.ErrNoOverload, expr.Loc, "no domain operator '%s' for these operand types", expr.Op)
}

// ambiguousOpError reports an unresolved operator, naming the first two
// surviving candidates with their origins. A left operand that is still a
// variable gets the annotation hint instead.
func (c *Checker) ambiguousOpError(op string, la typesystem.Type, candidates []opCandidate, span diagnostics.Span) error {
	first, second := candidates[0], candidates[1]
	fp, sp := typesystem.NewPrinter(), typesystem.NewPrinter()
	firstSig := fp.Print(first.scheme.Body)
	secondSig := sp.Print(second.scheme.Body)
	if _, leftVar := la.(typesystem.TVar); leftVar {
		return errorf(diagnostics.ErrAmbiguousOverload, span,
			"cannot determine which domain operator '%s' to use; candidates: %s (%s) vs %s (%s); add a type annotation to disambiguate",
			op, firstSig, first.scheme.OriginLabel(), secondSig, second.scheme.OriginLabel())
	}
	return errorf(diagnostics.ErrAmbiguousOverload, span,
		"ambiguous domain operator '%s' for these operand types; candidates: %s (%s) vs %s (%s)",
		op, firstSig, first.scheme.OriginLabel(), secondSig, second.scheme.OriginLabel())
}

func conName(t typesystem.Type) (string, bool) {
	con, ok := t.(typesystem.TCon)
	if !ok {
		return "", false
	}
	return con.Name, true
}
