package checker

import (
	"fmt"
	"strings"

	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// inferMatch types a match expression. Without a scrutinee the match is
// the multi-clause function sugar and types as a function from the
// matched type to the arm result. Arm analysis runs after inference so it
// sees the resolved scrutinee type.
func (c *Checker) inferMatch(match *ast.MatchExpr, env *TypeEnv) (typesystem.Type, error) {
	var scrTy typesystem.Type
	if match.Scrutinee == nil {
		scrTy = c.fresh()
	} else {
		ty, err := c.Infer(match.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		scrTy = ty
	}

	result := c.fresh()
	for _, arm := range match.Arms {
		scope := env.Child()
		patTy, err := c.inferPattern(arm.Pattern, scope)
		if err != nil {
			return nil, err
		}
		if err := c.unify(patTy, scrTy, arm.Pattern.Span()); err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			guardTy, err := c.Infer(arm.Guard, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(guardTy, tBool, arm.Guard.Span()); err != nil {
				return nil, err
			}
		}
		bodyTy, err := c.Infer(arm.Body, scope)
		if err != nil {
			return nil, err
		}
		if err := c.unify(bodyTy, result, arm.Body.Span()); err != nil {
			return nil, err
		}
	}

	c.analyzeMatch(scrTy, match)

	if match.Scrutinee == nil {
		return typesystem.TFunc{Param: scrTy, Result: result}, nil
	}
	return typesystem.Type(result), nil
}

// analyzeMatch reports unreachable arms and, for scrutinee types with a
// known constructor table, missing constructors. A constructor is missing
// only when no arm mentions it at all; guarded arms and arms with
// refutable sub-patterns still mention their head. Reachability is
// stricter: an arm retires its head constructor only when every
// sub-pattern is irrefutable and the arm has no guard. Findings go
// straight to the diagnostic set so inference of the surrounding
// definition continues.
func (c *Checker) analyzeMatch(scrTy typesystem.Type, match *ast.MatchExpr) {
	covered := make(map[string]bool)
	seen := make(map[string]bool)
	haveCatchAll := false
	for _, arm := range match.Arms {
		if haveCatchAll {
			c.diags.Add(diagnostics.NewWarning(diagnostics.WarnUnreachableArm, arm.Loc,
				"unreachable match arm (previous arm matches everything)"))
			continue
		}
		if name, mentioned := ctorHead(arm.Pattern); mentioned {
			seen[name] = true
		}
		if arm.Guard != nil {
			continue
		}
		if isCatchAllPattern(arm.Pattern) {
			haveCatchAll = true
			continue
		}
		if name, full := coveringCtor(arm.Pattern); full {
			if covered[name] {
				c.diags.Add(diagnostics.NewWarning(diagnostics.WarnUnreachableArm, arm.Loc,
					fmt.Sprintf("unreachable match arm (constructor '%s' already matched by a previous arm)", name)))
				continue
			}
			covered[name] = true
		}
	}
	if haveCatchAll {
		return
	}

	resolved := c.expandAlias(c.subst.Apply(scrTy), make(map[string]bool))
	con, ok := resolved.(typesystem.TCon)
	if !ok {
		return
	}
	table, known := c.adtCtors[con.Name]
	if !known || len(table) == 0 {
		return
	}
	var missing []string
	for _, ctor := range table {
		if !seen[ctor] {
			missing = append(missing, ctor)
		}
	}
	if len(missing) > 0 {
		c.diags.Add(diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, match.Loc,
			"non-exhaustive match (missing: "+strings.Join(missing, ", ")+")"))
	}
}

// isCatchAllPattern reports whether a pattern matches every value of its
// type: wildcards, plain binders, and as-patterns over catch-alls.
func isCatchAllPattern(pat ast.Pattern) bool {
	switch pat := pat.(type) {
	case *ast.WildcardPattern, *ast.BindPattern:
		return true
	case *ast.AsPattern:
		return isCatchAllPattern(pat.Inner)
	default:
		return false
	}
}

// ctorHead reports the constructor a pattern mentions, regardless of its
// sub-patterns or any guard. Bool literal patterns count as their
// constructor.
func ctorHead(pat ast.Pattern) (string, bool) {
	switch pat := pat.(type) {
	case *ast.CtorPattern:
		return pat.Name, true
	case *ast.LiteralPattern:
		if lit, ok := pat.Lit.(*ast.BoolLit); ok {
			if lit.Value {
				return "True", true
			}
			return "False", true
		}
		return "", false
	case *ast.AsPattern:
		return ctorHead(pat.Inner)
	default:
		return "", false
	}
}

// coveringCtor reports the head constructor of a pattern that fully
// covers it, i.e. whose sub-patterns are all catch-alls. Bool literal
// patterns count as their constructor.
func coveringCtor(pat ast.Pattern) (string, bool) {
	switch pat := pat.(type) {
	case *ast.CtorPattern:
		for _, arg := range pat.Args {
			if !isCatchAllPattern(arg) {
				return "", false
			}
		}
		return pat.Name, true
	case *ast.LiteralPattern:
		if lit, ok := pat.Lit.(*ast.BoolLit); ok {
			if lit.Value {
				return "True", true
			}
			return "False", true
		}
		return "", false
	case *ast.AsPattern:
		return coveringCtor(pat.Inner)
	default:
		return "", false
	}
}
