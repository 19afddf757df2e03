package checker

import (
	"github.com/funvibe/lumen/internal/ast"
	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

func (c *Checker) inferBlock(block *ast.BlockExpr, env *TypeEnv) (typesystem.Type, error) {
	switch block.Kind {
	case ast.BlockDo:
		return c.inferDoBlock(block, env)
	case ast.BlockGenerate:
		return c.inferGenerateBlock(block, env)
	case ast.BlockResource:
		return c.inferResourceBlock(block, env)
	default:
		return c.inferPlainBlock(block, env)
	}
}

// inferPlainBlock threads let bindings through a child scope; the block's
// type is its last expression's, or Unit when empty.
func (c *Checker) inferPlainBlock(block *ast.BlockExpr, env *TypeEnv) (typesystem.Type, error) {
	scope := env.Child()
	var last typesystem.Type = tUnit
	for _, item := range block.Items {
		switch item.Kind {
		case ast.ItemLet:
			if err := c.inferLetItem(item, scope); err != nil {
				return nil, err
			}
			last = tUnit
		case ast.ItemExpr:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			last = ty
		default:
			return nil, errorf(diagnostics.ErrTypeMismatch, item.Loc, "binds are only valid inside do, generate and resource blocks")
		}
	}
	return last, nil
}

func (c *Checker) inferLetItem(item ast.BlockItem, scope *TypeEnv) error {
	ty, err := c.Infer(item.Expr, scope)
	if err != nil {
		return err
	}
	patTy, err := c.inferPattern(item.Pattern, scope)
	if err != nil {
		return err
	}
	return c.unify(ty, patTy, item.Loc)
}

// inferDoBlock sequences computations in a named constructor. All binds
// share the constructor's leading arguments (the error type, for Effect)
// and extract its last argument; the block's type re-wraps the final
// value. The constructor defaults to Effect.
func (c *Checker) inferDoBlock(block *ast.BlockExpr, env *TypeEnv) (typesystem.Type, error) {
	monad := block.Monad
	if monad == "" {
		monad = "Effect"
	}
	arity, known := c.typeCtors[monad]
	if !known || arity == 0 {
		return nil, errorf(diagnostics.ErrUnknownName, block.Loc, "'%s' is not a type that do blocks can sequence", monad)
	}
	prefix := make([]typesystem.Type, arity-1)
	for i := range prefix {
		prefix[i] = c.fresh()
	}
	wrap := func(value typesystem.Type) typesystem.Type {
		args := make([]typesystem.Type, 0, arity)
		args = append(args, prefix...)
		args = append(args, value)
		return typesystem.Con(monad, args...)
	}

	scope := env.Child()
	var lastValue typesystem.Type = tUnit
	for _, item := range block.Items {
		switch item.Kind {
		case ast.ItemLet:
			if err := c.inferLetItem(item, scope); err != nil {
				return nil, err
			}
			lastValue = tUnit
		case ast.ItemBind:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			value := c.fresh()
			if err := c.unify(ty, wrap(value), item.Expr.Span()); err != nil {
				return nil, err
			}
			patTy, err := c.inferPattern(item.Pattern, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(patTy, value, item.Loc); err != nil {
				return nil, err
			}
			lastValue = value
		case ast.ItemExpr:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			value := c.fresh()
			if err := c.unify(ty, wrap(value), item.Expr.Span()); err != nil {
				return nil, err
			}
			lastValue = value
		default:
			return nil, errorf(diagnostics.ErrTypeMismatch, item.Loc, "unsupported item in do block")
		}
	}
	return wrap(lastValue), nil
}

// inferGenerateBlock types a generator comprehension. Binds draw elements
// from List or Generator sources (List is tried first, with rollback),
// filters are Bool, and all yields agree; the block produces a list of
// the yielded type.
func (c *Checker) inferGenerateBlock(block *ast.BlockExpr, env *TypeEnv) (typesystem.Type, error) {
	scope := env.Child()
	yielded := c.fresh()
	sawYield := false
	for _, item := range block.Items {
		switch item.Kind {
		case ast.ItemLet:
			if err := c.inferLetItem(item, scope); err != nil {
				return nil, err
			}
		case ast.ItemBind:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			elem := c.fresh()
			saved := c.subst
			if err := c.unify(ty, tList(elem), item.Expr.Span()); err != nil {
				c.subst = saved
				if err := c.unify(ty, typesystem.Con("Generator", elem), item.Expr.Span()); err != nil {
					return nil, err
				}
			}
			patTy, err := c.inferPattern(item.Pattern, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(patTy, elem, item.Loc); err != nil {
				return nil, err
			}
		case ast.ItemFilter:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(ty, tBool, item.Expr.Span()); err != nil {
				return nil, err
			}
		case ast.ItemYield:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(ty, yielded, item.Expr.Span()); err != nil {
				return nil, err
			}
			sawYield = true
		default:
			return nil, errorf(diagnostics.ErrTypeMismatch, item.Loc, "unsupported item in generate block")
		}
	}
	if !sawYield {
		return nil, errorf(diagnostics.ErrTypeMismatch, block.Loc, "generate block never yields")
	}
	return tList(yielded), nil
}

// inferResourceBlock types a resource scope. Binds acquire from Resource
// values; the block's last expression becomes the Resource result.
func (c *Checker) inferResourceBlock(block *ast.BlockExpr, env *TypeEnv) (typesystem.Type, error) {
	scope := env.Child()
	var last typesystem.Type = tUnit
	for _, item := range block.Items {
		switch item.Kind {
		case ast.ItemLet:
			if err := c.inferLetItem(item, scope); err != nil {
				return nil, err
			}
			last = tUnit
		case ast.ItemBind:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			value := c.fresh()
			if err := c.unify(ty, typesystem.Con("Resource", value), item.Expr.Span()); err != nil {
				return nil, err
			}
			patTy, err := c.inferPattern(item.Pattern, scope)
			if err != nil {
				return nil, err
			}
			if err := c.unify(patTy, value, item.Loc); err != nil {
				return nil, err
			}
			last = value
		case ast.ItemExpr:
			ty, err := c.Infer(item.Expr, scope)
			if err != nil {
				return nil, err
			}
			last = ty
		default:
			return nil, errorf(diagnostics.ErrTypeMismatch, item.Loc, "unsupported item in resource block")
		}
	}
	return typesystem.Con("Resource", last), nil
}
