package ast

import (
	"encoding/json"
	"fmt"

	"github.com/funvibe/lumen/internal/diagnostics"
)

// JSON decoding of parser output. Every node is an object with a "kind"
// discriminator plus that kind's fields; spans use the diagnostics.Span
// JSON shape. The parser lives in a separate tool, so this is the only
// wire surface between it and the checker.

// DecodeProgram decodes a list of modules.
func DecodeProgram(data []byte) ([]*Module, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	modules := make([]*Module, 0, len(raw))
	for i, item := range raw {
		mod, err := DecodeModule(item)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

// DecodeModule decodes a single module.
func DecodeModule(data []byte) (*Module, error) {
	var wire struct {
		Name  string            `json:"name"`
		Items []json.RawMessage `json:"items"`
		Loc   diagnostics.Span  `json:"span"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}
	mod := &Module{Name: wire.Name, Loc: wire.Loc}
	for i, raw := range wire.Items {
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		mod.Items = append(mod.Items, item)
	}
	return mod, nil
}

type wireNode struct {
	Kind string           `json:"kind"`
	Loc  diagnostics.Span `json:"span"`

	Name   string `json:"name,omitempty"`
	Text   string `json:"text,omitempty"`
	Value  string `json:"value,omitempty"`
	Bool   bool   `json:"bool,omitempty"`
	Op     string `json:"op,omitempty"`
	Suffix string `json:"suffix,omitempty"`
	Monad  string `json:"monad,omitempty"`
	Class  string `json:"class,omitempty"`
	Spread bool   `json:"spread,omitempty"`
	Open   bool   `json:"open,omitempty"`

	Expr      json.RawMessage   `json:"expr,omitempty"`
	Base      json.RawMessage   `json:"base,omitempty"`
	Index     json.RawMessage   `json:"index,omitempty"`
	Func      json.RawMessage   `json:"func,omitempty"`
	Left      json.RawMessage   `json:"left,omitempty"`
	Right     json.RawMessage   `json:"right,omitempty"`
	Cond      json.RawMessage   `json:"cond,omitempty"`
	Then      json.RawMessage   `json:"then,omitempty"`
	Else      json.RawMessage   `json:"else,omitempty"`
	Body      json.RawMessage   `json:"body,omitempty"`
	Scrutinee json.RawMessage   `json:"scrutinee,omitempty"`
	Guard     json.RawMessage   `json:"guard,omitempty"`
	Pattern   json.RawMessage   `json:"pattern,omitempty"`
	Inner     json.RawMessage   `json:"inner,omitempty"`
	Type      json.RawMessage   `json:"type,omitempty"`
	Param     json.RawMessage   `json:"param,omitempty"`
	Result    json.RawMessage   `json:"result,omitempty"`
	Lit       json.RawMessage   `json:"lit,omitempty"`
	Args      []json.RawMessage `json:"args,omitempty"`
	Items     []json.RawMessage `json:"items,omitempty"`
	Params    []json.RawMessage `json:"params,omitempty"`
	Arms      []json.RawMessage `json:"arms,omitempty"`
	Fields    []json.RawMessage `json:"fields,omitempty"`
	Path      []json.RawMessage `json:"path,omitempty"`
	Members   []json.RawMessage `json:"members,omitempty"`
	Ctors     []json.RawMessage `json:"ctors,omitempty"`
	Supers    []string          `json:"supers,omitempty"`
	Names     []string          `json:"names,omitempty"`
	Rest      string            `json:"rest,omitempty"`
	HasRest   bool              `json:"has_rest,omitempty"`

	Constraints []struct {
		Class string `json:"class"`
		Var   string `json:"var"`
	} `json:"constraints,omitempty"`
}

func decodeWire(data []byte) (*wireNode, error) {
	var node wireNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func decodeExpr(data []byte) (Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	n, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "ident":
		return &Ident{Name: n.Name, Loc: n.Loc}, nil
	case "number":
		return &NumberLit{Text: n.Text, Loc: n.Loc}, nil
	case "string":
		return &StringLit{Value: n.Value, Loc: n.Loc}, nil
	case "bool":
		return &BoolLit{Value: n.Bool, Loc: n.Loc}, nil
	case "list":
		out := &ListLit{Loc: n.Loc}
		for _, raw := range n.Items {
			item, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			expr, err := decodeExpr(item.Expr)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, ListItem{Expr: expr, Spread: item.Spread, Loc: item.Loc})
		}
		return out, nil
	case "tuple":
		out := &TupleLit{Loc: n.Loc}
		for _, raw := range n.Items {
			expr, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, expr)
		}
		return out, nil
	case "record", "patch":
		fields, err := decodeRecordFields(n.Fields)
		if err != nil {
			return nil, err
		}
		if n.Kind == "patch" {
			return &PatchLit{Fields: fields, Loc: n.Loc}, nil
		}
		return &RecordLit{Fields: fields, Loc: n.Loc}, nil
	case "field_access":
		base, err := decodeExpr(n.Base)
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Base: base, Field: n.Name, FieldLoc: n.Loc, Loc: n.Loc}, nil
	case "index":
		base, err := decodeExpr(n.Base)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Base: base, Index: index, Loc: n.Loc}, nil
	case "call":
		fn, err := decodeExpr(n.Func)
		if err != nil {
			return nil, err
		}
		out := &CallExpr{Func: fn, Loc: n.Loc}
		for _, raw := range n.Args {
			arg, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, arg)
		}
		return out, nil
	case "lambda":
		params, err := decodePatterns(n.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: params, Body: body, Loc: n.Loc}, nil
	case "match":
		scrutinee, err := decodeExpr(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		out := &MatchExpr{Scrutinee: scrutinee, Loc: n.Loc}
		for _, raw := range n.Arms {
			arm, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			pattern, err := decodePattern(arm.Pattern)
			if err != nil {
				return nil, err
			}
			guard, err := decodeExpr(arm.Guard)
			if err != nil {
				return nil, err
			}
			body, err := decodeExpr(arm.Body)
			if err != nil {
				return nil, err
			}
			out.Arms = append(out.Arms, MatchArm{Pattern: pattern, Guard: guard, Body: body, Loc: arm.Loc})
		}
		return out, nil
	case "if":
		cond, err := decodeExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &IfExpr{Cond: cond, Then: then, Else: els, Loc: n.Loc}, nil
	case "binary":
		left, err := decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: n.Op, Left: left, Right: right, Loc: n.Loc}, nil
	case "neg":
		operand, err := decodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return &UnaryNeg{Operand: operand, Loc: n.Loc}, nil
	case "suffixed":
		base, err := decodeExpr(n.Base)
		if err != nil {
			return nil, err
		}
		return &SuffixedExpr{Base: base, Suffix: n.Suffix, Loc: n.Loc}, nil
	case "block":
		out := &BlockExpr{Monad: n.Monad, Loc: n.Loc}
		switch n.Name {
		case "do":
			out.Kind = BlockDo
		case "generate":
			out.Kind = BlockGenerate
		case "resource":
			out.Kind = BlockResource
		default:
			out.Kind = BlockPlain
		}
		for _, raw := range n.Items {
			item, err := decodeBlockItem(raw)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", n.Kind)
	}
}

func decodeBlockItem(data []byte) (BlockItem, error) {
	n, err := decodeWire(data)
	if err != nil {
		return BlockItem{}, err
	}
	item := BlockItem{Loc: n.Loc}
	switch n.Kind {
	case "let":
		item.Kind = ItemLet
	case "bind":
		item.Kind = ItemBind
	case "filter":
		item.Kind = ItemFilter
	case "yield":
		item.Kind = ItemYield
	case "expr":
		item.Kind = ItemExpr
	default:
		return BlockItem{}, fmt.Errorf("unknown block item kind %q", n.Kind)
	}
	if len(n.Pattern) > 0 {
		pattern, err := decodePattern(n.Pattern)
		if err != nil {
			return BlockItem{}, err
		}
		item.Pattern = pattern
	}
	expr, err := decodeExpr(n.Expr)
	if err != nil {
		return BlockItem{}, err
	}
	item.Expr = expr
	return item, nil
}

func decodeRecordFields(raw []json.RawMessage) ([]RecordField, error) {
	var fields []RecordField
	for _, data := range raw {
		n, err := decodeWire(data)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		field := RecordField{Spread: n.Spread, Value: value, Loc: n.Loc}
		for _, segRaw := range n.Path {
			seg, err := decodeWire(segRaw)
			if err != nil {
				return nil, err
			}
			segment := PathSegment{Loc: seg.Loc}
			switch seg.Kind {
			case "field":
				segment.Kind = PathField
				segment.Name = seg.Name
			case "index":
				segment.Kind = PathIndex
				index, err := decodeExpr(seg.Expr)
				if err != nil {
					return nil, err
				}
				segment.Index = index
			case "all":
				segment.Kind = PathAll
			default:
				return nil, fmt.Errorf("unknown path segment kind %q", seg.Kind)
			}
			field.Path = append(field.Path, segment)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func decodePatterns(raw []json.RawMessage) ([]Pattern, error) {
	var out []Pattern
	for _, data := range raw {
		p, err := decodePattern(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePattern(data []byte) (Pattern, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	n, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "wildcard":
		return &WildcardPattern{Loc: n.Loc}, nil
	case "bind":
		return &BindPattern{Name: n.Name, Loc: n.Loc}, nil
	case "literal":
		lit, err := decodeExpr(n.Lit)
		if err != nil {
			return nil, err
		}
		return &LiteralPattern{Lit: lit, Loc: n.Loc}, nil
	case "ctor":
		args, err := decodePatterns(n.Args)
		if err != nil {
			return nil, err
		}
		return &CtorPattern{Name: n.Name, Args: args, Loc: n.Loc}, nil
	case "tuple":
		items, err := decodePatterns(n.Items)
		if err != nil {
			return nil, err
		}
		return &TuplePattern{Items: items, Loc: n.Loc}, nil
	case "list":
		items, err := decodePatterns(n.Items)
		if err != nil {
			return nil, err
		}
		return &ListPattern{Items: items, Rest: n.Rest, HasRest: n.HasRest || n.Rest != "", Loc: n.Loc}, nil
	case "record":
		out := &RecordPattern{Loc: n.Loc}
		for _, raw := range n.Fields {
			f, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			var inner Pattern
			if len(f.Pattern) > 0 {
				inner, err = decodePattern(f.Pattern)
				if err != nil {
					return nil, err
				}
			}
			out.Fields = append(out.Fields, RecordPatternField{Name: f.Name, Pattern: inner, Loc: f.Loc})
		}
		return out, nil
	case "as":
		inner, err := decodePattern(n.Inner)
		if err != nil {
			return nil, err
		}
		return &AsPattern{Name: n.Name, Inner: inner, Loc: n.Loc}, nil
	default:
		return nil, fmt.Errorf("unknown pattern kind %q", n.Kind)
	}
}

func decodeTypeExprs(raw []json.RawMessage) ([]TypeExpr, error) {
	var out []TypeExpr
	for _, data := range raw {
		t, err := decodeTypeExpr(data)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeTypeExpr(data []byte) (TypeExpr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	n, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "named":
		args, err := decodeTypeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &NamedType{Name: n.Name, Args: args, Loc: n.Loc}, nil
	case "var":
		return &VarType{Name: n.Name, Loc: n.Loc}, nil
	case "func":
		param, err := decodeTypeExpr(n.Param)
		if err != nil {
			return nil, err
		}
		result, err := decodeTypeExpr(n.Result)
		if err != nil {
			return nil, err
		}
		return &FuncTypeExpr{Param: param, Result: result, Loc: n.Loc}, nil
	case "tuple":
		items, err := decodeTypeExprs(n.Items)
		if err != nil {
			return nil, err
		}
		return &TupleTypeExpr{Items: items, Loc: n.Loc}, nil
	case "record":
		out := &RecordTypeExpr{Open: n.Open, Loc: n.Loc}
		for _, raw := range n.Fields {
			f, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			fieldType, err := decodeTypeExpr(f.Type)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, RecordTypeField{Name: f.Name, Type: fieldType, Loc: f.Loc})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown type expression kind %q", n.Kind)
	}
}

func decodeItem(data []byte) (ModuleItem, error) {
	n, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "sig":
		sigType, err := decodeTypeExpr(n.Type)
		if err != nil {
			return nil, err
		}
		sig := &TypeSig{Name: n.Name, Type: sigType, Loc: n.Loc}
		for _, c := range n.Constraints {
			sig.Constraints = append(sig.Constraints, Constraint{Class: c.Class, Var: c.Var})
		}
		return sig, nil
	case "def":
		params, err := decodePatterns(n.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &Def{Name: n.Name, Params: params, Body: body, Loc: n.Loc}, nil
	case "type":
		decl := &TypeDecl{Name: n.Name, Params: n.Names, Loc: n.Loc}
		for _, raw := range n.Ctors {
			c, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			args, err := decodeTypeExprs(c.Args)
			if err != nil {
				return nil, err
			}
			decl.Ctors = append(decl.Ctors, CtorDecl{Name: c.Name, Args: args, Loc: c.Loc})
		}
		return decl, nil
	case "alias":
		body, err := decodeTypeExpr(n.Type)
		if err != nil {
			return nil, err
		}
		return &AliasDecl{Name: n.Name, Params: n.Names, Body: body, Loc: n.Loc}, nil
	case "class":
		decl := &ClassDecl{Name: n.Name, Params: n.Names, Supers: n.Supers, Loc: n.Loc}
		for _, raw := range n.Members {
			m, err := decodeWire(raw)
			if err != nil {
				return nil, err
			}
			memberType, err := decodeTypeExpr(m.Type)
			if err != nil {
				return nil, err
			}
			decl.Members = append(decl.Members, ClassMember{Name: m.Name, Type: memberType, Loc: m.Loc})
		}
		return decl, nil
	case "instance":
		args, err := decodeTypeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &InstanceDecl{ClassName: n.Class, Args: args, Loc: n.Loc}, nil
	case "domain":
		decl := &DomainDecl{Name: n.Name, Loc: n.Loc}
		for _, raw := range n.Items {
			item, err := decodeItem(raw)
			if err != nil {
				return nil, err
			}
			decl.Items = append(decl.Items, item)
		}
		return decl, nil
	default:
		return nil, fmt.Errorf("unknown module item kind %q", n.Kind)
	}
}
