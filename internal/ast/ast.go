// Package ast defines the surface tree the checker consumes: expressions,
// patterns, type expressions and module items, all carrying source spans.
// The tree is produced by the external parser and handed over either
// in-process or as JSON (see json.go).
package ast

import "github.com/funvibe/lumen/internal/diagnostics"

// Node is implemented by every tree node.
type Node interface {
	Span() diagnostics.Span
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Ident is a name reference.
type Ident struct {
	Name string
	Loc  diagnostics.Span
}

// NumberLit is a numeric literal, kept as text so the checker can classify
// Int vs Float (and suffixed forms) lexically.
type NumberLit struct {
	Text string
	Loc  diagnostics.Span
}

// StringLit is a text literal.
type StringLit struct {
	Value string
	Loc   diagnostics.Span
}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
	Loc   diagnostics.Span
}

// ListItem is one element of a list literal; Spread marks `...xs` elements,
// which must themselves be lists of the element type.
type ListItem struct {
	Expr   Expr
	Spread bool
	Loc    diagnostics.Span
}

// ListLit is a list literal.
type ListLit struct {
	Items []ListItem
	Loc   diagnostics.Span
}

// TupleLit is a tuple literal.
type TupleLit struct {
	Items []Expr
	Loc   diagnostics.Span
}

// PathKind discriminates record field path segments.
type PathKind int

const (
	PathField PathKind = iota
	PathIndex
	PathAll
)

// PathSegment is one step of a possibly nested record field path, e.g.
// `a.b[0].c` in a record literal.
type PathSegment struct {
	Kind  PathKind
	Name  string
	Index Expr
	Loc   diagnostics.Span
}

// RecordField is one entry of a record or patch literal: either a spread of
// another record-typed expression, or a (possibly nested) field assignment.
type RecordField struct {
	Spread bool
	Path   []PathSegment
	Value  Expr
	Loc    diagnostics.Span
}

// RecordLit is a record literal. Built incrementally as a closed record;
// spreads compose other records in.
type RecordLit struct {
	Fields []RecordField
	Loc    diagnostics.Span
}

// PatchLit is a standalone patch literal, applied to records via `<|`.
type PatchLit struct {
	Fields []RecordField
	Loc    diagnostics.Span
}

// FieldAccess is `base.field`.
type FieldAccess struct {
	Base     Expr
	Field    string
	FieldLoc diagnostics.Span
	Loc      diagnostics.Span
}

// IndexExpr is `base[index]`, overloaded between list and map indexing.
type IndexExpr struct {
	Base  Expr
	Index Expr
	Loc   diagnostics.Span
}

// CallExpr is function application, one node for the whole spine.
type CallExpr struct {
	Func Expr
	Args []Expr
	Loc  diagnostics.Span
}

// Lambda is an anonymous function with pattern parameters.
type Lambda struct {
	Params []Pattern
	Body   Expr
	Loc    diagnostics.Span
}

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	Loc     diagnostics.Span
}

// MatchExpr is a pattern match. A nil Scrutinee is the multi-clause
// unary-function sugar and types as a function.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
	Loc       diagnostics.Span
}

// IfExpr is a two-branch conditional.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  diagnostics.Span
}

// BinaryExpr is an infix operator application, including the pipeline
// forms `|>` and `<|` and the range operator `..`.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Loc   diagnostics.Span
}

// UnaryNeg is numeric negation.
type UnaryNeg struct {
	Operand Expr
	Loc     diagnostics.Span
}

// SuffixedExpr applies a unit suffix to an expression, e.g. `(a + b)s`.
type SuffixedExpr struct {
	Base   Expr
	Suffix string
	Loc    diagnostics.Span
}

// BlockKind discriminates block forms.
type BlockKind int

const (
	BlockPlain BlockKind = iota
	BlockDo
	BlockGenerate
	BlockResource
)

// BlockItemKind discriminates block items.
type BlockItemKind int

const (
	ItemExpr BlockItemKind = iota
	ItemLet
	ItemBind
	ItemFilter
	ItemYield
)

// BlockItem is one statement of a block.
type BlockItem struct {
	Kind    BlockItemKind
	Pattern Pattern
	Expr    Expr
	Loc     diagnostics.Span
}

// BlockExpr is a sequential block. Monad names the target constructor for
// `do` blocks ("Effect", "Result", ...).
type BlockExpr struct {
	Kind  BlockKind
	Monad string
	Items []BlockItem
	Loc   diagnostics.Span
}

func (e *Ident) Span() diagnostics.Span        { return e.Loc }
func (e *NumberLit) Span() diagnostics.Span    { return e.Loc }
func (e *StringLit) Span() diagnostics.Span    { return e.Loc }
func (e *BoolLit) Span() diagnostics.Span      { return e.Loc }
func (e *ListLit) Span() diagnostics.Span      { return e.Loc }
func (e *TupleLit) Span() diagnostics.Span     { return e.Loc }
func (e *RecordLit) Span() diagnostics.Span    { return e.Loc }
func (e *PatchLit) Span() diagnostics.Span     { return e.Loc }
func (e *FieldAccess) Span() diagnostics.Span  { return e.Loc }
func (e *IndexExpr) Span() diagnostics.Span    { return e.Loc }
func (e *CallExpr) Span() diagnostics.Span     { return e.Loc }
func (e *Lambda) Span() diagnostics.Span       { return e.Loc }
func (e *MatchExpr) Span() diagnostics.Span    { return e.Loc }
func (e *IfExpr) Span() diagnostics.Span       { return e.Loc }
func (e *BinaryExpr) Span() diagnostics.Span   { return e.Loc }
func (e *UnaryNeg) Span() diagnostics.Span     { return e.Loc }
func (e *SuffixedExpr) Span() diagnostics.Span { return e.Loc }
func (e *BlockExpr) Span() diagnostics.Span    { return e.Loc }

func (*Ident) exprNode()        {}
func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*ListLit) exprNode()      {}
func (*TupleLit) exprNode()     {}
func (*RecordLit) exprNode()    {}
func (*PatchLit) exprNode()     {}
func (*FieldAccess) exprNode()  {}
func (*IndexExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*Lambda) exprNode()       {}
func (*MatchExpr) exprNode()    {}
func (*IfExpr) exprNode()       {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryNeg) exprNode()     {}
func (*SuffixedExpr) exprNode() {}
func (*BlockExpr) exprNode()    {}

// Pattern is implemented by all pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything without binding.
type WildcardPattern struct {
	Loc diagnostics.Span
}

// BindPattern matches anything and binds it to a name.
type BindPattern struct {
	Name string
	Loc  diagnostics.Span
}

// LiteralPattern matches a literal value. Lit is a NumberLit, StringLit or
// BoolLit.
type LiteralPattern struct {
	Lit Expr
	Loc diagnostics.Span
}

// CtorPattern matches a constructor application.
type CtorPattern struct {
	Name string
	Args []Pattern
	Loc  diagnostics.Span
}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Items []Pattern
	Loc   diagnostics.Span
}

// ListPattern destructures a list; Rest optionally binds the tail.
type ListPattern struct {
	Items   []Pattern
	Rest    string
	HasRest bool
	Loc     diagnostics.Span
}

// RecordPatternField is one field of a record pattern. A nil Pattern binds
// the field under its own name.
type RecordPatternField struct {
	Name    string
	Pattern Pattern
	Loc     diagnostics.Span
}

// RecordPattern destructures a record; only the named fields are required.
type RecordPattern struct {
	Fields []RecordPatternField
	Loc    diagnostics.Span
}

// AsPattern binds a name to whatever its inner pattern matched.
type AsPattern struct {
	Name  string
	Inner Pattern
	Loc   diagnostics.Span
}

func (p *WildcardPattern) Span() diagnostics.Span { return p.Loc }
func (p *BindPattern) Span() diagnostics.Span     { return p.Loc }
func (p *LiteralPattern) Span() diagnostics.Span  { return p.Loc }
func (p *CtorPattern) Span() diagnostics.Span     { return p.Loc }
func (p *TuplePattern) Span() diagnostics.Span    { return p.Loc }
func (p *ListPattern) Span() diagnostics.Span     { return p.Loc }
func (p *RecordPattern) Span() diagnostics.Span   { return p.Loc }
func (p *AsPattern) Span() diagnostics.Span       { return p.Loc }

func (*WildcardPattern) patternNode() {}
func (*BindPattern) patternNode()     {}
func (*LiteralPattern) patternNode()  {}
func (*CtorPattern) patternNode()     {}
func (*TuplePattern) patternNode()    {}
func (*ListPattern) patternNode()     {}
func (*RecordPattern) patternNode()   {}
func (*AsPattern) patternNode()       {}

// TypeExpr is implemented by all surface type expressions.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType references a type constructor or alias, possibly applied.
type NamedType struct {
	Name string
	Args []TypeExpr
	Loc  diagnostics.Span
}

// VarType references a lowercase type variable.
type VarType struct {
	Name string
	Loc  diagnostics.Span
}

// FuncTypeExpr is `param -> result`.
type FuncTypeExpr struct {
	Param  TypeExpr
	Result TypeExpr
	Loc    diagnostics.Span
}

// TupleTypeExpr is `(a, b, ...)`.
type TupleTypeExpr struct {
	Items []TypeExpr
	Loc   diagnostics.Span
}

// RecordTypeField is one field of a record type expression.
type RecordTypeField struct {
	Name string
	Type TypeExpr
	Loc  diagnostics.Span
}

// RecordTypeExpr is `{ a: T, ... }`; Open permits extra unknown fields.
type RecordTypeExpr struct {
	Fields []RecordTypeField
	Open   bool
	Loc    diagnostics.Span
}

func (t *NamedType) Span() diagnostics.Span      { return t.Loc }
func (t *VarType) Span() diagnostics.Span        { return t.Loc }
func (t *FuncTypeExpr) Span() diagnostics.Span   { return t.Loc }
func (t *TupleTypeExpr) Span() diagnostics.Span  { return t.Loc }
func (t *RecordTypeExpr) Span() diagnostics.Span { return t.Loc }

func (*NamedType) typeExprNode()      {}
func (*VarType) typeExprNode()        {}
func (*FuncTypeExpr) typeExprNode()   {}
func (*TupleTypeExpr) typeExprNode()  {}
func (*RecordTypeExpr) typeExprNode() {}

// Module is one compilation unit of declarations.
type Module struct {
	Name  string
	Items []ModuleItem
	Loc   diagnostics.Span
}

func (m *Module) Span() diagnostics.Span { return m.Loc }

// ModuleItem is implemented by all top-level declarations.
type ModuleItem interface {
	Node
	moduleItemNode()
}

// Constraint is a class constraint on a signature's type variable, e.g.
// `with (a: Eq)`.
type Constraint struct {
	Class string
	Var   string
}

// TypeSig declares the type of a top-level name. Several signatures for
// one name form an overload set.
type TypeSig struct {
	Name        string
	Type        TypeExpr
	Constraints []Constraint
	Loc         diagnostics.Span
}

// Def is a top-level value definition.
type Def struct {
	Name   string
	Params []Pattern
	Body   Expr
	Loc    diagnostics.Span
}

// CtorDecl is one constructor of an ADT declaration.
type CtorDecl struct {
	Name string
	Args []TypeExpr
	Loc  diagnostics.Span
}

// TypeDecl declares an ADT with its constructor list.
type TypeDecl struct {
	Name   string
	Params []string
	Ctors  []CtorDecl
	Loc    diagnostics.Span
}

// AliasDecl declares a type alias.
type AliasDecl struct {
	Name   string
	Params []string
	Body   TypeExpr
	Loc    diagnostics.Span
}

// ClassMember is one method signature of a class declaration.
type ClassMember struct {
	Name string
	Type TypeExpr
	Loc  diagnostics.Span
}

// ClassDecl declares a type class.
type ClassDecl struct {
	Name    string
	Params  []string
	Supers  []string
	Members []ClassMember
	Loc     diagnostics.Span
}

// InstanceDecl declares an instance of a class at concrete (or partial)
// type arguments.
type InstanceDecl struct {
	ClassName string
	Args      []TypeExpr
	Loc       diagnostics.Span
}

// DomainDecl groups signatures and definitions under a domain name, which
// becomes part of their schemes' origin.
type DomainDecl struct {
	Name  string
	Items []ModuleItem
	Loc   diagnostics.Span
}

func (i *TypeSig) Span() diagnostics.Span      { return i.Loc }
func (i *Def) Span() diagnostics.Span          { return i.Loc }
func (i *TypeDecl) Span() diagnostics.Span     { return i.Loc }
func (i *AliasDecl) Span() diagnostics.Span    { return i.Loc }
func (i *ClassDecl) Span() diagnostics.Span    { return i.Loc }
func (i *InstanceDecl) Span() diagnostics.Span { return i.Loc }
func (i *DomainDecl) Span() diagnostics.Span   { return i.Loc }

func (*TypeSig) moduleItemNode()      {}
func (*Def) moduleItemNode()          {}
func (*TypeDecl) moduleItemNode()     {}
func (*AliasDecl) moduleItemNode()    {}
func (*ClassDecl) moduleItemNode()    {}
func (*InstanceDecl) moduleItemNode() {}
func (*DomainDecl) moduleItemNode()   {}
