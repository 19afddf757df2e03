package typesystem

import (
	"fmt"
	"strings"
)

// Printer renders types for diagnostics with stable quoted variable names
// ('a, 'b, ...). Reusing one printer across the expected and found sides of
// a message keeps shared variables printing identically.
type Printer struct {
	names map[VarID]string
	next  int
}

func NewPrinter() *Printer {
	return &Printer{names: make(map[VarID]string)}
}

func (p *Printer) Print(t Type) string {
	switch t := t.(type) {
	case TVar:
		return p.nameFor(t.ID)
	case TCon:
		if len(t.Args) == 0 {
			return t.Name
		}
		parts := make([]string, 0, len(t.Args)+1)
		parts = append(parts, t.Name)
		for _, arg := range t.Args {
			parts = append(parts, p.printArg(arg))
		}
		return strings.Join(parts, " ")
	case TFunc:
		left := p.Print(t.Param)
		if _, ok := t.Param.(TFunc); ok {
			left = "(" + left + ")"
		}
		return left + " -> " + p.Print(t.Result)
	case TTuple:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = p.Print(item)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case TRecord:
		parts := make([]string, 0, len(t.Fields)+1)
		for _, name := range t.FieldNames() {
			parts = append(parts, name+": "+p.Print(t.Fields[name]))
		}
		if t.Open {
			parts = append(parts, "..")
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return t.String()
	}
}

func (p *Printer) printArg(t Type) string {
	switch inner := t.(type) {
	case TFunc:
		return "(" + p.Print(inner) + ")"
	case TCon:
		if len(inner.Args) > 0 {
			return "(" + p.Print(inner) + ")"
		}
		return p.Print(inner)
	default:
		return p.Print(t)
	}
}

func (p *Printer) nameFor(id VarID) string {
	if name, ok := p.names[id]; ok {
		return name
	}
	letter := rune('a' + p.next%26)
	suffix := p.next / 26
	p.next++
	var name string
	if suffix == 0 {
		name = fmt.Sprintf("'%c", letter)
	} else {
		name = fmt.Sprintf("'%c%d", letter, suffix)
	}
	p.names[id] = name
	return name
}
