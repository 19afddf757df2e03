package checker

import (
	"fmt"

	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

// TypeError is a checker failure with a code and a source span. Inference
// returns it up to the enclosing definition, where it becomes a diagnostic.
// Unification mismatches also carry the two resolved types.
type TypeError struct {
	Code     diagnostics.Code
	Span     diagnostics.Span
	Message  string
	Expected typesystem.Type
	Found    typesystem.Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Span, e.Code, e.Message)
}

func (e *TypeError) Diagnostic() *diagnostics.Diagnostic {
	return diagnostics.NewError(e.Code, e.Span, e.Message)
}

func errorf(code diagnostics.Code, span diagnostics.Span, format string, args ...interface{}) *TypeError {
	return &TypeError{Code: code, Span: span, Message: fmt.Sprintf(format, args...)}
}

// mismatch renders a unification failure with a printer shared across the
// expected and found sides, so a variable occurring in both prints the same.
func (c *Checker) mismatch(span diagnostics.Span, found, expected typesystem.Type) *TypeError {
	p := typesystem.NewPrinter()
	resolvedExpected := c.subst.Apply(expected)
	resolvedFound := c.subst.Apply(found)
	return &TypeError{
		Code:     diagnostics.ErrTypeMismatch,
		Span:     span,
		Message:  fmt.Sprintf("type mismatch: expected %s, found %s", p.Print(resolvedExpected), p.Print(resolvedFound)),
		Expected: resolvedExpected,
		Found:    resolvedFound,
	}
}

// report converts an inference error into a diagnostic.
func (c *Checker) report(err error) {
	if err == nil {
		return
	}
	if te, ok := err.(*TypeError); ok {
		c.diags.Add(te.Diagnostic())
		return
	}
	c.diags.Add(diagnostics.NewError(diagnostics.ErrTypeMismatch, diagnostics.Span{}, err.Error()))
}
