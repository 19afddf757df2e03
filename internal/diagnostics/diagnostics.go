// Package diagnostics defines the coded, span-located diagnostics the
// checker produces and the ordered, deduplicated collection they are
// reported through.
package diagnostics

import (
	"fmt"
	"sort"
)

// Severity distinguishes hard errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Code identifies a diagnostic category. Errors use E-prefixed codes,
// warnings W-prefixed ones.
type Code string

const (
	ErrUnknownName        Code = "E3001"
	ErrAmbiguousName      Code = "E3002"
	ErrTypeMismatch       Code = "E3003"
	ErrNoOverload         Code = "E3004"
	ErrAmbiguousOverload  Code = "E3005"
	ErrNoInstance         Code = "E3006"
	ErrAmbiguousInstance  Code = "E3007"
	ErrNonExhaustiveMatch Code = "E3100"
	WarnUnreachableArm    Code = "W3101"
)

// Pos is a 1-based line/column source position.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open source range attached to every diagnostic.
type Span struct {
	File  string `json:"file,omitempty"`
	Start Pos    `json:"start"`
	End   Pos    `json:"end"`
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// Diagnostic is a single coded finding.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     Span
	Message  string
}

func NewError(code Code, span Span, message string) *Diagnostic {
	return &Diagnostic{Code: code, Severity: SeverityError, Span: span, Message: message}
}

func NewWarning(code Code, span Span, message string) *Diagnostic {
	return &Diagnostic{Code: code, Severity: SeverityWarning, Span: span, Message: message}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: [%s] %s", d.Span, d.Code, d.Message)
}

// Set accumulates diagnostics, deduplicating by position and code so one
// defect reported from several inference paths shows up once.
type Set struct {
	items map[string]*Diagnostic
}

func NewSet() *Set {
	return &Set{items: make(map[string]*Diagnostic)}
}

func (s *Set) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	key := fmt.Sprintf("%s:%d:%d:%s", d.Span.File, d.Span.Start.Line, d.Span.Start.Column, d.Code)
	if _, seen := s.items[key]; !seen {
		s.items[key] = d
	}
}

func (s *Set) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		s.Add(d)
	}
}

func (s *Set) Len() int { return len(s.items) }

func (s *Set) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Items returns the accumulated diagnostics sorted by file, position and
// code, so output order is stable across runs.
func (s *Set) Items() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(s.items))
	for _, d := range s.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.File != b.Span.File {
			return a.Span.File < b.Span.File
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}
		return a.Code < b.Code
	})
	return out
}
