package diagnostics

import (
	"testing"
)

func at(file string, line, col int) Span {
	return Span{File: file, Start: Pos{Line: line, Column: col}, End: Pos{Line: line, Column: col + 1}}
}

func TestSetDeduplicatesByPositionAndCode(t *testing.T) {
	s := NewSet()
	s.Add(NewError(ErrTypeMismatch, at("a.lum", 3, 1), "first"))
	s.Add(NewError(ErrTypeMismatch, at("a.lum", 3, 1), "second report of the same defect"))
	s.Add(NewError(ErrUnknownName, at("a.lum", 3, 1), "different code, same position"))
	if s.Len() != 2 {
		t.Fatalf("set holds %d diagnostics, want 2", s.Len())
	}
	var kept *Diagnostic
	for _, d := range s.Items() {
		if d.Code == ErrTypeMismatch {
			kept = d
		}
	}
	if kept == nil || kept.Message != "first" {
		t.Errorf("dedup kept %v, want the first report", kept)
	}
}

func TestSetItemsSorted(t *testing.T) {
	s := NewSet()
	s.Add(NewError(ErrTypeMismatch, at("b.lum", 1, 1), "third"))
	s.Add(NewError(ErrTypeMismatch, at("a.lum", 9, 1), "second"))
	s.Add(NewError(ErrTypeMismatch, at("a.lum", 2, 5), "first"))
	items := s.Items()
	want := []string{"first", "second", "third"}
	for i, item := range items {
		if item.Message != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, item.Message, want[i])
		}
	}
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	s := NewSet()
	s.Add(NewWarning(WarnUnreachableArm, at("a.lum", 1, 1), "warning only"))
	if s.HasErrors() {
		t.Error("warnings alone should not count as errors")
	}
	s.Add(NewError(ErrTypeMismatch, at("a.lum", 2, 1), "now an error"))
	if !s.HasErrors() {
		t.Error("expected HasErrors after adding an error")
	}
}

func TestDiagnosticError(t *testing.T) {
	d := NewError(ErrUnknownName, at("m.lum", 4, 7), "unknown name 'x'")
	if got := d.Error(); got != "m.lum:4:7: [E3001] unknown name 'x'" {
		t.Errorf("Error() = %q", got)
	}
}
