package typesystem

import (
	"testing"
)

func TestSubstApplyFollowsChains(t *testing.T) {
	s := NewSubst()
	s = s.Bind(1, TVar{ID: 2})
	s = s.Bind(2, Con("Int"))
	got := s.Apply(TVar{ID: 1})
	if got.String() != "Int" {
		t.Errorf("chain resolved to %s, want Int", got)
	}
}

func TestSubstApplyIsIdempotent(t *testing.T) {
	s := NewSubst()
	s = s.Bind(1, Con("List", TVar{ID: 2}))
	s = s.Bind(2, Con("Int"))
	once := s.Apply(TVar{ID: 1})
	twice := s.Apply(once)
	if once.String() != twice.String() {
		t.Errorf("apply not idempotent: %s vs %s", once, twice)
	}
}

func TestSubstBindDoesNotMutateReceiver(t *testing.T) {
	s := NewSubst()
	extended := s.Bind(1, Con("Int"))
	if _, ok := s.Get(1); ok {
		t.Error("binding leaked into the original substitution")
	}
	if _, ok := extended.Get(1); !ok {
		t.Error("binding missing from the extended substitution")
	}
}

func TestSubstApplyGuardsCycles(t *testing.T) {
	s := NewSubst()
	s = s.Bind(1, TVar{ID: 2})
	s = s.Bind(2, TVar{ID: 1})
	// Must terminate; the exact result is a variable from the cycle.
	got := s.Apply(TVar{ID: 1})
	if _, ok := got.(TVar); !ok {
		t.Errorf("cyclic apply resolved to %T", got)
	}
}

func TestFuncBuilderCurries(t *testing.T) {
	fn := Func(Con("Int"), Con("Text"), Con("Bool"))
	if fn.String() != "Text -> Bool -> Int" {
		t.Errorf("curried builder produced %s", fn)
	}
}

func TestSchemeFreeTypeVariablesExcludeQuantified(t *testing.T) {
	s := Scheme{Vars: []VarID{1}, Body: Func(TVar{ID: 2}, TVar{ID: 1})}
	free := s.FreeTypeVariables()
	if len(free) != 1 || free[0] != 2 {
		t.Errorf("free vars = %v, want [2]", free)
	}
}

func TestPrinterNamesAreStablePerVariable(t *testing.T) {
	p := NewPrinter()
	fn := TFunc{Param: TVar{ID: 7}, Result: TVar{ID: 7}}
	if got := p.Print(fn); got != "'a -> 'a" {
		t.Errorf("printed %s, want 'a -> 'a", got)
	}
	if got := p.Print(TVar{ID: 8}); got != "'b" {
		t.Errorf("second variable printed %s, want 'b", got)
	}
}

func TestPrinterParenthesizesNestedFunctions(t *testing.T) {
	p := NewPrinter()
	fn := TFunc{
		Param:  TFunc{Param: Con("Int"), Result: Con("Int")},
		Result: Con("Bool"),
	}
	if got := p.Print(fn); got != "(Int -> Int) -> Bool" {
		t.Errorf("printed %s", got)
	}
	applied := Con("Option", Con("List", Con("Int")))
	if got := p.Print(applied); got != "Option (List Int)" {
		t.Errorf("printed %s", got)
	}
}

func TestClassifyNumber(t *testing.T) {
	cases := []struct {
		text string
		kind NumberKind
		ok   bool
	}{
		{"0", NumberInt, true},
		{"42", NumberInt, true},
		{"-7", NumberInt, true},
		{"3.5", NumberFloat, true},
		{"-0.25", NumberFloat, true},
		{"3.", NumberInt, false},
		{"1.2.3", NumberInt, false},
		{"", NumberInt, false},
		{"-", NumberInt, false},
		{"5s", NumberInt, false},
	}
	for _, tc := range cases {
		kind, ok := ClassifyNumber(tc.text)
		if ok != tc.ok || (ok && kind != tc.kind) {
			t.Errorf("ClassifyNumber(%q) = (%v, %v), want (%v, %v)", tc.text, kind, ok, tc.kind, tc.ok)
		}
	}
}

func TestSplitSuffixedNumber(t *testing.T) {
	number, suffix, kind, ok := SplitSuffixedNumber("5s")
	if !ok || number != "5" || suffix != "s" || kind != NumberInt {
		t.Errorf("SplitSuffixedNumber(5s) = (%q, %q, %v, %v)", number, suffix, kind, ok)
	}
	number, suffix, kind, ok = SplitSuffixedNumber("1.5kg")
	if !ok || number != "1.5" || suffix != "kg" || kind != NumberFloat {
		t.Errorf("SplitSuffixedNumber(1.5kg) = (%q, %q, %v, %v)", number, suffix, kind, ok)
	}
	if _, _, _, ok := SplitSuffixedNumber("abc"); ok {
		t.Error("SplitSuffixedNumber(abc) should fail")
	}
	if _, _, _, ok := SplitSuffixedNumber("5"); ok {
		t.Error("SplitSuffixedNumber(5) should fail without a suffix")
	}
	if _, _, _, ok := SplitSuffixedNumber("5m/s"); ok {
		t.Error("SplitSuffixedNumber(5m/s) should reject non-alphanumeric suffixes")
	}
}

func TestRecordStringSortsFields(t *testing.T) {
	rec := Record(map[string]Type{"b": Con("Int"), "a": Con("Text")}, true)
	if got := rec.String(); got != "{ a: Text, b: Int, .. }" {
		t.Errorf("record printed %s", got)
	}
}
