package checker

import (
	"strings"
	"testing"

	"github.com/funvibe/lumen/internal/diagnostics"
	"github.com/funvibe/lumen/internal/typesystem"
)

func TestUnifyBindsVariableOnEitherSide(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		c := New()
		v := c.fresh()
		a, b := typesystem.Type(v), typesystem.Type(tInt)
		if flipped {
			a, b = b, a
		}
		if err := c.unify(a, b, sp()); err != nil {
			t.Fatalf("unify failed (flipped=%v): %v", flipped, err)
		}
		if got := c.subst.Apply(v).String(); got != "Int" {
			t.Errorf("flipped=%v: variable resolved to %s, want Int", flipped, got)
		}
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	c := New()
	v := c.fresh()
	err := c.unify(v, tList(v), sp())
	if err == nil {
		t.Fatal("expected occurs check failure")
	}
	if !strings.Contains(err.Error(), "infinite type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnifyBindingToItselfIsNoop(t *testing.T) {
	c := New()
	v := c.fresh()
	if err := c.unify(v, v, sp()); err != nil {
		t.Fatalf("self unification failed: %v", err)
	}
	if c.subst.Len() != 0 {
		t.Errorf("self unification added %d binding(s)", c.subst.Len())
	}
}

func TestUnifyConstructorMismatch(t *testing.T) {
	c := New()
	err := c.unify(tInt, tText, sp())
	if err == nil {
		t.Fatal("expected mismatch")
	}
	te := err.(*TypeError)
	if te.Code != diagnostics.ErrTypeMismatch {
		t.Errorf("expected %s, got %s", diagnostics.ErrTypeMismatch, te.Code)
	}
	if !strings.Contains(te.Message, "expected Text") || !strings.Contains(te.Message, "found Int") {
		t.Errorf("unexpected message: %s", te.Message)
	}
	if te.Expected == nil || te.Expected.String() != "Text" {
		t.Errorf("expected type field = %v, want Text", te.Expected)
	}
	if te.Found == nil || te.Found.String() != "Int" {
		t.Errorf("found type field = %v, want Int", te.Found)
	}
}

func TestUnifyRecordsClosedMissingField(t *testing.T) {
	c := New()
	a := typesystem.Record(map[string]typesystem.Type{"x": tInt}, false)
	b := typesystem.Record(map[string]typesystem.Type{"x": tInt, "y": tInt}, false)
	err := c.unify(a, b, sp())
	if err == nil {
		t.Fatal("expected missing field error")
	}
	if !strings.Contains(err.Error(), "missing field 'y'") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnifyRecordsOpenSideTolerantOfExtraFields(t *testing.T) {
	c := New()
	open := typesystem.Record(map[string]typesystem.Type{"x": tInt}, true)
	full := typesystem.Record(map[string]typesystem.Type{"x": tInt, "y": tText}, false)
	if err := c.unify(open, full, sp()); err != nil {
		t.Fatalf("open record should accept extra fields: %v", err)
	}
}

func TestUnifyRecordsCommonFieldsStillChecked(t *testing.T) {
	c := New()
	open := typesystem.Record(map[string]typesystem.Type{"x": tText}, true)
	full := typesystem.Record(map[string]typesystem.Type{"x": tInt, "y": tText}, false)
	if err := c.unify(open, full, sp()); err == nil {
		t.Fatal("expected mismatch on shared field x")
	}
}

func TestUnifyExpandsAliases(t *testing.T) {
	c := New()
	v := c.fresh()
	// Patch a = a -> a is builtin.
	patch := typesystem.Con("Patch", tInt)
	fn := typesystem.TFunc{Param: tInt, Result: v}
	if err := c.unify(patch, fn, sp()); err != nil {
		t.Fatalf("alias did not expand: %v", err)
	}
	if got := c.subst.Apply(v).String(); got != "Int" {
		t.Errorf("result side resolved to %s, want Int", got)
	}
}

func TestSpeculativeRollbackLeavesNoBindings(t *testing.T) {
	c := New()
	v := c.fresh()
	saved := c.subst
	if err := c.unify(v, tInt, sp()); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	c.subst = saved
	if _, bound := c.subst.Get(v.ID); bound {
		t.Error("rollback left a binding behind")
	}
}
