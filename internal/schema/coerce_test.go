package schema

import (
	"testing"
)

func TestCoerceNumber_AcceptsCurrencyAndWords(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"$1,200", 1200, true},
		{"1.2k", 1200, true},
		{"two", 2, true},
		{"3m", 3000000, true},
		{"$2.5M", 2500000, true},
		{"1200", 1200, true},
		{" 45 ", 45, true},
		{"zero", 0, true},
		{float64(7), 7, true},
		{int(12), 12, true},
		{"abc", 0, false},
		{"", 0, false},
		{"$", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := CoerceNumber(tc.in)
		if ok != tc.ok {
			t.Fatalf("CoerceNumber(%v): expected ok=%v got %v", tc.in, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("CoerceNumber(%v): expected %v got %v", tc.in, tc.want, got)
		}
	}
}

func TestCoerce_CheckboxClosedVocabulary(t *testing.T) {
	def := FieldDef{Key: "flag", Label: "Flag", Type: FieldCheckbox}

	cases := []struct {
		in   any
		want bool
		ok   bool
	}{
		{"yes", true, true},
		{"YES", true, true},
		{"Off", false, true},
		{"1", true, true},
		{"0", false, true},
		{"affirmative", true, true},
		{"unchecked", false, true},
		{true, true, true},
		{false, false, true},
		{"maybe", false, false},
		{"definitely", false, false},
		{nil, false, false},
	}
	for _, tc := range cases {
		got, ok := Coerce(def, tc.in)
		if ok != tc.ok {
			t.Fatalf("Coerce checkbox(%v): expected ok=%v got %v", tc.in, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("Coerce checkbox(%v): expected %v got %v", tc.in, tc.want, got)
		}
	}
}

func TestCoerce_DateIsLexicalOnly(t *testing.T) {
	def := FieldDef{Key: "d", Label: "D", Type: FieldDate}

	if got, ok := Coerce(def, "2026-01-15"); !ok || got != "2026-01-15" {
		t.Fatalf("expected pass-through, got %v ok=%v", got, ok)
	}
	// Shape check only; impossible dates are not this layer's problem.
	if _, ok := Coerce(def, "2026-13-45"); !ok {
		t.Fatalf("expected lexical acceptance of 2026-13-45")
	}
	for _, bad := range []any{"01/15/2026", "Jan 15 2026", "2026-1-5", "", nil} {
		if _, ok := Coerce(def, bad); ok {
			t.Fatalf("expected rejection of %v", bad)
		}
	}
}

func TestCoerce_SelectRequiresExactOption(t *testing.T) {
	def := FieldDef{
		Key: "coverage_type", Label: "Coverage", Type: FieldSelect,
		Options: []Option{{Value: "property"}, {Value: "general_liability"}},
	}

	if got, ok := Coerce(def, "property"); !ok || got != "property" {
		t.Fatalf("expected property accepted, got %v ok=%v", got, ok)
	}
	for _, bad := range []any{"Property", "prop", "auto", "", nil} {
		if _, ok := Coerce(def, bad); ok {
			t.Fatalf("expected rejection of %v", bad)
		}
	}
}

func TestCoerce_TextTrimsAndRejectsEmpty(t *testing.T) {
	def := FieldDef{Key: "legal_name", Label: "Legal Name", Type: FieldText}

	if got, ok := Coerce(def, "  Acme LLC "); !ok || got != "Acme LLC" {
		t.Fatalf("expected trimmed text, got %v ok=%v", got, ok)
	}
	if _, ok := Coerce(def, "   "); ok {
		t.Fatalf("expected rejection of whitespace-only text")
	}
	if got, ok := Coerce(def, 42); !ok || got != "42" {
		t.Fatalf("expected numeric stringification, got %v ok=%v", got, ok)
	}
}
