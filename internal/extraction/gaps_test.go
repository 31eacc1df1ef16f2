package extraction

import (
	"testing"

	"github.com/coverbridge/intake-backend/internal/schema"
)

func threeTextFields() []schema.FieldDef {
	return []schema.FieldDef{
		{Key: "a", Label: "A", Type: schema.FieldText},
		{Key: "b", Label: "B", Type: schema.FieldText},
		{Key: "c", Label: "C", Type: schema.FieldText},
	}
}

func TestRemaining_TreatsNilAndEmptyAsMissing(t *testing.T) {
	reg := schema.NewRegistry(threeTextFields())

	partial := FieldMap{"a": "x", "b": nil}
	remaining := Remaining(reg, partial)

	keys := remaining.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "c" {
		t.Fatalf("expected [b c], got %v", keys)
	}
}

func TestRemaining_EmptyStringIsMissing(t *testing.T) {
	reg := schema.NewRegistry(threeTextFields())

	remaining := Remaining(reg, FieldMap{"a": "", "b": "ok", "c": "ok"})
	keys := remaining.Keys()
	if len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("expected [a], got %v", keys)
	}
}

func TestRemaining_FullMapLeavesNothing(t *testing.T) {
	reg := schema.NewRegistry(threeTextFields())

	remaining := Remaining(reg, FieldMap{"a": "1", "b": "2", "c": "3"})
	if remaining.Len() != 0 {
		t.Fatalf("expected empty remaining, got %v", remaining.Keys())
	}
}
