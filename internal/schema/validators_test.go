package schema

import "testing"

func TestValidFEIN(t *testing.T) {
	for _, good := range []string{"12-3456789", "00-0000001"} {
		if !ValidFEIN(good) {
			t.Fatalf("expected %q valid", good)
		}
	}
	for _, bad := range []any{"123456789", "12-345678", "1-23456789", "12-34567890", "ab-cdefghi", "", nil, 123456789} {
		if ValidFEIN(bad) {
			t.Fatalf("expected %v invalid", bad)
		}
	}
}

func TestValidEmail(t *testing.T) {
	for _, good := range []string{"ops@acme.com", "a.b+c@example.co.uk"} {
		if !ValidEmail(good) {
			t.Fatalf("expected %q valid", good)
		}
	}
	for _, bad := range []any{"acme.com", "ops@acme", "ops @acme.com", "", nil} {
		if ValidEmail(bad) {
			t.Fatalf("expected %v invalid", bad)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for _, good := range []string{"555-123-4567", "(555) 123-4567", "+1 555 123 4567", "5551234"} {
		if !ValidPhone(good) {
			t.Fatalf("expected %q valid", good)
		}
	}
	for _, bad := range []any{"555-123", "call me", "123456x", "", nil} {
		if ValidPhone(bad) {
			t.Fatalf("expected %v invalid", bad)
		}
	}
}

func TestValidStateAndZip(t *testing.T) {
	if !ValidState("NY") || !ValidState("ca") {
		t.Fatalf("expected two-letter states valid")
	}
	for _, bad := range []any{"N", "NYC", "N1", "", nil} {
		if ValidState(bad) {
			t.Fatalf("expected %v invalid state", bad)
		}
	}
	if !ValidZip("10001") || !ValidZip("10001-1234") {
		t.Fatalf("expected zip formats valid")
	}
	for _, bad := range []any{"1000", "100011", "abcde", "", nil} {
		if ValidZip(bad) {
			t.Fatalf("expected %v invalid zip", bad)
		}
	}
}

func TestValidIndustryCodes(t *testing.T) {
	if !ValidSIC("7371") {
		t.Fatalf("expected 4-digit SIC valid")
	}
	if ValidSIC("737") || ValidSIC("73710") {
		t.Fatalf("expected wrong-length SIC invalid")
	}
	if !ValidNAICS("541511") {
		t.Fatalf("expected 6-digit NAICS valid")
	}
	if ValidNAICS("5415") || ValidNAICS("5415111") {
		t.Fatalf("expected wrong-length NAICS invalid")
	}
}

func TestNonNegativeNumber(t *testing.T) {
	if !NonNegativeNumber(float64(0)) || !NonNegativeNumber(float64(1200)) {
		t.Fatalf("expected non-negative floats valid")
	}
	if NonNegativeNumber(float64(-1)) {
		t.Fatalf("expected negative invalid")
	}
	// Post-coercion values are float64; anything else fails.
	if NonNegativeNumber("1200") || NonNegativeNumber(nil) {
		t.Fatalf("expected non-float values invalid")
	}
}

func TestRegistrySubsetPreservesOrder(t *testing.T) {
	reg := NewRegistry([]FieldDef{
		{Key: "a", Label: "A", Type: FieldText},
		{Key: "b", Label: "B", Type: FieldText},
		{Key: "c", Label: "C", Type: FieldText},
	})
	sub := reg.Subset(map[string]bool{"c": true, "a": true})
	keys := sub.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("expected [a c], got %v", keys)
	}
}
