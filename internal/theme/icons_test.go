package theme

import "testing"

func TestIconsLookupPrefersExactMatch(t *testing.T) {
	icons := NewIcons("default", map[string]string{"Clock": "C"})
	glyph, ok := icons.Lookup("clock")
	if !ok || glyph != "C" {
		t.Fatalf("expected override glyph C, got %q (ok=%v)", glyph, ok)
	}
}

func TestIconsLookupFallsBackToFuzzy(t *testing.T) {
	icons := NewIcons("default", nil)
	glyph, ok := icons.Lookup("vmut")
	if !ok {
		t.Fatalf("expected fuzzy match for vmut")
	}
	if glyph != builtinIcons["volume-muted"] {
		t.Fatalf("expected volume-muted glyph, got %q", glyph)
	}
}

func TestIconsLookupMissing(t *testing.T) {
	icons := NewIcons("default", nil)
	if _, ok := icons.Lookup("zzzz"); ok {
		t.Fatalf("expected no match")
	}
	var nilIcons *Icons
	if _, ok := nilIcons.Lookup("clock"); ok {
		t.Fatalf("expected nil icon theme to miss")
	}
}
