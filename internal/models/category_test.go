package models

import (
	"errors"
	"testing"
)

func TestCategories_CatalogShape(t *testing.T) {
	if len(Categories) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(Categories))
	}
	if Categories[0].ID != CategoryCustom {
		t.Errorf("expected custom category first, got %s", Categories[0].ID)
	}

	seen := make(map[HealthCategory]bool)
	for _, c := range Categories {
		if seen[c.ID] {
			t.Errorf("duplicate category %s", c.ID)
		}
		seen[c.ID] = true
		if c.Label == "" || c.Description == "" {
			t.Errorf("category %s is missing label or description", c.ID)
		}
		if _, ok := iconGlyphs[c.Icon]; !ok {
			t.Errorf("category %s uses icon %q with no glyph", c.ID, c.Icon)
		}
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("sleep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CategorySleep {
		t.Errorf("expected sleep, got %s", got)
	}

	_, err = ParseCategory("astrology")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestHealthCategory_Label(t *testing.T) {
	if got := CategoryWeightLoss.Label(); got != "वजन कम करें" {
		t.Errorf("unexpected label %q", got)
	}
	if got := HealthCategory("nope").Label(); got != "" {
		t.Errorf("expected empty label for unknown category, got %q", got)
	}
	if !CategoryCustom.IsCustom() || CategorySleep.IsCustom() {
		t.Error("IsCustom mismatch")
	}
}

func TestGlyph_FallsBackToSparkles(t *testing.T) {
	if got := Glyph(IconMoon); got != "🌙" {
		t.Errorf("expected moon glyph, got %q", got)
	}
	if got := Glyph("Unknown"); got != Glyph(IconSparkles) {
		t.Errorf("expected sparkles fallback, got %q", got)
	}
	if got := Glyph(""); got != Glyph(IconSparkles) {
		t.Errorf("expected sparkles fallback for empty name, got %q", got)
	}
}

func TestGender_Valid(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if !g.Valid() {
			t.Errorf("expected %q to be valid", g)
		}
	}
	for _, g := range []Gender{GenderUnset, "robot"} {
		if g.Valid() {
			t.Errorf("expected %q to be invalid", g)
		}
	}
}

func TestHealthSuggestions_Catalog(t *testing.T) {
	if len(HealthSuggestions) < DefaultSuggestionCount {
		t.Fatalf("catalog smaller than default set: %d", len(HealthSuggestions))
	}
	for _, item := range HealthSuggestions {
		if item.Text == "" || len(item.Keywords) == 0 {
			t.Errorf("incomplete suggestion %+v", item)
		}
	}
}
