package geo

import (
	"testing"

	"github.com/ternarybob/vigia/internal/models"
)

// testTerritories is a small catalog slice: two regions with their comunas,
// one alias, and one disabled entry.
func testTerritories() []models.Territory {
	return []models.Territory{
		{ID: "t-ohiggins", Name: "Región de O'Higgins", Level: models.LevelRegion, Aliases: []string{"O'Higgins"}, Enabled: true},
		{ID: "t-valpo-region", Name: "Región de Valparaíso", Level: models.LevelRegion, Enabled: true},
		{ID: "t-rm", Name: "Región Metropolitana", Level: models.LevelRegion, Enabled: true},
		{ID: "t-rancagua", Name: "Rancagua", Level: models.LevelComuna, ParentID: "t-ohiggins", Enabled: true},
		{ID: "t-machali", Name: "Machalí", Level: models.LevelComuna, ParentID: "t-ohiggins", Enabled: true},
		{ID: "t-valpo", Name: "Valparaíso", Level: models.LevelComuna, ParentID: "t-valpo-region", Enabled: true},
		{ID: "t-santiago", Name: "Santiago", Level: models.LevelComuna, ParentID: "t-rm", Enabled: true},
		{ID: "t-pichidegua", Name: "Pichidegua", Level: models.LevelComuna, ParentID: "t-ohiggins", Enabled: false},
	}
}

func TestBuildGazetteer(t *testing.T) {
	g := BuildGazetteer(testTerritories())

	t.Run("Exact lookup by normalized name", func(t *testing.T) {
		candidates := g.Lookup("rancagua")
		if len(candidates) != 1 {
			t.Fatalf("Expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].Name != "Rancagua" || candidates[0].Level != models.LevelComuna {
			t.Errorf("Unexpected candidate: %+v", candidates[0])
		}
	})

	t.Run("Comunas inherit their region", func(t *testing.T) {
		candidates := g.Lookup("rancagua")
		if candidates[0].Region != "Región de O'Higgins" {
			t.Errorf("Expected parent region, got %q", candidates[0].Region)
		}
	})

	t.Run("Aliases are indexed with their origin recorded", func(t *testing.T) {
		candidates := g.Lookup("o'higgins")
		if len(candidates) != 1 {
			t.Fatalf("Expected 1 candidate via alias, got %d", len(candidates))
		}
		if candidates[0].Name != "Región de O'Higgins" || candidates[0].MatchedVia != "O'Higgins" {
			t.Errorf("Unexpected alias candidate: %+v", candidates[0])
		}
	})

	t.Run("Disabled territories are not indexed", func(t *testing.T) {
		if candidates := g.Lookup("pichidegua"); candidates != nil {
			t.Errorf("Expected disabled territory to be absent, got %+v", candidates)
		}
	})

	t.Run("Accented names normalize", func(t *testing.T) {
		if candidates := g.Lookup("machali"); len(candidates) != 1 || candidates[0].Name != "Machalí" {
			t.Errorf("Expected Machalí under its normalized key, got %+v", candidates)
		}
	})
}

func TestFuzzySearch(t *testing.T) {
	g := BuildGazetteer(testTerritories())

	t.Run("Close misspelling matches", func(t *testing.T) {
		candidates := g.FuzzySearch("Rancaguaa", 0.85)
		found := false
		for _, c := range candidates {
			if c.Name == "Rancagua" {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected Rancagua among fuzzy candidates, got %+v", candidates)
		}
	})

	t.Run("Distant strings do not match", func(t *testing.T) {
		if candidates := g.FuzzySearch("Cochabamba", 0.85); len(candidates) != 0 {
			t.Errorf("Expected no fuzzy candidates, got %+v", candidates)
		}
	})

	t.Run("Empty toponym yields nothing", func(t *testing.T) {
		if candidates := g.FuzzySearch("", 0.85); candidates != nil {
			t.Errorf("Expected nil, got %+v", candidates)
		}
	})
}
