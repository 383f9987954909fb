package geo

import (
	"context"
	"testing"

	"github.com/ternarybob/vigia/internal/common"
)

func testGate() *CountryGate {
	gazetteer := BuildGazetteer(testTerritories())
	return NewCountryGate("Chile", ".cl", gazetteer, nil, common.GetLogger())
}

func TestCountryGate(t *testing.T) {
	gate := testGate()
	ctx := context.Background()

	t.Run("Domestic domain with clean title accepts", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Actualidad del día", "", "https://www.elrancaguino.cl/2026/08/nota")
		if !accepted || reason != "domestic_domain" {
			t.Errorf("Expected domestic_domain acceptance, got %v/%s", accepted, reason)
		}
	})

	t.Run("Domestic domain does not override a foreign title", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Elecciones en Argentina", "", "https://www.emol.cl/nota")
		if accepted {
			t.Errorf("Expected rejection despite domestic domain, got %s", reason)
		}
	})

	t.Run("Catalog territory in title accepts", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Bloqueo y huelga paralizan faenas en Rancagua", "", "")
		if !accepted || reason != "domestic_title_cue" {
			t.Errorf("Expected domestic_title_cue acceptance, got %v/%s", accepted, reason)
		}
	})

	t.Run("Foreign capital alone in title rejects", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Manifestaciones masivas en Lima", "", "")
		if accepted || reason != "foreign_title_cue" {
			t.Errorf("Expected foreign_title_cue rejection, got %v/%s", accepted, reason)
		}
	})

	t.Run("Country named beside a foreign cue accepts", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Chile y Perú firman acuerdo en Lima", "", "")
		if !accepted || reason != "country_named_in_title" {
			t.Errorf("Expected country_named_in_title acceptance, got %v/%s", accepted, reason)
		}
	})

	t.Run("Domestic body majority accepts", func(t *testing.T) {
		content := "Las faenas de Rancagua y Machalí exportan principalmente a Argentina."
		accepted, reason := gate.Accept(ctx, "Exportaciones de cobre alcanzan récord", content, "")
		if !accepted || reason != "domestic_body_majority" {
			t.Errorf("Expected domestic_body_majority acceptance, got %v/%s", accepted, reason)
		}
	})

	t.Run("Evenly mixed body cues reject", func(t *testing.T) {
		content := "Inversionistas de Santiago y Buenos Aires evalúan el proyecto."
		accepted, reason := gate.Accept(ctx, "Evalúan nuevo proyecto de inversión", content, "")
		if accepted || reason != "mixed_body_cues" {
			t.Errorf("Expected mixed_body_cues rejection, got %v/%s", accepted, reason)
		}
	})

	t.Run("Domestic body cue alone accepts", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Avanza el proyecto habitacional", "El proyecto avanza en Machalí.", "")
		if !accepted || reason != "domestic_body_cue" {
			t.Errorf("Expected domestic_body_cue acceptance, got %v/%s", accepted, reason)
		}
	})

	t.Run("Foreign body cue alone rejects", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Concluye la cumbre regional", "La cumbre se realizó en Lima.", "")
		if accepted || reason != "foreign_body_cue" {
			t.Errorf("Expected foreign_body_cue rejection, got %v/%s", accepted, reason)
		}
	})

	t.Run("No cues anywhere rejects", func(t *testing.T) {
		accepted, reason := gate.Accept(ctx, "Nueva receta de cocina", "Ingredientes y preparación paso a paso.", "")
		if accepted || reason != "no_cues" {
			t.Errorf("Expected no_cues rejection, got %v/%s", accepted, reason)
		}
	})

	t.Run("Diacritics in cues normalize", func(t *testing.T) {
		accepted, _ := gate.Accept(ctx, "Corte de agua en Machali por trabajos", "", "")
		if !accepted {
			t.Error("Expected unaccented catalog name to count as domestic cue")
		}
	})
}

func TestPadWords(t *testing.T) {
	t.Run("Collapses punctuation into single spaces", func(t *testing.T) {
		got := padWords("Rancagua, Machalí... y Santiago!")
		want := " rancagua machali y santiago "
		if got != want {
			t.Errorf("padWords = %q, want %q", got, want)
		}
	})

	t.Run("Counts adjacent hits sharing a boundary", func(t *testing.T) {
		if got := countPadded(" lima lima lima ", "lima"); got != 3 {
			t.Errorf("Expected 3 occurrences, got %d", got)
		}
	})

	t.Run("Substrings inside words do not count", func(t *testing.T) {
		if got := countPadded(padWords("climatología en la región"), "lima"); got != 0 {
			t.Errorf("Expected 0 occurrences, got %d", got)
		}
	})
}
