package topics

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	t.Run("Labor and safety keywords score their buckets", func(t *testing.T) {
		scores := c.Classify("Bloqueo y huelga paralizan faenas en Rancagua")

		byTopic := make(map[string]float64, len(scores))
		for _, s := range scores {
			byTopic[s.Topic] = s.Score
		}

		if byTopic["laboral"] <= 0 {
			t.Errorf("Expected laboral > 0, got %f", byTopic["laboral"])
		}
		if byTopic["infraestructura"] <= 0 {
			t.Errorf("Expected infraestructura > 0, got %f", byTopic["infraestructura"])
		}
	})

	t.Run("No match yields the fallback topic", func(t *testing.T) {
		scores := c.Classify("Nueva receta de cocina gana concurso gastronómico")
		if len(scores) != 1 {
			t.Fatalf("Expected single fallback score, got %d", len(scores))
		}
		if scores[0].Topic != FallbackTopic || scores[0].Score != 0.2 {
			t.Errorf("Expected %s/0.2, got %s/%f", FallbackTopic, scores[0].Topic, scores[0].Score)
		}
	})

	t.Run("Score saturates at three distinct hits", func(t *testing.T) {
		scores := c.Classify("Accidente con incendio y explosión deja heridos tras evacuación")
		for _, s := range scores {
			if s.Topic == "seguridad" {
				if s.Score != 1.0 {
					t.Errorf("Expected seguridad saturated at 1.0, got %f", s.Score)
				}
				return
			}
		}
		t.Fatal("Expected seguridad topic in results")
	})

	t.Run("Results sorted by descending score", func(t *testing.T) {
		scores := c.Classify("Huelga y paro con despidos; además una denuncia aislada")
		for i := 1; i < len(scores); i++ {
			if scores[i].Score > scores[i-1].Score {
				t.Errorf("Results not sorted: %v", scores)
			}
		}
	})

	t.Run("Accented keywords match unaccented text", func(t *testing.T) {
		scores := c.Classify("La superintendencia aplicó una sancion tras la fiscalizacion")
		found := false
		for _, s := range scores {
			if s.Topic == "regulatorio" {
				found = true
				if s.Score < 0.9 {
					t.Errorf("Expected three regulatorio hits to saturate, got %f", s.Score)
				}
			}
		}
		if !found {
			t.Fatal("Expected regulatorio topic in results")
		}
	})

	t.Run("Method is recorded", func(t *testing.T) {
		scores := c.Classify("huelga en el puerto")
		for _, s := range scores {
			if s.Method != Method {
				t.Errorf("Expected method %q, got %q", Method, s.Method)
			}
		}
	})
}
