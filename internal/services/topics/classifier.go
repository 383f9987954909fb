// Package topics classifies ingested text into a fixed set of risk topic
// buckets using keyword rules compiled into a single Aho-Corasick automaton,
// so a text is scanned once regardless of how many keywords exist.
package topics

import (
	"sort"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/ternarybob/vigia/internal/common"
)

const (
	// hitsForFullScore is how many distinct keyword hits saturate a
	// topic's score at 1.0.
	hitsForFullScore = 3.0

	// FallbackTopic is assigned when no bucket matches at all.
	FallbackTopic = "otros"

	// fallbackScore is the low-confidence score of the fallback topic.
	fallbackScore = 0.2

	// Method is recorded on every classification this package produces.
	Method = "rules"
)

// topicRules maps each bucket to the keywords that signal it. Keywords are
// matched as substrings of the normalized text, so "flor" also catches
// "flora" and "sanción" is found with or without the accent.
var topicRules = map[string][]string{
	"socioambiental":          {"impacto ambiental", "contaminación", "agua", "relave", "fauna", "flor", "humedal", "evaluación ambiental", "eia"},
	"regulatorio":             {"superintendencia", "fiscalización", "sanción", "resolución", "normativa", "permiso", "seremi", "municipalidad"},
	"laboral":                 {"huelga", "sindicato", "negociación colectiva", "paro", "despidos", "turnos"},
	"seguridad":               {"accidente", "incendio", "explosión", "heridos", "evacuación", "amenaza"},
	"reputacional":            {"denuncia", "críticas", "boicot", "corrupción", "transparencia", "querella"},
	"infraestructura":         {"corte de ruta", "bloqueo", "puente", "carretera", "puerto", "aeropuerto"},
	"politico-administrativo": {"gobernación", "delegación", "concejo", "alcalde", "gobernador", "consulta ciudadana"},
}

// Score is one topic assignment for a text.
type Score struct {
	Topic  string
	Score  float64
	Method string
}

// Classifier matches text against the topic buckets. Safe for concurrent use
// once built; the automaton is immutable.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	kwTopic  []string
}

// NewClassifier compiles the topic keyword rules into a matcher.
func NewClassifier() *Classifier {
	c := &Classifier{}

	topicNames := make([]string, 0, len(topicRules))
	for topic := range topicRules {
		topicNames = append(topicNames, topic)
	}
	sort.Strings(topicNames)

	for _, topic := range topicNames {
		for _, kw := range topicRules[topic] {
			c.keywords = append(c.keywords, common.NormalizeText(kw))
			c.kwTopic = append(c.kwTopic, topic)
		}
	}
	c.matcher = ahocorasick.NewStringMatcher(c.keywords)

	return c
}

// Classify scores a text against every topic bucket. A topic scores
// min(distinct keyword hits / 3, 1); zero-hit topics are omitted. When
// nothing matches, the fallback topic is returned at a low score. Results
// are sorted by descending score, ties broken by topic name.
func (c *Classifier) Classify(text string) []Score {
	normalized := common.NormalizeText(text)

	hits := make(map[string]int)
	for _, idx := range c.matcher.Match([]byte(normalized)) {
		if idx < len(c.kwTopic) {
			hits[c.kwTopic[idx]]++
		}
	}

	if len(hits) == 0 {
		return []Score{{Topic: FallbackTopic, Score: fallbackScore, Method: Method}}
	}

	out := make([]Score, 0, len(hits))
	for topic, n := range hits {
		score := float64(n) / hitsForFullScore
		if score > 1 {
			score = 1
		}
		out = append(out, Score{Topic: topic, Score: score, Method: Method})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Topic < out[j].Topic
	})

	return out
}
