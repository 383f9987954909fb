// Package sentiment scores the polarity of short Spanish news text with a
// valence lexicon plus booster and negation handling, producing a compound
// score in [-1,1] and a coarse label.
package sentiment

import (
	"math"
	"strings"

	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/models"
)

const (
	// minTextLength guards the scorer: shorter text returns neutral/0.
	minTextLength = 10

	// Label thresholds on the compound score.
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	// negationScalar flips and dampens a negated valence.
	negationScalar = -0.74

	// negationScope is how many preceding tokens are checked for a negator.
	negationScope = 3

	// normalizationAlpha shapes the compound normalization curve.
	normalizationAlpha = 15.0
)

// Result holds the compound polarity score and its label.
type Result struct {
	Score float64
	Label models.SentimentLabel
}

// Analyze scores the polarity of a text. Text under 10 characters after
// trimming returns neutral/0 without invoking the scorer.
func Analyze(text string) Result {
	if len(strings.TrimSpace(text)) < minTextLength {
		return Result{Score: 0, Label: models.SentimentNeutral}
	}

	tokens := strings.Fields(common.NormalizeText(text))

	var sum float64
	for i, tok := range tokens {
		valence, ok := lexicon[trimPunct(tok)]
		if !ok {
			continue
		}

		// Booster immediately before the hit scales it up or down.
		if i > 0 {
			if boost, ok := boosters[trimPunct(tokens[i-1])]; ok {
				if valence > 0 {
					valence += boost
				} else {
					valence -= boost
				}
			}
		}

		// A negator within scope flips the valence.
		for j := i - 1; j >= 0 && j >= i-negationScope; j-- {
			if negators[trimPunct(tokens[j])] {
				valence *= negationScalar
				break
			}
		}

		sum += valence
	}

	compound := normalize(sum)

	label := models.SentimentNeutral
	switch {
	case compound >= positiveThreshold:
		label = models.SentimentPositive
	case compound <= negativeThreshold:
		label = models.SentimentNegative
	}

	return Result{Score: compound, Label: label}
}

// normalize maps the raw valence sum onto [-1,1].
func normalize(sum float64) float64 {
	norm := sum / math.Sqrt(sum*sum+normalizationAlpha)
	if norm > 1 {
		return 1
	}
	if norm < -1 {
		return -1
	}
	return norm
}

func trimPunct(tok string) string {
	return strings.Trim(tok, ".,;:!?\"'()[]¡¿")
}
