// Package risk turns enriched signals into per-territory risk aggregates.
// Scoring combines source trust, topic relevance, lexical intensity,
// recurrence and sentiment into a bounded per-signal contribution; the
// aggregator windows those contributions per territory and maps them to a
// probability with trend and anomaly flags.
package risk

import (
	"math"
	"strings"

	"github.com/ternarybob/vigia/internal/common"
)

const (
	// ScoreCap bounds a single signal's risk contribution.
	ScoreCap = 10.0

	// Logistic mapping from summed risk score to probability.
	logisticSlope    = 0.7
	logisticMidpoint = 6.0

	// Intensity keyword contributions, capped at intensityCap.
	highIntensityHit   = 1.0
	mediumIntensityHit = 0.4
	intensityCap       = 2.0

	// Recurrence boost per repeat, capped at recurrenceCap.
	recurrenceStep = 0.3
	recurrenceCap  = 2.0

	officialBoost = 0.6

	// sentimentWeight converts sentiment into a score adjustment: negative
	// sentiment raises risk, positive lowers it.
	sentimentWeight = 0.5
)

var highIntensityKeywords = []string{
	"bloqueo", "paro", "huelga", "enfrentamiento", "violencia", "sanción", "querella", "incendio",
}

var mediumIntensityKeywords = []string{
	"denuncia", "rechazo", "conflicto", "tensión", "audiencia pública", "fiscalización", "acusación",
}

// LanguageIntensity scores how charged the language of a text is: +1.0 per
// high-intensity keyword present, +0.4 per medium, capped at 2.0.
func LanguageIntensity(text string) float64 {
	normalized := common.NormalizeText(text)

	score := 0.0
	for _, kw := range highIntensityKeywords {
		if strings.Contains(normalized, common.NormalizeText(kw)) {
			score += highIntensityHit
		}
	}
	for _, kw := range mediumIntensityKeywords {
		if strings.Contains(normalized, common.NormalizeText(kw)) {
			score += mediumIntensityHit
		}
	}

	return math.Min(score, intensityCap)
}

// ScoreInput carries everything the per-signal scorer needs.
type ScoreInput struct {
	SourceWeight      float64
	SourceCredibility float64
	TopicScore        float64
	Text              string
	Recurrence        int
	Official          bool
	SentimentScore    float64
}

// ScoreDrivers is the full per-signal scoring breakdown, retained for
// explainability and downstream use by the alert engine.
type ScoreDrivers struct {
	SourceWeight      float64 `json:"source_weight"`
	SourceCredibility float64 `json:"source_credibility"`
	TopicScore        float64 `json:"topic_score"`
	LanguageIntensity float64 `json:"language_intensity"`
	Recurrence        int     `json:"recurrence"`
	Official          bool    `json:"official"`
	SentimentScore    float64 `json:"sentiment_score"`
	SentimentPenalty  float64 `json:"sentiment_penalty"`
}

// ComputeSignalScore calculates one signal's bounded risk contribution:
// min(weight×credibility + 2×topic + intensity + recurrence + official −
// sentiment×0.5, cap). Negative sentiment adds risk.
func ComputeSignalScore(in ScoreInput) (float64, ScoreDrivers) {
	intensity := LanguageIntensity(in.Text)
	recurrenceBoost := math.Min(float64(in.Recurrence)*recurrenceStep, recurrenceCap)

	official := 0.0
	if in.Official {
		official = officialBoost
	}

	sentimentPenalty := -in.SentimentScore * sentimentWeight

	score := math.Min(
		in.SourceWeight*in.SourceCredibility+2.0*in.TopicScore+intensity+recurrenceBoost+official+sentimentPenalty,
		ScoreCap,
	)

	return score, ScoreDrivers{
		SourceWeight:      in.SourceWeight,
		SourceCredibility: in.SourceCredibility,
		TopicScore:        in.TopicScore,
		LanguageIntensity: intensity,
		Recurrence:        in.Recurrence,
		Official:          in.Official,
		SentimentScore:    in.SentimentScore,
		SentimentPenalty:  sentimentPenalty,
	}
}

// LogisticProbability maps a summed territory risk score onto (0,1) with a
// logistic curve centred at the midpoint, so probability 0.5 means the score
// sits exactly at the alerting threshold.
func LogisticProbability(score float64) float64 {
	x := logisticSlope * (score - logisticMidpoint)
	return 1.0 / (1.0 + math.Exp(-x))
}

// ConfidenceScore grows with signal volume and source diversity, bounded to
// [0.2, 1.0]: more signals from more distinct sources mean more confidence
// in the aggregate.
func ConfidenceScore(numSignals, numSources, numDistinctSources int) float64 {
	if numSources < 1 {
		numSources = 1
	}
	s := math.Min(float64(numSignals)/10.0, 1.0)
	d := math.Min(float64(numDistinctSources)/float64(numSources), 1.0)
	return 0.2 + 0.5*s + 0.3*d
}
