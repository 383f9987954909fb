package geo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/models"
)

// Mapping method tags recorded on each match.
const (
	MappingExact = "exact_match"
	MappingAlias = "alias_match"
	MappingFuzzy = "fuzzy_match"
)

// Scoring weights for the six relevance signals.
const (
	weightPosition        = 0.25
	weightDetectionMethod = 0.15
	weightConfidence      = 0.15
	weightFrequency       = 0.20
	weightSourceRegion    = 0.15
	weightLevel           = 0.10

	// frequencySaturation is the mention count at which the frequency
	// signal reaches 1.0.
	frequencySaturation = 5.0
)

// Match is one resolved territory with its full resolution trace.
type Match struct {
	TerritoryName string
	Level         models.TerritoryLevel
	Latitude      *float64
	Longitude     *float64

	DetectedToponym string
	ToponymPosition int
	ToponymContext  string

	Confidence       float64
	ScoringBreakdown map[string]float64

	MappingMethod        string
	DisambiguationReason string
	DetectionMethod      string

	MatchedAt time.Time
}

// Resolver runs the full geoparsing pipeline for one country: gate,
// detection chain, gazetteer matching, scoring, disambiguation, selection.
// Safe for concurrent use; all state is immutable after construction.
type Resolver struct {
	gazetteer             *Gazetteer
	gate                  *CountryGate
	detectors             []ToponymDetector
	fuzzyThreshold        float64
	fallbackMinConfidence float64
	maxTerritories        int
	requestTimeout        time.Duration
	logger                arbor.ILogger
}

// NewResolver assembles a resolver from its parts. Detectors are tried in
// the given order; the first that yields detections wins.
func NewResolver(gazetteer *Gazetteer, gate *CountryGate, detectors []ToponymDetector, cfg *common.GeoConfig, logger arbor.ILogger) (*Resolver, error) {
	timeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid geo request timeout '%s': %w", cfg.RequestTimeout, err)
	}

	return &Resolver{
		gazetteer:             gazetteer,
		gate:                  gate,
		detectors:             detectors,
		fuzzyThreshold:        cfg.FuzzyThreshold,
		fallbackMinConfidence: cfg.FallbackMinConfidence,
		maxTerritories:        cfg.MaxTerritories,
		requestTimeout:        timeout,
		logger:                logger,
	}, nil
}

// Geoparse resolves the territories a text concerns. A country-gate
// rejection or a fully exhausted detection chain yields zero matches, never
// an error: the system prefers false negatives to false positives on
// geography.
func (r *Resolver) Geoparse(ctx context.Context, title, content, itemURL, sourceRegion string) []Match {
	accepted, reason := r.gate.Accept(ctx, title, content, itemURL)
	if !accepted {
		r.logger.Debug().Str("reason", reason).Msg("Country gate rejected item, skipping territory resolution")
		return nil
	}

	detections := r.detect(ctx, title, content)
	if len(detections) == 0 {
		return nil
	}

	fullText := title + "\n\n" + content

	var all []Match
	for _, detection := range detections {
		all = append(all, r.resolveDetection(detection, fullText, sourceRegion)...)
	}

	// Keep the best-scoring match per territory name.
	best := make(map[string]Match, len(all))
	for _, m := range all {
		if cur, ok := best[m.TerritoryName]; !ok || m.Confidence > cur.Confidence {
			best[m.TerritoryName] = m
		}
	}

	matches := make([]Match, 0, len(best))
	for _, m := range best {
		// Fuzzy matching is the weakest link in the chain; matches it
		// produced must clear the minimum confidence bar.
		if m.MappingMethod == MappingFuzzy && m.Confidence < r.fallbackMinConfidence {
			continue
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].TerritoryName < matches[j].TerritoryName
	})

	if len(matches) > r.maxTerritories {
		matches = matches[:r.maxTerritories]
	}

	return matches
}

// detect walks the detection chain. Each method runs under a bounded
// timeout; errors and empty results degrade silently to the next method.
func (r *Resolver) detect(ctx context.Context, title, content string) []ToponymDetection {
	for _, detector := range r.detectors {
		callCtx, cancel := context.WithTimeout(ctx, r.requestTimeout)
		detections, err := detector.Detect(callCtx, title, content)
		cancel()

		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("method", detector.Name()).
				Msg("Toponym detection method failed, trying next")
			continue
		}
		if len(detections) > 0 {
			return detections
		}
	}
	return nil
}

// resolveDetection maps one detected toponym to scored territory candidates.
func (r *Resolver) resolveDetection(detection ToponymDetection, fullText, sourceRegion string) []Match {
	normalized := common.NormalizeText(detection.Toponym)

	candidates := r.gazetteer.Lookup(normalized)
	fuzzy := false
	if len(candidates) == 0 {
		candidates = r.gazetteer.FuzzySearch(detection.Toponym, r.fuzzyThreshold)
		fuzzy = true
	}
	if len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		breakdown := r.scoreCandidate(detection, candidate, fullText, sourceRegion)

		mappingMethod := MappingFuzzy
		if !fuzzy && common.NormalizeText(candidate.MatchedVia) == normalized {
			if candidate.MatchedVia == candidate.Name {
				mappingMethod = MappingExact
			} else {
				mappingMethod = MappingAlias
			}
		}

		matches = append(matches, Match{
			TerritoryName:        candidate.Name,
			Level:                candidate.Level,
			Latitude:             candidate.Latitude,
			Longitude:            candidate.Longitude,
			DetectedToponym:      detection.Toponym,
			ToponymPosition:      detection.PositionStart,
			ToponymContext:       detection.Context,
			Confidence:           breakdown["final_score"],
			ScoringBreakdown:     breakdown,
			MappingMethod:        mappingMethod,
			DisambiguationReason: explain(detection, candidate, breakdown, mappingMethod, sourceRegion),
			DetectionMethod:      detection.Method,
			MatchedAt:            time.Now().UTC(),
		})
	}

	return matches
}

// scoreCandidate combines the six relevance signals into a weighted sum.
// Every contribution is kept in the breakdown for explainability.
func (r *Resolver) scoreCandidate(detection ToponymDetection, candidate Candidate, fullText, sourceRegion string) map[string]float64 {
	scores := make(map[string]float64, 7)

	if detection.InTitle {
		scores["position_score"] = 1.0
	} else {
		scores["position_score"] = 0.5
	}

	switch detection.Method {
	case MethodAINER:
		scores["detection_method_score"] = confidenceAINER
	case MethodStatisticalNER:
		scores["detection_method_score"] = confidenceStatisticalNER
	case MethodRegexGazetteer:
		scores["detection_method_score"] = confidenceRegexGazetteer
	default:
		scores["detection_method_score"] = 0.5
	}

	scores["detection_confidence"] = detection.Confidence

	frequency := common.CountOccurrences(fullText, detection.Toponym)
	scores["frequency_score"] = math.Min(float64(frequency)/frequencySaturation, 1.0)

	switch {
	case sourceRegion == "" || candidate.Region == "":
		scores["source_region_score"] = 0.5
	case sourceRegion == candidate.Region:
		scores["source_region_score"] = 1.0
	default:
		scores["source_region_score"] = 0.3
	}

	switch candidate.Level {
	case models.LevelRegion:
		scores["level_score"] = 0.9
	case models.LevelComuna:
		scores["level_score"] = 0.7
	case models.LevelLocalidad:
		scores["level_score"] = 0.5
	default:
		scores["level_score"] = 0.5
	}

	final := scores["position_score"]*weightPosition +
		scores["detection_method_score"]*weightDetectionMethod +
		scores["detection_confidence"]*weightConfidence +
		scores["frequency_score"]*weightFrequency +
		scores["source_region_score"]*weightSourceRegion +
		scores["level_score"]*weightLevel
	scores["final_score"] = math.Round(final*1000) / 1000

	return scores
}

// explain produces the short deterministic trace attached to each match.
// Audit text only; nothing downstream decides on it.
func explain(detection ToponymDetection, candidate Candidate, breakdown map[string]float64, mappingMethod, sourceRegion string) string {
	parts := []string{
		fmt.Sprintf("Detectado '%s' usando %s", detection.Toponym, detection.Method),
	}

	switch mappingMethod {
	case MappingExact:
		parts = append(parts, fmt.Sprintf("match exacto con '%s'", candidate.Name))
	case MappingAlias:
		parts = append(parts, fmt.Sprintf("match vía alias '%s'", candidate.MatchedVia))
	default:
		parts = append(parts, fmt.Sprintf("match aproximado con '%s'", candidate.Name))
	}

	if detection.InTitle {
		parts = append(parts, "aparece en título")
	}
	if breakdown["frequency_score"] > 0.6 {
		parts = append(parts, "alta frecuencia en texto")
	}
	if sourceRegion != "" && candidate.Region == sourceRegion {
		parts = append(parts, fmt.Sprintf("fuente regional coincide (%s)", sourceRegion))
	}
	if detection.Context != "" {
		snippet := detection.Context
		if len(snippet) > 60 {
			snippet = snippet[:60] + "..."
		}
		parts = append(parts, fmt.Sprintf("contexto: \"%s\"", snippet))
	}

	return strings.Join(parts, "; ")
}
