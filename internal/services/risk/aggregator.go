package risk

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
)

const (
	// Trend band: score changes within ±20% of the prior window count as stable.
	trendBandPct = 20.0

	// Anomaly detection needs at least this many prior snapshots.
	minAnomalyHistory = 3

	// anomalySigma is the stddev multiple beyond which a score is anomalous.
	anomalySigma = 2.0

	// historyLimit bounds how many prior snapshots feed trend/anomaly stats.
	historyLimit = 50

	topTopicsLimit = 5

	// defaultTopicScore stands in when a signal carries no topic annotation.
	defaultTopicScore = 0.2
)

// Aggregator computes per-territory risk snapshots over a trailing window.
// Each run appends one snapshot per active territory; prior snapshots are the
// persisted history that trend and anomaly detection recompute from, so runs
// are safe across restarts and multiple instances.
type Aggregator struct {
	storage    interfaces.StorageManager
	windowDays int
	logger     arbor.ILogger
}

// NewAggregator creates the risk aggregator.
func NewAggregator(storage interfaces.StorageManager, cfg *common.RiskConfig, logger arbor.ILogger) *Aggregator {
	return &Aggregator{
		storage:    storage,
		windowDays: cfg.WindowDays,
		logger:     logger,
	}
}

// territoryAccum collects the per-territory aggregation state for one run.
type territoryAccum struct {
	riskScore    float64
	numSignals   int
	sources      map[string]bool
	topicCounts  map[string]int
	sentimentSum float64
}

// Run aggregates one tenant's window and returns the snapshot count created.
func (a *Aggregator) Run(ctx context.Context, tenantID string) (int, error) {
	end := time.Now().UTC()
	start := end.Add(-time.Duration(a.windowDays) * 24 * time.Hour)

	signals, err := a.storage.Signals().Since(ctx, tenantID, start)
	if err != nil {
		return 0, fmt.Errorf("failed to load window signals: %w", err)
	}
	if len(signals) == 0 {
		a.logger.Debug().Str("tenant_id", tenantID).Msg("No signals in window, skipping risk aggregation")
		return 0, nil
	}

	ids := make([]string, len(signals))
	for i, sig := range signals {
		ids[i] = sig.ID
	}

	topicsBySignal, err := a.storage.Signals().TopicsForSignals(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load signal topics: %w", err)
	}
	territoriesBySignal, err := a.storage.Signals().TerritoriesForSignals(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to load signal territories: %w", err)
	}

	allSources, err := a.storage.Sources().All(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to load sources: %w", err)
	}
	sourceByID := make(map[string]models.Source, len(allSources))
	for _, src := range allSources {
		sourceByID[src.ID] = src
	}

	recurrence := countRecurrence(signals)

	accums := make(map[string]*territoryAccum)
	for _, sig := range signals {
		territory := bestTerritory(territoriesBySignal[sig.ID])
		if territory == "" {
			continue
		}

		input := ScoreInput{
			SourceWeight:      1.0,
			SourceCredibility: 0.7,
			TopicScore:        defaultTopicScore,
			Text:              sig.Title + " " + sig.Content,
			Recurrence:        recurrence[recurrenceKey(sig)],
			SentimentScore:    sig.SentimentScore,
		}
		if src, ok := sourceByID[sig.SourceID]; ok {
			input.SourceWeight = src.Weight
			input.SourceCredibility = src.CredibilityScore
			input.Official = src.Official
		}
		for _, t := range topicsBySignal[sig.ID] {
			if t.Score > input.TopicScore {
				input.TopicScore = t.Score
			}
		}

		score, _ := ComputeSignalScore(input)

		acc := accums[territory]
		if acc == nil {
			acc = &territoryAccum{
				sources:     make(map[string]bool),
				topicCounts: make(map[string]int),
			}
			accums[territory] = acc
		}
		acc.riskScore += score
		acc.numSignals++
		acc.sources[sig.SourceID] = true
		acc.sentimentSum += sig.SentimentScore
		for _, t := range topicsBySignal[sig.ID] {
			acc.topicCounts[t.Topic]++
		}
	}

	created := 0
	for territory, acc := range accums {
		snap, err := a.buildSnapshot(ctx, tenantID, territory, acc, start, end, len(allSources))
		if err != nil {
			return created, err
		}
		if err := a.storage.Snapshots().Insert(ctx, snap); err != nil {
			return created, fmt.Errorf("failed to insert risk snapshot: %w", err)
		}
		created++

		a.logger.Info().
			Str("tenant_id", tenantID).
			Str("territory", territory).
			Float64("risk_score", snap.RiskScore).
			Float64("risk_prob", snap.RiskProb).
			Str("trend", string(snap.Trend)).
			Bool("is_anomaly", snap.IsAnomaly).
			Msg("Risk snapshot created")
	}

	return created, nil
}

func (a *Aggregator) buildSnapshot(ctx context.Context, tenantID, territory string, acc *territoryAccum, start, end time.Time, numSources int) (*models.RiskSnapshot, error) {
	history, err := a.storage.Snapshots().History(ctx, tenantID, territory, end, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}

	trend, trendPct := computeTrend(acc.riskScore, history, start, a.windowDays)

	return &models.RiskSnapshot{
		ID:          common.NewSnapshotID(),
		TenantID:    tenantID,
		Territory:   territory,
		PeriodStart: start,
		PeriodEnd:   end,
		RiskScore:   acc.riskScore,
		RiskProb:    LogisticProbability(acc.riskScore),
		Confidence:  ConfidenceScore(acc.numSignals, numSources, len(acc.sources)),
		Drivers: models.SnapshotDrivers{
			WindowDays:      a.windowDays,
			NumSignals:      acc.numSignals,
			DistinctSources: len(acc.sources),
			TopTopics:       topTopics(acc.topicCounts, topTopicsLimit),
			MeanSentiment:   acc.sentimentSum / float64(acc.numSignals),
		},
		Trend:     trend,
		TrendPct:  trendPct,
		IsAnomaly: isAnomaly(acc.riskScore, history),
		CreatedAt: end,
	}, nil
}

// bestTerritory picks the single highest-confidence territory of a signal.
// Multi-territory signals are deliberately attributed to only one territory.
func bestTerritory(territories []models.SignalTerritory) string {
	best := ""
	bestConfidence := -1.0
	for _, t := range territories {
		if t.Confidence > bestConfidence {
			best = t.Territory
			bestConfidence = t.Confidence
		}
	}
	return best
}

// recurrenceKey identifies repeats of the same story from the same source.
func recurrenceKey(sig models.Signal) string {
	return sig.SourceID + "|" + common.NormalizeText(strings.TrimSpace(sig.Title))
}

// countRecurrence maps each signal's recurrence key to its repeat count
// (occurrences beyond the first) within the window.
func countRecurrence(signals []models.Signal) map[string]int {
	counts := make(map[string]int, len(signals))
	for _, sig := range signals {
		counts[recurrenceKey(sig)]++
	}
	for key, n := range counts {
		counts[key] = n - 1
	}
	return counts
}

// computeTrend compares the current score against the mean score of the
// snapshots produced during the immediately preceding window. No prior
// snapshot means stable at 0.
func computeTrend(current float64, history []models.RiskSnapshot, windowStart time.Time, windowDays int) (models.Trend, float64) {
	priorStart := windowStart.Add(-time.Duration(windowDays) * 24 * time.Hour)

	priorSum := 0.0
	priorCount := 0
	for _, snap := range history {
		if snap.PeriodEnd.After(priorStart) && !snap.PeriodEnd.After(windowStart) {
			priorSum += snap.RiskScore
			priorCount++
		}
	}
	if priorCount == 0 {
		return models.TrendStable, 0
	}

	priorMean := priorSum / float64(priorCount)
	if priorMean == 0 {
		return models.TrendStable, 0
	}

	pct := (current - priorMean) / priorMean * 100
	switch {
	case pct > trendBandPct:
		return models.TrendRising, pct
	case pct < -trendBandPct:
		return models.TrendFalling, pct
	default:
		return models.TrendStable, pct
	}
}

// isAnomaly flags scores more than two standard deviations away from the
// historical mean, once enough history exists to make that meaningful.
func isAnomaly(current float64, history []models.RiskSnapshot) bool {
	if len(history) < minAnomalyHistory {
		return false
	}

	sum := 0.0
	for _, snap := range history {
		sum += snap.RiskScore
	}
	mean := sum / float64(len(history))

	variance := 0.0
	for _, snap := range history {
		d := snap.RiskScore - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(history)))
	if stddev == 0 {
		return false
	}

	return math.Abs(current-mean) > anomalySigma*stddev
}

// topTopics returns the most frequent topics, ties broken by name.
func topTopics(counts map[string]int, limit int) []models.TopicCount {
	out := make([]models.TopicCount, 0, len(counts))
	for topic, count := range counts {
		out = append(out, models.TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
