package risk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/models"
	badgerstore "github.com/ternarybob/vigia/internal/storage/badger"
)

func TestAggregatorRun(t *testing.T) {
	logger := common.GetLogger()
	manager, err := badgerstore.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	ctx := context.Background()
	now := time.Now().UTC()

	source := &models.Source{
		ID:               "src-1",
		TenantID:         "t1",
		Name:             "Diario regional",
		Weight:           1.0,
		CredibilityScore: 0.8,
		Enabled:          true,
	}
	require.NoError(t, manager.Sources().Upsert(ctx, source))

	insertSignal := func(hash, title string, sentiment float64, territories []models.SignalTerritory, topics []models.SignalTopic) *models.Signal {
		sig := &models.Signal{
			ID:             common.NewSignalID(),
			TenantID:       "t1",
			SourceID:       source.ID,
			Title:          title,
			Hash:           hash,
			CapturedAt:     now,
			SentimentScore: sentiment,
		}
		require.NoError(t, manager.Signals().Insert(ctx, sig))
		for i := range territories {
			territories[i].ID = common.NewAnnotationID()
			territories[i].SignalID = sig.ID
			territories[i].TenantID = "t1"
			territories[i].CapturedAt = now
		}
		require.NoError(t, manager.Signals().AddTerritories(ctx, territories))
		for i := range topics {
			topics[i].ID = common.NewAnnotationID()
			topics[i].SignalID = sig.ID
		}
		require.NoError(t, manager.Signals().AddTopics(ctx, topics))
		return sig
	}

	insertSignal("h1", "Bloqueo en Rancagua", -0.5,
		[]models.SignalTerritory{{Territory: "Rancagua", Confidence: 0.8}},
		[]models.SignalTopic{{Topic: "laboral", Score: 0.66, Method: "rules"}})

	// Attributed to Rancagua only: aggregation uses the best territory.
	insertSignal("h2", "Protesta afecta a Rancagua y Machalí", -0.3,
		[]models.SignalTerritory{
			{Territory: "Rancagua", Confidence: 0.9},
			{Territory: "Machalí", Confidence: 0.6},
		},
		[]models.SignalTopic{{Topic: "laboral", Score: 0.33, Method: "rules"}})

	// No territory: contributes to no snapshot.
	insertSignal("h3", "Nota sin lugar identificado", 0.1, nil, nil)

	aggregator := NewAggregator(manager, &common.RiskConfig{WindowDays: 7}, logger)

	created, err := aggregator.Run(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	snaps, err := manager.Snapshots().Since(ctx, "t1", now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	snap := snaps[0]
	assert.Equal(t, "Rancagua", snap.Territory)
	assert.Equal(t, 2, snap.Drivers.NumSignals)
	assert.Equal(t, 1, snap.Drivers.DistinctSources)
	assert.Equal(t, 7, snap.Drivers.WindowDays)
	assert.Greater(t, snap.RiskScore, 0.0)
	assert.InDelta(t, LogisticProbability(snap.RiskScore), snap.RiskProb, 1e-9)
	assert.InDelta(t, -0.4, snap.Drivers.MeanSentiment, 1e-9)
	assert.Equal(t, models.TrendStable, snap.Trend)
	assert.False(t, snap.IsAnomaly)
	require.NotEmpty(t, snap.Drivers.TopTopics)
	assert.Equal(t, "laboral", snap.Drivers.TopTopics[0].Topic)
	assert.Equal(t, 2, snap.Drivers.TopTopics[0].Count)

	t.Run("empty window creates nothing", func(t *testing.T) {
		created, err := aggregator.Run(ctx, "t-empty")
		require.NoError(t, err)
		assert.Zero(t, created)
	})
}

func TestComputeTrend(t *testing.T) {
	windowStart := time.Now().UTC()
	prior := []models.RiskSnapshot{
		{RiskScore: 10, PeriodEnd: windowStart.Add(-24 * time.Hour)},
	}

	t.Run("no history is stable at zero", func(t *testing.T) {
		trend, pct := computeTrend(5, nil, windowStart, 7)
		assert.Equal(t, models.TrendStable, trend)
		assert.Zero(t, pct)
	})

	t.Run("rising beyond the band", func(t *testing.T) {
		trend, pct := computeTrend(13, prior, windowStart, 7)
		assert.Equal(t, models.TrendRising, trend)
		assert.InDelta(t, 30.0, pct, 1e-9)
	})

	t.Run("falling beyond the band", func(t *testing.T) {
		trend, pct := computeTrend(7, prior, windowStart, 7)
		assert.Equal(t, models.TrendFalling, trend)
		assert.InDelta(t, -30.0, pct, 1e-9)
	})

	t.Run("inside the band is stable", func(t *testing.T) {
		trend, pct := computeTrend(11, prior, windowStart, 7)
		assert.Equal(t, models.TrendStable, trend)
		assert.InDelta(t, 10.0, pct, 1e-9)
	})

	t.Run("snapshots outside the prior window are ignored", func(t *testing.T) {
		stale := []models.RiskSnapshot{
			{RiskScore: 100, PeriodEnd: windowStart.Add(-8 * 24 * time.Hour)},
		}
		trend, pct := computeTrend(5, stale, windowStart, 7)
		assert.Equal(t, models.TrendStable, trend)
		assert.Zero(t, pct)
	})
}

func TestIsAnomaly(t *testing.T) {
	snaps := func(scores ...float64) []models.RiskSnapshot {
		out := make([]models.RiskSnapshot, len(scores))
		for i, s := range scores {
			out[i].RiskScore = s
		}
		return out
	}

	t.Run("needs enough history", func(t *testing.T) {
		assert.False(t, isAnomaly(100, snaps(5, 5)))
	})

	t.Run("flat history never flags", func(t *testing.T) {
		assert.False(t, isAnomaly(100, snaps(5, 5, 5)))
	})

	t.Run("beyond two sigma flags", func(t *testing.T) {
		assert.True(t, isAnomaly(7, snaps(4, 5, 6, 5)))
	})

	t.Run("within two sigma does not flag", func(t *testing.T) {
		assert.False(t, isAnomaly(6, snaps(4, 5, 6, 5)))
	})
}

func TestCountRecurrence(t *testing.T) {
	signals := []models.Signal{
		{SourceID: "s1", Title: "Bloqueo en Rancagua"},
		{SourceID: "s1", Title: "bloqueo en rancagua"},
		{SourceID: "s2", Title: "Bloqueo en Rancagua"},
		{SourceID: "s1", Title: "Otra noticia"},
	}
	counts := countRecurrence(signals)

	assert.Equal(t, 1, counts[recurrenceKey(signals[0])], "same source and normalized title repeat once")
	assert.Zero(t, counts[recurrenceKey(signals[2])], "different source is not a repeat")
	assert.Zero(t, counts[recurrenceKey(signals[3])])
}

func TestBestTerritory(t *testing.T) {
	assert.Empty(t, bestTerritory(nil))

	territories := []models.SignalTerritory{
		{Territory: "Machalí", Confidence: 0.6},
		{Territory: "Rancagua", Confidence: 0.9},
	}
	assert.Equal(t, "Rancagua", bestTerritory(territories))
}

func TestTopTopics(t *testing.T) {
	counts := map[string]int{"laboral": 3, "seguridad": 3, "regulatorio": 1, "otros": 5}

	top := topTopics(counts, 3)
	require.Len(t, top, 3)
	assert.Equal(t, models.TopicCount{Topic: "otros", Count: 5}, top[0])
	assert.Equal(t, models.TopicCount{Topic: "laboral", Count: 3}, top[1], "ties break by name")
	assert.Equal(t, models.TopicCount{Topic: "seguridad", Count: 3}, top[2])
}
