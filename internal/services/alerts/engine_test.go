package alerts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
	badgerstore "github.com/ternarybob/vigia/internal/storage/badger"
)

type recordingNotifier struct {
	payloads []*models.NotificationPayload
}

func (n *recordingNotifier) Notify(ctx context.Context, payload *models.NotificationPayload) error {
	n.payloads = append(n.payloads, payload)
	return nil
}

func newEngineFixture(t *testing.T) (interfaces.StorageManager, *recordingNotifier, *Engine) {
	t.Helper()
	logger := common.GetLogger()
	manager, err := badgerstore.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	notifier := &recordingNotifier{}
	engine := NewEngine(manager, notifier, nil, &common.AlertsConfig{EvidenceLimit: 5}, logger)
	return manager, notifier, engine
}

func insertSnapshot(t *testing.T, manager interfaces.StorageManager, territory string, prob, confidence float64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, manager.Snapshots().Insert(context.Background(), &models.RiskSnapshot{
		ID:          common.NewSnapshotID(),
		TenantID:    "t1",
		Territory:   territory,
		PeriodStart: now.Add(-7 * 24 * time.Hour),
		PeriodEnd:   now,
		RiskProb:    prob,
		Confidence:  confidence,
		Trend:       models.TrendRising,
		TrendPct:    35,
		Drivers:     models.SnapshotDrivers{WindowDays: 7, NumSignals: 4, DistinctSources: 2, MeanSentiment: -0.3},
		CreatedAt:   now,
	}))
}

func insertRule(t *testing.T, manager interfaces.StorageManager, rule models.AlertRule) {
	t.Helper()
	rule.ID = common.NewRuleID()
	rule.TenantID = "t1"
	rule.Enabled = true
	require.NoError(t, manager.Alerts().UpsertRule(context.Background(), &rule))
}

func TestEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("raises when thresholds are met and dedupes within the hour", func(t *testing.T) {
		manager, notifier, engine := newEngineFixture(t)
		insertSnapshot(t, manager, "Rancagua", 0.8, 0.6)
		insertRule(t, manager, models.AlertRule{Name: "Riesgo alto", MinProb: 0.65, MinConfidence: 0.45})

		created, err := engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		require.Len(t, notifier.payloads, 1)
		assert.Equal(t, "Rancagua", notifier.payloads[0].Territory)
		assert.Equal(t, models.TrendRising, notifier.payloads[0].Trend)

		created, err = engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Zero(t, created, "equivalent alert within the same hour must be a no-op")
		assert.Len(t, notifier.payloads, 1)
	})

	t.Run("below probability threshold stays silent", func(t *testing.T) {
		manager, notifier, engine := newEngineFixture(t)
		insertSnapshot(t, manager, "Rancagua", 0.5, 0.9)
		insertRule(t, manager, models.AlertRule{Name: "Riesgo alto", MinProb: 0.65, MinConfidence: 0.45})

		created, err := engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.Empty(t, notifier.payloads)
	})

	t.Run("below confidence threshold stays silent", func(t *testing.T) {
		manager, _, engine := newEngineFixture(t)
		insertSnapshot(t, manager, "Rancagua", 0.9, 0.3)
		insertRule(t, manager, models.AlertRule{Name: "Riesgo alto", MinProb: 0.65, MinConfidence: 0.45})

		created, err := engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("territory filter limits scope", func(t *testing.T) {
		manager, notifier, engine := newEngineFixture(t)
		insertSnapshot(t, manager, "Rancagua", 0.8, 0.6)
		insertSnapshot(t, manager, "Temuco", 0.8, 0.6)
		insertRule(t, manager, models.AlertRule{Name: "Solo Rancagua", TerritoryFilter: "rancagua", MinProb: 0.65, MinConfidence: 0.45})

		created, err := engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		require.Len(t, notifier.payloads, 1)
		assert.Equal(t, "Rancagua", notifier.payloads[0].Territory)
	})

	t.Run("attaches recent high-confidence evidence", func(t *testing.T) {
		manager, notifier, engine := newEngineFixture(t)
		insertSnapshot(t, manager, "Rancagua", 0.8, 0.6)
		insertRule(t, manager, models.AlertRule{Name: "Riesgo alto", MinProb: 0.65, MinConfidence: 0.45})

		now := time.Now().UTC()
		sig := &models.Signal{
			ID:             common.NewSignalID(),
			TenantID:       "t1",
			SourceID:       "src-1",
			Title:          "Bloqueo en Rancagua",
			URL:            "https://example.cl/nota",
			Hash:           "hash-ev",
			CapturedAt:     now,
			SentimentLabel: models.SentimentNegative,
		}
		require.NoError(t, manager.Signals().Insert(ctx, sig))
		require.NoError(t, manager.Signals().AddTerritories(ctx, []models.SignalTerritory{
			{ID: common.NewAnnotationID(), SignalID: sig.ID, TenantID: "t1", Territory: "Rancagua", Confidence: 0.8, CapturedAt: now},
			{ID: common.NewAnnotationID(), SignalID: sig.ID, TenantID: "t1", Territory: "Rancagua", Confidence: 0.3, CapturedAt: now},
		}))

		created, err := engine.Run(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		require.Len(t, notifier.payloads, 1)
		evidence := notifier.payloads[0].EvidenceSignals
		require.Len(t, evidence, 1, "low-confidence matches are not evidence")
		assert.Equal(t, sig.ID, evidence[0].SignalID)
		assert.Equal(t, "negative", evidence[0].Sentiment)
	})
}

func TestTerritoryMatches(t *testing.T) {
	assert.True(t, territoryMatches("", "Rancagua"))
	assert.True(t, territoryMatches("rancagua", "Rancagua"))
	assert.True(t, territoryMatches("Ranc", "Rancagua"))
	assert.False(t, territoryMatches("Temuco", "Rancagua"))
}

func TestBuildExplanation(t *testing.T) {
	rule := &models.AlertRule{Name: "Riesgo alto"}
	snap := &models.RiskSnapshot{
		Territory:  "Rancagua",
		RiskProb:   0.78,
		Confidence: 0.55,
		Trend:      models.TrendRising,
		TrendPct:   42.5,
		IsAnomaly:  true,
		Drivers: models.SnapshotDrivers{
			WindowDays:      7,
			NumSignals:      12,
			DistinctSources: 4,
			MeanSentiment:   -0.3,
			TopTopics:       []models.TopicCount{{Topic: "laboral", Count: 6}},
		},
	}
	evidence := []models.EvidenceSignal{{Title: "Bloqueo en Rancagua", Confidence: 0.8}}

	text := buildExplanation(rule, snap, evidence)

	assert.True(t, strings.HasPrefix(text, "Alerta 'Riesgo alto' en Rancagua: riesgo alto"))
	assert.Contains(t, text, "Tendencia al alza: +42.5%")
	assert.Contains(t, text, "Desviación anómala")
	assert.Contains(t, text, "Volumen de señales alto: 12 señales de 4 fuentes en 7 días")
	assert.Contains(t, text, "Sentimiento promedio negativo (-0.30)")
	assert.Contains(t, text, "Temas principales: laboral (6)")
	assert.Contains(t, text, "Bloqueo en Rancagua (confianza 0.80)")
	assert.Contains(t, text, "Recomendación: escalar al equipo territorial")

	t.Run("identical inputs produce identical text", func(t *testing.T) {
		assert.Equal(t, text, buildExplanation(rule, snap, evidence))
	})

	t.Run("severity bands", func(t *testing.T) {
		assert.Equal(t, severityCritical, severityBand(0.9))
		assert.Equal(t, severityHigh, severityBand(0.7))
		assert.Equal(t, severityElevated, severityBand(0.5))
		assert.Equal(t, severityModerate, severityBand(0.49))
	})
}
