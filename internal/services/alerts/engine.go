// Package alerts evaluates alert rules against fresh risk snapshots, raises
// hour-deduplicated alert events with evidence and a structured explanation,
// and hands payloads to the notification collaborator.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
)

const (
	// snapshotFreshness bounds how old a snapshot may be and still trigger.
	snapshotFreshness = 24 * time.Hour

	// hourBucketFormat is the calendar-hour granularity of the dedup key.
	hourBucketFormat = "2006-01-02T15"

	// evidenceMinConfidence filters which territory matches count as evidence.
	evidenceMinConfidence = 0.5
)

const summaryPrompt = `Redacta un resumen breve (máximo 2 frases, en español) para un analista de riesgo territorial a partir de esta alerta:

%s

Responde solo con el resumen, sin preámbulos.`

// Engine evaluates enabled rules against recent snapshots for one tenant.
// The hour-bucket storage key is the only dedup coordination needed: an
// insert conflict means an equivalent alert already fired this hour.
type Engine struct {
	storage        interfaces.StorageManager
	notifier       interfaces.AlertNotifier
	llm            interfaces.LLMService
	evidenceLimit  int
	summaryEnabled bool
	logger         arbor.ILogger
}

// NewEngine creates the alert engine. notifier and llm may be nil; alerts
// are then persisted without delivery or summary.
func NewEngine(storage interfaces.StorageManager, notifier interfaces.AlertNotifier, llm interfaces.LLMService, cfg *common.AlertsConfig, logger arbor.ILogger) *Engine {
	return &Engine{
		storage:        storage,
		notifier:       notifier,
		llm:            llm,
		evidenceLimit:  cfg.EvidenceLimit,
		summaryEnabled: cfg.SummaryEnabled,
		logger:         logger,
	}
}

// Run evaluates all enabled rules against the last day's snapshots and
// returns the number of alert events created.
func (e *Engine) Run(ctx context.Context, tenantID string) (int, error) {
	since := time.Now().UTC().Add(-snapshotFreshness)

	snapshots, err := e.storage.Snapshots().Since(ctx, tenantID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent snapshots: %w", err)
	}
	rules, err := e.storage.Alerts().EnabledRules(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to load alert rules: %w", err)
	}

	created := 0
	for i := range rules {
		rule := &rules[i]
		for j := range snapshots {
			snap := &snapshots[j]

			if !territoryMatches(rule.TerritoryFilter, snap.Territory) {
				continue
			}
			if snap.RiskProb < rule.MinProb || snap.Confidence < rule.MinConfidence {
				continue
			}

			ok, err := e.raise(ctx, tenantID, rule, snap)
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}

	return created, nil
}

// raise attempts to create one alert event. A dedup conflict is a no-op.
func (e *Engine) raise(ctx context.Context, tenantID string, rule *models.AlertRule, snap *models.RiskSnapshot) (bool, error) {
	now := time.Now().UTC()
	dedupKey := strings.Join([]string{tenantID, rule.ID, snap.Territory, now.Format(hourBucketFormat)}, "|")

	evidence, err := e.gatherEvidence(ctx, tenantID, snap.Territory)
	if err != nil {
		e.logger.Warn().Err(err).Str("territory", snap.Territory).Msg("Failed to gather alert evidence, continuing without it")
		evidence = nil
	}

	explanation := buildExplanation(rule, snap, evidence)

	event := &models.AlertEvent{
		DedupKey:    dedupKey,
		ID:          common.NewAlertID(),
		TenantID:    tenantID,
		RuleID:      rule.ID,
		TriggeredAt: now,
		Territory:   snap.Territory,
		Probability: snap.RiskProb,
		Confidence:  snap.Confidence,
		Explanation: explanation,
		Summary:     e.summarize(ctx, explanation),
		Evidence:    evidence,
		Status:      models.AlertStatusNew,
	}

	if err := e.storage.Alerts().InsertEvent(ctx, event); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			e.logger.Debug().
				Str("dedup_key", dedupKey).
				Msg("Equivalent alert already exists this hour, skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to insert alert event: %w", err)
	}

	e.logger.Info().
		Str("tenant_id", tenantID).
		Str("rule", rule.Name).
		Str("territory", snap.Territory).
		Float64("probability", snap.RiskProb).
		Msg("Alert raised")

	e.deliver(ctx, tenantID, rule, snap, event)

	return true, nil
}

// gatherEvidence collects recent high-confidence territory-matched signals.
func (e *Engine) gatherEvidence(ctx context.Context, tenantID, territory string) ([]models.EvidenceSignal, error) {
	matches, err := e.storage.Signals().TerritoryMatches(ctx, tenantID, territory, evidenceMinConfidence, e.evidenceLimit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.SignalID
	}
	signals, err := e.storage.Signals().ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	signalByID := make(map[string]models.Signal, len(signals))
	for _, sig := range signals {
		signalByID[sig.ID] = sig
	}

	evidence := make([]models.EvidenceSignal, 0, len(matches))
	for _, m := range matches {
		sig, ok := signalByID[m.SignalID]
		if !ok {
			continue
		}
		evidence = append(evidence, models.EvidenceSignal{
			SignalID:    sig.ID,
			Title:       sig.Title,
			URL:         sig.URL,
			PublishedAt: sig.PublishedAt,
			Territory:   m.Territory,
			Confidence:  m.Confidence,
			Sentiment:   string(sig.SentimentLabel),
		})
	}

	return evidence, nil
}

// summarize requests a short natural-language summary, best-effort. Absence
// or failure of the service yields an empty summary, never a blocked alert.
func (e *Engine) summarize(ctx context.Context, explanation string) string {
	if !e.summaryEnabled || e.llm == nil {
		return ""
	}

	summary, err := e.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(summaryPrompt, explanation)},
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Alert summary generation failed, continuing without summary")
		return ""
	}
	return strings.TrimSpace(summary)
}

// deliver hands the payload to the notification collaborator. One attempt;
// failures are logged and swallowed.
func (e *Engine) deliver(ctx context.Context, tenantID string, rule *models.AlertRule, snap *models.RiskSnapshot, event *models.AlertEvent) {
	if e.notifier == nil {
		return
	}

	payload := &models.NotificationPayload{
		TenantID:        tenantID,
		Rule:            rule.Name,
		Territory:       snap.Territory,
		Probability:     snap.RiskProb,
		Confidence:      snap.Confidence,
		Trend:           snap.Trend,
		TrendPct:        snap.TrendPct,
		IsAnomaly:       snap.IsAnomaly,
		Drivers:         snap.Drivers,
		EvidenceSignals: event.Evidence,
		TriggeredAt:     event.TriggeredAt,
	}

	if err := e.notifier.Notify(ctx, payload); err != nil {
		e.logger.Warn().
			Err(err).
			Str("territory", snap.Territory).
			Msg("Alert notification failed, alert already persisted")
	}
}

// territoryMatches applies the rule's case-insensitive substring filter.
// An empty filter matches every territory.
func territoryMatches(filter, territory string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(territory), strings.ToLower(filter))
}
