package models

import "time"

// Trend classifies the direction of a territory's risk score relative to the
// immediately preceding window.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// TopicCount is one entry of the top-topics driver breakdown.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// SnapshotDrivers is the structured breakdown of inputs behind a snapshot.
// Kept as named fields rather than an opaque map so individual contributions
// stay testable.
type SnapshotDrivers struct {
	WindowDays      int          `json:"window_days"`
	NumSignals      int          `json:"num_signals"`
	DistinctSources int          `json:"distinct_sources"`
	TopTopics       []TopicCount `json:"top_topics"`
	MeanSentiment   float64      `json:"mean_sentiment"`
}

// RiskSnapshot is one per (territory, window) aggregate. Snapshots are
// append-only: a new run writes new rows and never mutates prior ones, so
// trend and anomaly detection can recompute from persisted history.
type RiskSnapshot struct {
	ID       string `json:"id" badgerhold:"key"`
	TenantID string `json:"tenant_id" badgerhold:"index"`

	Territory string `json:"territory" badgerhold:"index"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end" badgerhold:"index"`

	RiskScore  float64 `json:"risk_score"`
	RiskProb   float64 `json:"risk_prob"`
	Confidence float64 `json:"confidence"`

	Drivers SnapshotDrivers `json:"drivers"`

	Trend     Trend   `json:"trend"`
	TrendPct  float64 `json:"trend_pct"`
	IsAnomaly bool    `json:"is_anomaly"`

	CreatedAt time.Time `json:"created_at"`
}
