package models

import "time"

// AlertStatus tracks the operator-facing lifecycle of an alert event.
// The core only ever creates events with StatusNew; acknowledgement and
// closing happen through the external management surface.
type AlertStatus string

const (
	AlertStatusNew          AlertStatus = "new"
	AlertStatusAcknowledged AlertStatus = "acked"
	AlertStatusClosed       AlertStatus = "closed"
)

// AlertRule is a tenant-scoped filter over risk snapshots.
type AlertRule struct {
	ID       string `json:"id" badgerhold:"key"`
	TenantID string `json:"tenant_id" badgerhold:"index"`

	Name string `json:"name" validate:"required"`

	// TerritoryFilter and TopicFilter are case-insensitive substring matches;
	// empty matches everything.
	TerritoryFilter string `json:"territory_filter"`
	TopicFilter     string `json:"topic_filter"`

	MinProb       float64 `json:"min_prob" validate:"gte=0,lte=1"`
	MinConfidence float64 `json:"min_confidence" validate:"gte=0,lte=1"`

	Enabled bool `json:"enabled"`
}

// EvidenceSignal is one supporting signal attached to an alert event.
type EvidenceSignal struct {
	SignalID    string     `json:"signal_id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Territory   string     `json:"territory"`
	Confidence  float64    `json:"confidence"`
	Sentiment   string     `json:"sentiment"`
}

// AlertEvent is one raised alert. At most one event exists per
// (tenant, rule, territory, hour bucket); the uniqueness of the storage
// insert key is the dedup mechanism.
type AlertEvent struct {
	// DedupKey is tenant|rule|territory|YYYY-MM-DDTHH and doubles as the
	// storage key enforcing hour-bucket uniqueness.
	DedupKey string `json:"dedup_key" badgerhold:"key"`

	ID       string `json:"id"`
	TenantID string `json:"tenant_id" badgerhold:"index"`
	RuleID   string `json:"rule_id" badgerhold:"index"`

	TriggeredAt time.Time `json:"triggered_at"`
	Territory   string    `json:"territory" badgerhold:"index"`

	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`

	Explanation string `json:"explanation"`

	// Summary is the optional AI-generated short summary; empty when the
	// text-generation service is absent or failed.
	Summary string `json:"summary,omitempty"`

	Evidence []EvidenceSignal `json:"evidence"`

	Status AlertStatus `json:"status"`
}

// NotificationPayload is the JSON-shaped payload handed to the external
// notification collaborator when an alert fires.
type NotificationPayload struct {
	TenantID        string           `json:"tenant"`
	Rule            string           `json:"rule"`
	Territory       string           `json:"territory"`
	Probability     float64          `json:"probability"`
	Confidence      float64          `json:"confidence"`
	Trend           Trend            `json:"trend"`
	TrendPct        float64          `json:"trend_pct"`
	IsAnomaly       bool             `json:"is_anomaly"`
	Drivers         SnapshotDrivers  `json:"drivers"`
	EvidenceSignals []EvidenceSignal `json:"evidence_signals"`
	TriggeredAt     time.Time        `json:"triggered_at"`
}
