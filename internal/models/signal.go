package models

import "time"

// SentimentLabel classifies the compound sentiment score of a signal
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Signal represents one ingested text item after normalization.
// Signals are immutable once created; topics and territories are derived
// annotations written at enrichment time.
type Signal struct {
	// ID is the generated record identifier. The storage key is the
	// (tenant, exact hash) pair, which enforces per-tenant uniqueness.
	ID       string `json:"id"`
	TenantID string `json:"tenant_id" badgerhold:"index"`
	SourceID string `json:"source_id" badgerhold:"index"`

	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CapturedAt  time.Time  `json:"captured_at" badgerhold:"index"`

	Lang string `json:"lang"`

	// Hash is the exact content hash; (TenantID, Hash) is unique per tenant
	// and enforced by the storage insert key.
	Hash string `json:"hash" badgerhold:"index"`

	// Simhash is the 64-bit near-duplicate fingerprint, 16-char lowercase hex.
	Simhash string `json:"simhash"`

	SentimentScore float64        `json:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label"`
}

// SignalTopic is one topic bucket assigned to a signal at enrichment time.
type SignalTopic struct {
	ID       string  `json:"id" badgerhold:"key"`
	SignalID string  `json:"signal_id" badgerhold:"index"`
	Topic    string  `json:"topic" badgerhold:"index"`
	Score    float64 `json:"score"`
	Method   string  `json:"method"`
}

// SignalTerritory records one resolved territory for a signal together with
// the full resolution trace used for audit and explainability.
type SignalTerritory struct {
	ID       string `json:"id" badgerhold:"key"`
	SignalID string `json:"signal_id" badgerhold:"index"`
	TenantID string `json:"tenant_id" badgerhold:"index"`

	Territory  string  `json:"territory" badgerhold:"index"`
	Level      string  `json:"level"`
	Confidence float64 `json:"confidence"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Resolution trace
	DetectedToponym      string             `json:"detected_toponym"`
	ToponymPosition      int                `json:"toponym_position"`
	ToponymContext       string             `json:"toponym_context"`
	ScoringBreakdown     map[string]float64 `json:"scoring_breakdown"`
	MappingMethod        string             `json:"mapping_method"`
	DisambiguationReason string             `json:"disambiguation_reason"`
	DetectionMethod      string             `json:"detection_method"`

	MatchedAt time.Time `json:"matched_at"`

	CapturedAt time.Time `json:"captured_at" badgerhold:"index"`
}

// FeedItem is one already-normalized item handed to the ingest pipeline by
// the external fetcher collaborator. Text is HTML-stripped and length-capped
// before it reaches the core.
type FeedItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Hash        string     `json:"content_hash"`
}
