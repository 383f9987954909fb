package models

// Source describes one feed the ingest pipeline reads from. Sources are
// owned and edited externally; the scoring path consumes Weight,
// CredibilityScore and Official.
type Source struct {
	ID       string `json:"id" badgerhold:"key"`
	TenantID string `json:"tenant_id" badgerhold:"index"`

	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"` // rss|scrape

	Language string `json:"language"`

	// Region is the source's home region when known; it feeds the
	// source-region agreement component of territory scoring.
	Region string `json:"region,omitempty"`

	// Weight multiplies the credibility score in signal scoring (0-2 typical).
	Weight float64 `json:"weight"`

	// CredibilityScore is an independent 0..1 trust rating.
	CredibilityScore float64 `json:"credibility_score"`

	// Official marks government/institutional sources; they receive a fixed
	// boost in signal scoring.
	Official bool `json:"official"`

	Enabled bool `json:"enabled"`
}
