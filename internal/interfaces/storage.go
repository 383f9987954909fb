package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/vigia/internal/models"
)

// ErrConflict is returned when an insert collides with an existing record's
// unique key. Callers treat it as "already exists", never as a failure.
var ErrConflict = errors.New("record already exists")

// SignalStorage persists signals and their derived annotations.
type SignalStorage interface {
	// Insert stores a new signal keyed by (tenant, exact hash).
	// Returns ErrConflict when an identical item was already ingested.
	Insert(ctx context.Context, sig *models.Signal) error

	// Recent returns the most recent signals for a tenant, newest first,
	// bounded by limit. This is the near-duplicate comparison window.
	Recent(ctx context.Context, tenantID string, limit int) ([]models.Signal, error)

	// Since returns all signals captured at or after the given instant.
	Since(ctx context.Context, tenantID string, since time.Time) ([]models.Signal, error)

	AddTopics(ctx context.Context, topics []models.SignalTopic) error
	AddTerritories(ctx context.Context, territories []models.SignalTerritory) error

	// TopicsForSignals returns topics grouped by signal ID.
	TopicsForSignals(ctx context.Context, signalIDs []string) (map[string][]models.SignalTopic, error)

	// TerritoriesForSignals returns territory assignments grouped by signal ID.
	TerritoriesForSignals(ctx context.Context, signalIDs []string) (map[string][]models.SignalTerritory, error)

	// TerritoryMatches returns territory assignments for one territory name
	// with confidence above minConfidence, newest first, bounded by limit.
	TerritoryMatches(ctx context.Context, tenantID, territory string, minConfidence float64, limit int) ([]models.SignalTerritory, error)

	// ByIDs loads signals by ID; missing IDs are silently skipped.
	ByIDs(ctx context.Context, ids []string) ([]models.Signal, error)
}

// TerritoryStorage reads and seeds the gazetteer catalog.
type TerritoryStorage interface {
	Enabled(ctx context.Context, tenantID string) ([]models.Territory, error)
	ByID(ctx context.Context, id string) (*models.Territory, error)
	Upsert(ctx context.Context, terr *models.Territory) error
	Count(ctx context.Context, tenantID string) (int, error)
}

// SourceStorage reads and seeds feed sources.
type SourceStorage interface {
	Enabled(ctx context.Context, tenantID string) ([]models.Source, error)
	All(ctx context.Context, tenantID string) ([]models.Source, error)
	ByID(ctx context.Context, id string) (*models.Source, error)
	Upsert(ctx context.Context, src *models.Source) error
	Count(ctx context.Context, tenantID string) (int, error)
}

// SnapshotStorage persists the append-only risk snapshot time series.
type SnapshotStorage interface {
	Insert(ctx context.Context, snap *models.RiskSnapshot) error

	// Since returns snapshots whose window ended at or after the given time.
	Since(ctx context.Context, tenantID string, since time.Time) ([]models.RiskSnapshot, error)

	// History returns prior snapshots for one territory created before the
	// given instant, newest first, bounded by limit.
	History(ctx context.Context, tenantID, territory string, before time.Time, limit int) ([]models.RiskSnapshot, error)
}

// AlertStorage persists alert rules and events.
type AlertStorage interface {
	// InsertEvent stores a new alert event keyed by its dedup key.
	// Returns ErrConflict when an equivalent alert already exists for the
	// same (tenant, rule, territory, hour) bucket.
	InsertEvent(ctx context.Context, ev *models.AlertEvent) error

	EnabledRules(ctx context.Context, tenantID string) ([]models.AlertRule, error)
	UpsertRule(ctx context.Context, rule *models.AlertRule) error
	RuleCount(ctx context.Context, tenantID string) (int, error)
}

// StorageManager aggregates the per-record storages behind one connection.
type StorageManager interface {
	Signals() SignalStorage
	Territories() TerritoryStorage
	Sources() SourceStorage
	Snapshots() SnapshotStorage
	Alerts() AlertStorage
	Close() error
}
