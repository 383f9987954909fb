package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SnapshotStorage implements the SnapshotStorage interface for Badger.
// Snapshots are append-only: there is no update or delete path.
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SnapshotStorage) Insert(ctx context.Context, snap *models.RiskSnapshot) error {
	if err := s.db.Store().Insert(snap.ID, snap); err != nil {
		return fmt.Errorf("failed to insert risk snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) Since(ctx context.Context, tenantID string, since time.Time) ([]models.RiskSnapshot, error) {
	var snaps []models.RiskSnapshot
	query := badgerhold.Where("TenantID").Eq(tenantID).And("PeriodEnd").Ge(since)
	if err := s.db.Store().Find(&snaps, query); err != nil {
		return nil, fmt.Errorf("failed to get snapshots since %s: %w", since.Format(time.RFC3339), err)
	}
	return snaps, nil
}

func (s *SnapshotStorage) History(ctx context.Context, tenantID, territory string, before time.Time, limit int) ([]models.RiskSnapshot, error) {
	var snaps []models.RiskSnapshot
	query := badgerhold.Where("TenantID").Eq(tenantID).
		And("Territory").Eq(territory).
		And("PeriodEnd").Lt(before).
		SortBy("PeriodEnd").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&snaps, query); err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	return snaps, nil
}
