package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AlertStorage implements the AlertStorage interface for Badger
type AlertStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAlertStorage creates a new AlertStorage instance
func NewAlertStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AlertStorage {
	return &AlertStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AlertStorage) InsertEvent(ctx context.Context, ev *models.AlertEvent) error {
	// The dedup key doubles as the storage key; a collision means an
	// equivalent alert already fired in this hour bucket.
	if err := s.db.Store().Insert(ev.DedupKey, ev); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return interfaces.ErrConflict
		}
		return fmt.Errorf("failed to insert alert event: %w", err)
	}
	return nil
}

func (s *AlertStorage) EnabledRules(ctx context.Context, tenantID string) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	query := badgerhold.Where("TenantID").Eq(tenantID).And("Enabled").Eq(true)
	if err := s.db.Store().Find(&rules, query); err != nil {
		return nil, fmt.Errorf("failed to get enabled alert rules: %w", err)
	}
	return rules, nil
}

func (s *AlertStorage) UpsertRule(ctx context.Context, rule *models.AlertRule) error {
	if err := s.db.Store().Upsert(rule.ID, rule); err != nil {
		return fmt.Errorf("failed to upsert alert rule: %w", err)
	}
	return nil
}

func (s *AlertStorage) RuleCount(ctx context.Context, tenantID string) (int, error) {
	count, err := s.db.Store().Count(&models.AlertRule{}, badgerhold.Where("TenantID").Eq(tenantID))
	if err != nil {
		return 0, fmt.Errorf("failed to count alert rules: %w", err)
	}
	return int(count), nil
}
