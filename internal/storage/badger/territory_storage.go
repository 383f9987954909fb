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

// TerritoryStorage implements the TerritoryStorage interface for Badger
type TerritoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTerritoryStorage creates a new TerritoryStorage instance
func NewTerritoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TerritoryStorage {
	return &TerritoryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *TerritoryStorage) Enabled(ctx context.Context, tenantID string) ([]models.Territory, error) {
	var territories []models.Territory
	query := badgerhold.Where("TenantID").Eq(tenantID).And("Enabled").Eq(true)
	if err := s.db.Store().Find(&territories, query); err != nil {
		return nil, fmt.Errorf("failed to get enabled territories: %w", err)
	}
	return territories, nil
}

func (s *TerritoryStorage) ByID(ctx context.Context, id string) (*models.Territory, error) {
	var terr models.Territory
	if err := s.db.Store().Get(id, &terr); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get territory %s: %w", id, err)
	}
	return &terr, nil
}

func (s *TerritoryStorage) Upsert(ctx context.Context, terr *models.Territory) error {
	if err := s.db.Store().Upsert(terr.ID, terr); err != nil {
		return fmt.Errorf("failed to upsert territory: %w", err)
	}
	return nil
}

func (s *TerritoryStorage) Count(ctx context.Context, tenantID string) (int, error) {
	count, err := s.db.Store().Count(&models.Territory{}, badgerhold.Where("TenantID").Eq(tenantID))
	if err != nil {
		return 0, fmt.Errorf("failed to count territories: %w", err)
	}
	return int(count), nil
}
