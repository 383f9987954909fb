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

// SourceStorage implements the SourceStorage interface for Badger
type SourceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSourceStorage creates a new SourceStorage instance
func NewSourceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SourceStorage {
	return &SourceStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SourceStorage) Enabled(ctx context.Context, tenantID string) ([]models.Source, error) {
	var sources []models.Source
	query := badgerhold.Where("TenantID").Eq(tenantID).And("Enabled").Eq(true)
	if err := s.db.Store().Find(&sources, query); err != nil {
		return nil, fmt.Errorf("failed to get enabled sources: %w", err)
	}
	return sources, nil
}

func (s *SourceStorage) All(ctx context.Context, tenantID string) ([]models.Source, error) {
	var sources []models.Source
	if err := s.db.Store().Find(&sources, badgerhold.Where("TenantID").Eq(tenantID)); err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	return sources, nil
}

func (s *SourceStorage) ByID(ctx context.Context, id string) (*models.Source, error) {
	var src models.Source
	if err := s.db.Store().Get(id, &src); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get source %s: %w", id, err)
	}
	return &src, nil
}

func (s *SourceStorage) Upsert(ctx context.Context, src *models.Source) error {
	if err := s.db.Store().Upsert(src.ID, src); err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (s *SourceStorage) Count(ctx context.Context, tenantID string) (int, error) {
	count, err := s.db.Store().Count(&models.Source{}, badgerhold.Where("TenantID").Eq(tenantID))
	if err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	return int(count), nil
}
