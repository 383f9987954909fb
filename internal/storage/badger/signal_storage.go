package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SignalStorage implements the SignalStorage interface for Badger
type SignalStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSignalStorage creates a new SignalStorage instance
func NewSignalStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SignalStorage {
	return &SignalStorage{
		db:     db,
		logger: logger,
	}
}

// signalKey builds the storage key enforcing (tenant, exact hash) uniqueness.
func signalKey(tenantID, hash string) string {
	return tenantID + "|" + hash
}

func (s *SignalStorage) Insert(ctx context.Context, sig *models.Signal) error {
	key := signalKey(sig.TenantID, sig.Hash)
	if err := s.db.Store().Insert(key, sig); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return interfaces.ErrConflict
		}
		return fmt.Errorf("failed to insert signal: %w", err)
	}
	return nil
}

func (s *SignalStorage) Recent(ctx context.Context, tenantID string, limit int) ([]models.Signal, error) {
	var signals []models.Signal
	query := badgerhold.Where("TenantID").Eq(tenantID).SortBy("CapturedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&signals, query); err != nil {
		return nil, fmt.Errorf("failed to get recent signals: %w", err)
	}
	return signals, nil
}

func (s *SignalStorage) Since(ctx context.Context, tenantID string, since time.Time) ([]models.Signal, error) {
	var signals []models.Signal
	query := badgerhold.Where("TenantID").Eq(tenantID).And("CapturedAt").Ge(since)
	if err := s.db.Store().Find(&signals, query); err != nil {
		return nil, fmt.Errorf("failed to get signals since %s: %w", since.Format(time.RFC3339), err)
	}
	return signals, nil
}

func (s *SignalStorage) AddTopics(ctx context.Context, topics []models.SignalTopic) error {
	for i := range topics {
		if err := s.db.Store().Insert(topics[i].ID, &topics[i]); err != nil {
			return fmt.Errorf("failed to insert signal topic: %w", err)
		}
	}
	return nil
}

func (s *SignalStorage) AddTerritories(ctx context.Context, territories []models.SignalTerritory) error {
	for i := range territories {
		if err := s.db.Store().Insert(territories[i].ID, &territories[i]); err != nil {
			return fmt.Errorf("failed to insert signal territory: %w", err)
		}
	}
	return nil
}

func (s *SignalStorage) TopicsForSignals(ctx context.Context, signalIDs []string) (map[string][]models.SignalTopic, error) {
	if len(signalIDs) == 0 {
		return map[string][]models.SignalTopic{}, nil
	}
	var topics []models.SignalTopic
	if err := s.db.Store().Find(&topics, badgerhold.Where("SignalID").In(toInterfaces(signalIDs)...)); err != nil {
		return nil, fmt.Errorf("failed to get topics for signals: %w", err)
	}
	grouped := make(map[string][]models.SignalTopic, len(signalIDs))
	for _, t := range topics {
		grouped[t.SignalID] = append(grouped[t.SignalID], t)
	}
	return grouped, nil
}

func (s *SignalStorage) TerritoriesForSignals(ctx context.Context, signalIDs []string) (map[string][]models.SignalTerritory, error) {
	if len(signalIDs) == 0 {
		return map[string][]models.SignalTerritory{}, nil
	}
	var territories []models.SignalTerritory
	if err := s.db.Store().Find(&territories, badgerhold.Where("SignalID").In(toInterfaces(signalIDs)...)); err != nil {
		return nil, fmt.Errorf("failed to get territories for signals: %w", err)
	}
	grouped := make(map[string][]models.SignalTerritory, len(signalIDs))
	for _, t := range territories {
		grouped[t.SignalID] = append(grouped[t.SignalID], t)
	}
	return grouped, nil
}

func (s *SignalStorage) TerritoryMatches(ctx context.Context, tenantID, territory string, minConfidence float64, limit int) ([]models.SignalTerritory, error) {
	var matches []models.SignalTerritory
	query := badgerhold.Where("TenantID").Eq(tenantID).
		And("Territory").Eq(territory).
		And("Confidence").Gt(minConfidence).
		SortBy("CapturedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Store().Find(&matches, query); err != nil {
		return nil, fmt.Errorf("failed to get territory matches: %w", err)
	}
	return matches, nil
}

func (s *SignalStorage) ByIDs(ctx context.Context, ids []string) ([]models.Signal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var signals []models.Signal
	if err := s.db.Store().Find(&signals, badgerhold.Where("ID").In(toInterfaces(ids)...)); err != nil {
		return nil, fmt.Errorf("failed to get signals by IDs: %w", err)
	}
	return signals, nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
