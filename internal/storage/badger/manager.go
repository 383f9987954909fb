package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	signals     interfaces.SignalStorage
	territories interfaces.TerritoryStorage
	sources     interfaces.SourceStorage
	snapshots   interfaces.SnapshotStorage
	alerts      interfaces.AlertStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:          db,
		signals:     NewSignalStorage(db, logger),
		territories: NewTerritoryStorage(db, logger),
		sources:     NewSourceStorage(db, logger),
		snapshots:   NewSnapshotStorage(db, logger),
		alerts:      NewAlertStorage(db, logger),
		logger:      logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// Signals returns the Signal storage interface
func (m *Manager) Signals() interfaces.SignalStorage {
	return m.signals
}

// Territories returns the Territory storage interface
func (m *Manager) Territories() interfaces.TerritoryStorage {
	return m.territories
}

// Sources returns the Source storage interface
func (m *Manager) Sources() interfaces.SourceStorage {
	return m.sources
}

// Snapshots returns the RiskSnapshot storage interface
func (m *Manager) Snapshots() interfaces.SnapshotStorage {
	return m.snapshots
}

// Alerts returns the Alert storage interface
func (m *Manager) Alerts() interfaces.AlertStorage {
	return m.alerts
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
