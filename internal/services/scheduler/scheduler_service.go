// Package scheduler drives the three batch entry points — ingest, risk
// aggregation, alert evaluation — on independent cron schedules per tenant.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
)

// TenantJob is one batch entry point: it processes a tenant and returns how
// many records it created.
type TenantJob func(ctx context.Context, tenantID string) (int, error)

// jobEntry tracks one registered (job, tenant) pair. The mutex serializes
// runs of the same pair; a run that is still going when the next tick fires
// causes that tick to be skipped, not queued.
type jobEntry struct {
	name     string
	tenantID string
	schedule string
	run      TenantJob

	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastError string
}

// Service owns the cron runner and the registered jobs.
type Service struct {
	cron    *cron.Cron
	config  *common.SchedulerConfig
	logger  arbor.ILogger
	entries []*jobEntry
	running bool
}

// NewService creates a scheduler wired to the three batch entry points for
// every configured tenant.
func NewService(cfg *common.SchedulerConfig, ingest, aggregate, alerts TenantJob, logger arbor.ILogger) *Service {
	s := &Service{
		cron:   cron.New(),
		config: cfg,
		logger: logger,
	}

	for _, tenantID := range cfg.Tenants {
		s.entries = append(s.entries,
			&jobEntry{name: "ingest", tenantID: tenantID, schedule: cfg.IngestSchedule, run: ingest},
			&jobEntry{name: "aggregate_risk", tenantID: tenantID, schedule: cfg.RiskSchedule, run: aggregate},
			&jobEntry{name: "evaluate_alerts", tenantID: tenantID, schedule: cfg.AlertsSchedule, run: alerts},
		)
	}

	return s
}

// Start registers all jobs with the cron runner and begins scheduling.
// With RunOnStartup set, every job fires once immediately in registration
// order before the schedules take over.
func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	for _, entry := range s.entries {
		entry := entry
		if _, err := s.cron.AddFunc(entry.schedule, func() { s.execute(ctx, entry) }); err != nil {
			return fmt.Errorf("failed to register %s job for tenant %s: %w", entry.name, entry.tenantID, err)
		}
		s.logger.Info().
			Str("job", entry.name).
			Str("tenant_id", entry.tenantID).
			Str("schedule", entry.schedule).
			Msg("Scheduled job registered")
	}

	s.cron.Start()
	s.running = true

	if s.config.RunOnStartup {
		go func() {
			for _, entry := range s.entries {
				s.execute(ctx, entry)
			}
		}()
	}

	return nil
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

// execute runs one job, skipping the tick when the previous run of the same
// (job, tenant) pair is still in flight.
func (s *Service) execute(ctx context.Context, entry *jobEntry) {
	entry.mu.Lock()
	if entry.isRunning {
		entry.mu.Unlock()
		s.logger.Warn().
			Str("job", entry.name).
			Str("tenant_id", entry.tenantID).
			Msg("Previous run still in progress, skipping tick")
		return
	}
	entry.isRunning = true
	entry.mu.Unlock()

	defer func() {
		entry.mu.Lock()
		entry.isRunning = false
		entry.mu.Unlock()
	}()

	start := time.Now()
	created, err := entry.run(ctx, entry.tenantID)

	entry.mu.Lock()
	entry.lastRun = start
	if err != nil {
		entry.lastError = err.Error()
	} else {
		entry.lastError = ""
	}
	entry.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("job", entry.name).
			Str("tenant_id", entry.tenantID).
			Msg("Scheduled job failed")
		return
	}

	s.logger.Info().
		Str("job", entry.name).
		Str("tenant_id", entry.tenantID).
		Int("created", created).
		Dur("duration", time.Since(start)).
		Msg("Scheduled job completed")
}
