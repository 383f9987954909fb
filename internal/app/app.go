// Package app wires the application components together: storage, gazetteer,
// resolver, pipeline, aggregator, alert engine and scheduler.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/services/alerts"
	"github.com/ternarybob/vigia/internal/services/geo"
	"github.com/ternarybob/vigia/internal/services/ingest"
	"github.com/ternarybob/vigia/internal/services/llm"
	"github.com/ternarybob/vigia/internal/services/risk"
	"github.com/ternarybob/vigia/internal/services/scheduler"
	"github.com/ternarybob/vigia/internal/services/topics"
	badgerstore "github.com/ternarybob/vigia/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager
	LLMService     interfaces.LLMService

	Resolver   *geo.Resolver
	Pipeline   *ingest.Pipeline
	Aggregator *risk.Aggregator
	Engine     *alerts.Engine
	Scheduler  *scheduler.Service
}

// Options carries the external collaborators injected by the caller. Either
// may be nil: ingest then skips fetching, alerts then skip delivery.
type Options struct {
	Fetcher  interfaces.ItemFetcher
	Notifier interfaces.AlertNotifier
}

// New initializes the application with all dependencies. The gazetteer is
// built once per configured tenant catalog; tenants share one resolver since
// the seeded catalog is identical across them.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger, opts Options) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badgerstore.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	for _, tenantID := range cfg.Scheduler.Tenants {
		if err := badgerstore.SeedTenant(ctx, storageManager, tenantID, logger); err != nil {
			return nil, fmt.Errorf("failed to seed tenant %s: %w", tenantID, err)
		}
	}

	// The LLM service is optional: without an API key the geoparser falls
	// back to local detection and alerts carry no AI summary.
	if cfg.Claude.APIKey != "" {
		llmService, err := llm.NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
		}
		app.LLMService = llmService
	} else {
		logger.Info().Msg("No Anthropic API key configured, running with local detection only")
	}

	if err := app.initResolver(ctx); err != nil {
		return nil, err
	}

	app.Pipeline = ingest.NewPipeline(storageManager, opts.Fetcher, app.Resolver, topics.NewClassifier(), &cfg.Dedup, logger)
	app.Aggregator = risk.NewAggregator(storageManager, &cfg.Risk, logger)

	notifier := opts.Notifier
	if notifier == nil && cfg.Alerts.WebhookURL != "" {
		notifier = alerts.NewWebhookNotifier(cfg.Alerts.WebhookURL, logger)
	}
	app.Engine = alerts.NewEngine(storageManager, notifier, app.LLMService, &cfg.Alerts, logger)

	app.Scheduler = scheduler.NewService(&cfg.Scheduler, app.Pipeline.Run, app.Aggregator.Run, app.Engine.Run, logger)

	logger.Info().
		Str("country", cfg.Geo.Country).
		Int("tenants", len(cfg.Scheduler.Tenants)).
		Bool("llm_enabled", app.LLMService != nil).
		Msg("Application initialization complete")

	return app, nil
}

// initResolver builds the immutable gazetteer index and the detection chain.
func (a *App) initResolver(ctx context.Context) error {
	tenantID := "default"
	if len(a.Config.Scheduler.Tenants) > 0 {
		tenantID = a.Config.Scheduler.Tenants[0]
	}

	territories, err := a.StorageManager.Territories().Enabled(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load territory catalog: %w", err)
	}

	gazetteer := geo.BuildGazetteer(territories)
	a.Logger.Debug().
		Int("territories", len(territories)).
		Msg("Gazetteer index built")

	gate := geo.NewCountryGate(a.Config.Geo.Country, a.Config.Geo.CountryTLD, gazetteer, a.LLMService, a.Logger)

	var detectors []geo.ToponymDetector
	if a.LLMService != nil {
		detectors = append(detectors, geo.NewAIDetector(a.LLMService, a.Logger))
	}
	detectors = append(detectors,
		geo.NewNERDetector(a.Logger),
		geo.NewRegexDetector(gazetteer, a.Logger),
	)

	resolver, err := geo.NewResolver(gazetteer, gate, detectors, &a.Config.Geo, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize resolver: %w", err)
	}
	a.Resolver = resolver

	return nil
}

// Close releases application resources in reverse initialization order.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
