// Package ingest runs the intake pipeline: fetch items per source, drop
// exact and near duplicates, enrich with sentiment and topics, resolve
// territories, persist. Runs are idempotent at the row level; the exact-hash
// storage key and the near-duplicate window provide the only coordination
// between overlapping schedules.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
	"github.com/ternarybob/vigia/internal/services/dedup"
	"github.com/ternarybob/vigia/internal/services/geo"
	"github.com/ternarybob/vigia/internal/services/sentiment"
	"github.com/ternarybob/vigia/internal/services/topics"
)

// Pipeline ingests and enriches items for a tenant. Runs for the same tenant
// are serialized so the near-duplicate window stays meaningful; different
// tenants may run concurrently.
type Pipeline struct {
	storage    interfaces.StorageManager
	fetcher    interfaces.ItemFetcher
	resolver   *geo.Resolver
	classifier *topics.Classifier

	dedupThreshold int
	recentWindow   int

	logger arbor.ILogger

	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex
}

// NewPipeline assembles the ingest pipeline. fetcher may be nil; runs then
// log a warning and insert nothing.
func NewPipeline(storage interfaces.StorageManager, fetcher interfaces.ItemFetcher, resolver *geo.Resolver, classifier *topics.Classifier, cfg *common.DedupConfig, logger arbor.ILogger) *Pipeline {
	return &Pipeline{
		storage:        storage,
		fetcher:        fetcher,
		resolver:       resolver,
		classifier:     classifier,
		dedupThreshold: cfg.Threshold,
		recentWindow:   cfg.RecentWindow,
		logger:         logger,
		tenantLocks:    make(map[string]*sync.Mutex),
	}
}

func (p *Pipeline) tenantLock(tenantID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.tenantLocks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		p.tenantLocks[tenantID] = lock
	}
	return lock
}

// Run ingests all enabled sources for one tenant and returns the number of
// signals inserted. Duplicates, gate rejections and enrichment degradations
// never fail the run.
func (p *Pipeline) Run(ctx context.Context, tenantID string) (int, error) {
	lock := p.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	if p.fetcher == nil {
		p.logger.Warn().Str("tenant_id", tenantID).Msg("No item fetcher configured, skipping ingest run")
		return 0, nil
	}

	sources, err := p.storage.Sources().Enabled(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to load enabled sources: %w", err)
	}

	// One comparison window per run, extended in memory as items land so
	// items within the same run also dedupe against each other.
	recent, err := p.storage.Signals().Recent(ctx, tenantID, p.recentWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent signals: %w", err)
	}
	fingerprints := make([]string, 0, len(recent)+16)
	for _, sig := range recent {
		fingerprints = append(fingerprints, sig.Simhash)
	}

	inserted := 0
	for i := range sources {
		src := &sources[i]

		items, err := p.fetcher.Fetch(ctx, src)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("source", src.Name).
				Msg("Source fetch failed, continuing with next source")
			continue
		}

		for _, item := range items {
			ok, fingerprint := p.ingestItem(ctx, tenantID, src, item, fingerprints)
			if ok {
				inserted++
				fingerprints = append(fingerprints, fingerprint)
			}
		}
	}

	p.logger.Info().
		Str("tenant_id", tenantID).
		Int("sources", len(sources)).
		Int("inserted", inserted).
		Msg("Ingest run completed")

	return inserted, nil
}

// ingestItem processes one fetched item. Returns whether a signal was
// inserted and its fingerprint.
func (p *Pipeline) ingestItem(ctx context.Context, tenantID string, src *models.Source, item models.FeedItem, fingerprints []string) (bool, string) {
	text := item.Title + " " + item.Content

	fingerprint := dedup.Fingerprint(text)
	if dedup.AnyNearDuplicate(fingerprint, fingerprints, p.dedupThreshold) {
		p.logger.Debug().
			Str("title", item.Title).
			Msg("Near-duplicate item skipped")
		return false, fingerprint
	}

	polarity := sentiment.Analyze(text)

	sig := &models.Signal{
		ID:             common.NewSignalID(),
		TenantID:       tenantID,
		SourceID:       src.ID,
		Title:          item.Title,
		URL:            item.URL,
		Content:        item.Content,
		PublishedAt:    item.PublishedAt,
		CapturedAt:     time.Now().UTC(),
		Lang:           language(src),
		Hash:           canonicalHash(item),
		Simhash:        fingerprint,
		SentimentScore: polarity.Score,
		SentimentLabel: polarity.Label,
	}

	if err := p.storage.Signals().Insert(ctx, sig); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			p.logger.Debug().
				Str("title", item.Title).
				Msg("Exact duplicate item skipped")
		} else {
			p.logger.Error().
				Err(err).
				Str("title", item.Title).
				Msg("Failed to insert signal")
		}
		return false, fingerprint
	}

	p.addTopics(ctx, sig, text)
	p.addTerritories(ctx, sig, src)

	return true, fingerprint
}

func (p *Pipeline) addTopics(ctx context.Context, sig *models.Signal, text string) {
	scores := p.classifier.Classify(text)

	annotations := make([]models.SignalTopic, 0, len(scores))
	for _, s := range scores {
		annotations = append(annotations, models.SignalTopic{
			ID:       common.NewAnnotationID(),
			SignalID: sig.ID,
			Topic:    s.Topic,
			Score:    s.Score,
			Method:   s.Method,
		})
	}

	if err := p.storage.Signals().AddTopics(ctx, annotations); err != nil {
		p.logger.Error().Err(err).Str("signal_id", sig.ID).Msg("Failed to store signal topics")
	}
}

func (p *Pipeline) addTerritories(ctx context.Context, sig *models.Signal, src *models.Source) {
	matches := p.resolver.Geoparse(ctx, sig.Title, sig.Content, sig.URL, src.Region)
	if len(matches) == 0 {
		return
	}

	annotations := make([]models.SignalTerritory, 0, len(matches))
	for _, m := range matches {
		annotations = append(annotations, models.SignalTerritory{
			ID:                   common.NewAnnotationID(),
			SignalID:             sig.ID,
			TenantID:             sig.TenantID,
			Territory:            m.TerritoryName,
			Level:                string(m.Level),
			Confidence:           m.Confidence,
			Latitude:             m.Latitude,
			Longitude:            m.Longitude,
			DetectedToponym:      m.DetectedToponym,
			ToponymPosition:      m.ToponymPosition,
			ToponymContext:       m.ToponymContext,
			ScoringBreakdown:     m.ScoringBreakdown,
			MappingMethod:        m.MappingMethod,
			DisambiguationReason: m.DisambiguationReason,
			DetectionMethod:      m.DetectionMethod,
			MatchedAt:            m.MatchedAt,
			CapturedAt:           sig.CapturedAt,
		})
	}

	if err := p.storage.Signals().AddTerritories(ctx, annotations); err != nil {
		p.logger.Error().Err(err).Str("signal_id", sig.ID).Msg("Failed to store signal territories")
	}
}

// canonicalHash returns the item's content hash, or derives one from the
// lowered title and URL when the fetcher supplied none.
func canonicalHash(item models.FeedItem) string {
	if item.Hash != "" {
		return item.Hash
	}
	sum := sha256.Sum256([]byte(strings.ToLower(item.Title) + "|" + strings.ToLower(item.URL)))
	return hex.EncodeToString(sum[:])
}

func language(src *models.Source) string {
	if src.Language != "" {
		return src.Language
	}
	return "es"
}
