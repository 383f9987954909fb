package interfaces

import (
	"context"

	"github.com/ternarybob/vigia/internal/models"
)

// ItemFetcher is the external collaborator that retrieves and normalizes
// feed items. Network retrieval, HTML cleanup and length capping all happen
// on its side; the pipeline receives ready-to-ingest items.
type ItemFetcher interface {
	Fetch(ctx context.Context, src *models.Source) ([]models.FeedItem, error)
}
