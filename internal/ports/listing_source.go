package ports

import (
	"context"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

// ListingSource supplies raw listings from one marketplace.
type ListingSource interface {
	// Name identifies the marketplace ("craigslist", "ebay", ...).
	Name() string

	// Fetch returns up to maxResults listings plus a report of raw items
	// that could not be parsed. May return fewer than requested.
	Fetch(ctx context.Context, maxResults int) (domain.FetchBatch, error)
}
