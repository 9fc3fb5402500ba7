package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

const (
	defaultEbayBase = "https://api.ebay.com"
	ebaySearchPath  = "/buy/browse/v1/item_summary/search"
)

// ebayCategories maps agent categories to eBay category ids.
var ebayCategories = map[string]string{
	"electronics": "293",   // Consumer Electronics
	"computers":   "58058", // PC Laptops & Netbooks
	"phones":      "9355",  // Cell Phones & Smartphones
}

type ebayPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type ebayItemSummary struct {
	ItemID     string    `json:"itemId"`
	Title      string    `json:"title"`
	Price      ebayPrice `json:"price"`
	ItemWebURL string    `json:"itemWebUrl"`
}

type ebaySearchResponse struct {
	ItemSummaries []ebayItemSummary `json:"itemSummaries"`
}

// Ebay fetches listings through the eBay Browse API. Requires an OAuth
// application token.
type Ebay struct {
	client   *Client
	base     string
	category string
}

// NewEbay creates an eBay source. An empty baseURL uses production.
func NewEbay(baseURL, category, token string) *Ebay {
	if baseURL == "" {
		baseURL = defaultEbayBase
	}
	return &Ebay{
		client:   NewClient(token),
		base:     baseURL,
		category: category,
	}
}

// Name implements ports.ListingSource.
func (e *Ebay) Name() string { return "ebay" }

// Fetch implements ports.ListingSource.
func (e *Ebay) Fetch(ctx context.Context, maxResults int) (domain.FetchBatch, error) {
	batch := domain.FetchBatch{Marketplace: e.Name()}

	cat, ok := ebayCategories[e.category]
	if !ok {
		cat = ebayCategories["electronics"]
	}
	searchURL := fmt.Sprintf("%s%s?category_ids=%s&sort=newlyListed&limit=%d",
		e.base, ebaySearchPath, cat, maxResults)

	var resp ebaySearchResponse
	if err := e.client.getJSON(ctx, searchURL, &resp); err != nil {
		return batch, fmt.Errorf("scrape.Ebay.Fetch: %w", err)
	}

	now := time.Now().UTC()
	for i, item := range resp.ItemSummaries {
		if len(batch.Listings) >= maxResults {
			break
		}
		listing, skip := e.mapItem(item, now)
		if skip != "" {
			batch.Skipped = append(batch.Skipped, domain.SkippedItem{Index: i, Reason: skip})
			continue
		}
		batch.Listings = append(batch.Listings, listing)
	}

	slog.Debug("ebay fetch complete",
		"listings", len(batch.Listings),
		"skipped", len(batch.Skipped),
	)
	return batch, nil
}

func (e *Ebay) mapItem(item ebayItemSummary, now time.Time) (domain.Listing, string) {
	// Placeholder rows the search API pads results with
	if item.Title == "" || strings.Contains(item.Title, "Shop on eBay") {
		return domain.Listing{}, "placeholder item"
	}
	if item.ItemID == "" {
		return domain.Listing{}, "missing item id"
	}
	if item.Price.Currency != "" && item.Price.Currency != "USD" {
		return domain.Listing{}, "unsupported currency"
	}

	price, err := parsePrice(item.Price.Value)
	if err != nil {
		return domain.Listing{}, "unparseable price"
	}

	return domain.Listing{
		ID:          "ebay_" + item.ItemID,
		Title:       item.Title,
		Price:       price,
		URL:         item.ItemWebURL,
		Marketplace: e.Name(),
		Category:    e.category,
		ScrapedAt:   now,
	}, ""
}
