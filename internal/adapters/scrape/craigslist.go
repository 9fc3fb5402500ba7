package scrape

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/url"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

const defaultCraigslistBase = "https://%s.craigslist.org"

// craigslistCategories maps agent categories to Craigslist search paths.
var craigslistCategories = map[string]string{
	"electronics": "ela",
	"furniture":   "fua",
	"appliances":  "ppa",
}

// clSearchItem is one row of the Craigslist search feed.
type clSearchItem struct {
	PostingID string `json:"posting_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	URL       string `json:"url"`
}

type clSearchResponse struct {
	Items []clSearchItem `json:"items"`
}

// Craigslist fetches listings from the Craigslist search feed of one city.
type Craigslist struct {
	client   *Client
	base     string
	city     string
	category string
}

// NewCraigslist creates a Craigslist source for the given city and
// category. An empty baseURL uses the city's production site.
func NewCraigslist(baseURL, city, category string) *Craigslist {
	if baseURL == "" {
		baseURL = fmt.Sprintf(defaultCraigslistBase, city)
	}
	return &Craigslist{
		client:   NewClient(""),
		base:     baseURL,
		city:     city,
		category: category,
	}
}

// Name implements ports.ListingSource.
func (c *Craigslist) Name() string { return "craigslist" }

// Fetch implements ports.ListingSource. Items that fail to parse are
// reported as skips, never silently dropped.
func (c *Craigslist) Fetch(ctx context.Context, maxResults int) (domain.FetchBatch, error) {
	batch := domain.FetchBatch{Marketplace: c.Name()}

	cat, ok := craigslistCategories[c.category]
	if !ok {
		cat = craigslistCategories["electronics"]
	}
	searchURL := fmt.Sprintf("%s/search/%s?format=json&limit=%d",
		c.base, url.PathEscape(cat), maxResults)

	var resp clSearchResponse
	if err := c.client.getJSON(ctx, searchURL, &resp); err != nil {
		return batch, fmt.Errorf("scrape.Craigslist.Fetch: %w", err)
	}

	now := time.Now().UTC()
	for i, item := range resp.Items {
		if len(batch.Listings) >= maxResults {
			break
		}
		listing, skip := c.mapItem(item, i, now)
		if skip != "" {
			batch.Skipped = append(batch.Skipped, domain.SkippedItem{Index: i, Reason: skip})
			continue
		}
		batch.Listings = append(batch.Listings, listing)
	}

	slog.Debug("craigslist fetch complete",
		"city", c.city,
		"listings", len(batch.Listings),
		"skipped", len(batch.Skipped),
	)
	return batch, nil
}

// mapItem converts one feed row to a Listing or returns a skip reason.
func (c *Craigslist) mapItem(item clSearchItem, idx int, now time.Time) (domain.Listing, string) {
	if item.Title == "" {
		return domain.Listing{}, "missing title"
	}

	price, err := parsePrice(item.Price)
	if err != nil {
		return domain.Listing{}, "unparseable price"
	}

	id := item.PostingID
	if id == "" {
		id = fmt.Sprintf("%d_%d", idx, urlHash(item.URL))
	}

	return domain.Listing{
		ID:          fmt.Sprintf("cl_%s_%s", c.city, id),
		Title:       item.Title,
		Price:       price,
		URL:         item.URL,
		Marketplace: c.Name(),
		Category:    c.category,
		ScrapedAt:   now,
	}, ""
}

// urlHash gives a stable short suffix for rows without a posting id.
func urlHash(u string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(u))
	return h.Sum32() % 10000
}
