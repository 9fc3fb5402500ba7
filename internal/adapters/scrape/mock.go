package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

// mockProduct is one template the mock marketplace draws from.
type mockProduct struct {
	name     string
	minPrice float64
	maxPrice float64
}

var mockProducts = []mockProduct{
	{"iPhone 12 Pro Max 128GB", 400, 900},
	{"Sony PS5 Console", 350, 550},
	{"MacBook Air M1", 600, 1200},
	{"Samsung 55\" 4K TV", 200, 600},
	{"iPad Pro 11 inch", 300, 800},
	{"Dell XPS 13 Laptop", 400, 900},
	{"Canon EOS Camera", 300, 700},
	{"Nintendo Switch OLED", 200, 350},
	{"AirPods Pro 2nd Gen", 100, 200},
	{"Samsung Galaxy S23", 400, 800},
	{"HP Gaming Laptop", 500, 1000},
	{"Bose QuietComfort Headphones", 150, 300},
	{"Apple Watch Series 8", 250, 450},
	{"Fitbit Charge 5", 80, 150},
	{"Ring Video Doorbell", 80, 150},
}

const mockMaxPerFetch = 30

// Mock generates marketplace listings from a seeded RNG. Facebook
// Marketplace sits behind authentication and anti-bot measures, so it is
// served by this generator; the same source backs dry runs and tests.
type Mock struct {
	name     string
	location string
	category string
	rng      *rand.Rand
}

// NewMock creates a deterministic mock source. The same seed always
// produces the same sequence of batches.
func NewMock(name, location, category string, seed int64) *Mock {
	if name == "" {
		name = "facebook"
	}
	return &Mock{
		name:     name,
		location: location,
		category: category,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Name implements ports.ListingSource.
func (m *Mock) Name() string { return m.name }

// Fetch implements ports.ListingSource. Never fails and never skips.
func (m *Mock) Fetch(_ context.Context, maxResults int) (domain.FetchBatch, error) {
	batch := domain.FetchBatch{Marketplace: m.name}

	n := maxResults
	if n > mockMaxPerFetch {
		n = mockMaxPerFetch
	}

	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		p := mockProducts[m.rng.Intn(len(mockProducts))]
		price := p.minPrice + m.rng.Float64()*(p.maxPrice-p.minPrice)

		batch.Listings = append(batch.Listings, domain.Listing{
			ID:          fmt.Sprintf("%s_%s_%d_%d", shortName(m.name), m.location, i, m.rng.Intn(9000)+1000),
			Title:       p.name + " - Great Condition",
			Price:       float64(int(price*100)) / 100,
			URL:         fmt.Sprintf("https://%s.com/marketplace/item/%d", m.name, m.rng.Intn(900000000)+100000000),
			Marketplace: m.name,
			Category:    m.category,
			ScrapedAt:   now,
		})
	}
	return batch, nil
}

func shortName(name string) string {
	if len(name) > 2 {
		return strings.ToLower(name[:2])
	}
	return name
}
