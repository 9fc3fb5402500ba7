package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedListing marks listings that fail structural validation.
// Distinct from business-logic skips: a malformed listing is a bug in the
// source adapter, not an expected steady-state condition.
var ErrMalformedListing = errors.New("malformed listing")

// Listing is a single marketplace offer as delivered by a source adapter.
// The core only interprets ID, Title and Price; everything else is
// passthrough metadata.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	URL         string    `json:"url"`
	Marketplace string    `json:"marketplace"`
	Category    string    `json:"category"`
	ScrapedAt   time.Time `json:"timestamp"`
}

// Validate checks the structural requirements the allocator depends on.
// A price of zero or below is not a structural error: the valuation model
// handles it as a no-value result.
func (l Listing) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedListing)
	}
	if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
		return fmt.Errorf("%w: non-finite price for %q", ErrMalformedListing, l.ID)
	}
	return nil
}

// SkippedItem records one raw item a source adapter could not turn into a
// Listing, with the reason it was dropped.
type SkippedItem struct {
	Index  int
	Reason string
}

// FetchBatch is the result of one fetch against a marketplace: the listings
// that parsed cleanly plus an explicit report of what was skipped and why.
type FetchBatch struct {
	Marketplace string
	Listings    []Listing
	Skipped     []SkippedItem
}

// Decision is one BUY entry in the allocation log.
type Decision struct {
	Action          string    `json:"action"`
	ItemID          string    `json:"item_id"`
	Title           string    `json:"title"`
	Price           float64   `json:"price"`
	Score           float64   `json:"score"`
	ProfitPotential float64   `json:"profit_potential"`
	Reasoning       string    `json:"reasoning"`
	Timestamp       time.Time `json:"timestamp"`
}
