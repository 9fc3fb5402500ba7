package domain

import "strings"

// PriceStats is the historical price data for one product category.
type PriceStats struct {
	Avg  float64 `yaml:"avg"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	MSRP float64 `yaml:"msrp"`
}

// Reference pairs a lowercase category token with its price stats.
type Reference struct {
	Token string     `yaml:"token"`
	Stats PriceStats `yaml:"stats"`
}

// ReferenceTable is an ordered sequence of references. Ordering is
// load-bearing: Lookup takes the FIRST token that appears in the title,
// so "macbook" must come before "laptop" to win for MacBook listings.
type ReferenceTable []Reference

// Lookup scans the table in order and returns the stats of the first
// reference whose token is a substring of the lowercased title.
func (t ReferenceTable) Lookup(title string) (PriceStats, bool) {
	lower := strings.ToLower(title)
	for _, ref := range t {
		if strings.Contains(lower, ref.Token) {
			return ref.Stats, true
		}
	}
	return PriceStats{}, false
}

// DefaultReferences returns the built-in historical price table for common
// consumer electronics, in USD.
func DefaultReferences() ReferenceTable {
	return ReferenceTable{
		{Token: "iphone", Stats: PriceStats{Avg: 650, Min: 400, Max: 1200, MSRP: 999}},
		{Token: "macbook", Stats: PriceStats{Avg: 900, Min: 600, Max: 1500, MSRP: 1299}},
		{Token: "ps5", Stats: PriceStats{Avg: 450, Min: 350, Max: 600, MSRP: 499}},
		{Token: "xbox", Stats: PriceStats{Avg: 400, Min: 300, Max: 550, MSRP: 499}},
		{Token: "ipad", Stats: PriceStats{Avg: 550, Min: 300, Max: 900, MSRP: 799}},
		{Token: "laptop", Stats: PriceStats{Avg: 700, Min: 400, Max: 1200, MSRP: 999}},
		{Token: "tv", Stats: PriceStats{Avg: 400, Min: 200, Max: 800, MSRP: 599}},
		{Token: "camera", Stats: PriceStats{Avg: 500, Min: 300, Max: 900, MSRP: 799}},
		{Token: "switch", Stats: PriceStats{Avg: 275, Min: 200, Max: 350, MSRP: 299}},
		{Token: "airpods", Stats: PriceStats{Avg: 150, Min: 100, Max: 200, MSRP: 179}},
		{Token: "watch", Stats: PriceStats{Avg: 350, Min: 250, Max: 500, MSRP: 429}},
		{Token: "headphones", Stats: PriceStats{Avg: 225, Min: 150, Max: 350, MSRP: 299}},
	}
}
