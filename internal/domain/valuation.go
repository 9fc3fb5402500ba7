package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Scoring weights. Must sum to 1.0 so the total stays in [0, 100].
const (
	weightHistorical = 0.40
	weightMSRP       = 0.25
	weightScarcity   = 0.20
	weightRatio      = 0.15
)

// Undervaluation gates. All three must hold; they are hard thresholds,
// not blended into the score.
const (
	minUndervaluedScore = 60.0
	minProfitMargin     = 0.20
	minProfitUSD        = 50.0
)

var (
	scarcityKeywords = []string{"limited", "rare", "discontinued", "collectors"}
	demandKeywords   = []string{"pro", "max", "ultra", "premium"}
)

// ScoreBreakdown holds the four sub-scores before weighting, each in [0, 100].
type ScoreBreakdown struct {
	Historical float64 `json:"historical"`
	MSRP       float64 `json:"msrp"`
	Scarcity   float64 `json:"scarcity"`
	Ratio      float64 `json:"ratio"`
}

// Evaluation is the valuation verdict for one listing.
type Evaluation struct {
	Score           float64        `json:"score"`
	EstimatedResale float64        `json:"estimated_resale"`
	ProfitPotential float64        `json:"profit_potential"`
	ProfitMargin    float64        `json:"profit_margin"`
	IsUndervalued   bool           `json:"is_undervalued"`
	Reasoning       string         `json:"reasoning"`
	Breakdown       ScoreBreakdown `json:"scores_breakdown"`
}

// EvaluatedListing composes a listing with its evaluation. Explicit struct
// composition, no runtime field merging.
type EvaluatedListing struct {
	Listing
	Evaluation
}

// HistoricalScore scores how far the price sits below the historical
// average. 0 at or above average, 100 at a 50% discount.
func HistoricalScore(price, avg float64) float64 {
	if avg <= 0 || price >= avg {
		return 0
	}
	discount := (avg - price) / avg
	return math.Min(100, discount*200)
}

// MSRPAnchorScore scores the discount from MSRP. 0 at or above MSRP,
// 100 at a two-thirds discount.
func MSRPAnchorScore(price, msrp float64) float64 {
	if msrp <= 0 || price >= msrp {
		return 0
	}
	discount := (msrp - price) / msrp
	return math.Min(100, discount*150)
}

// ScarcityScore scores scarcity and demand signals in the title.
// Baseline 50, +20 per scarcity keyword, +10 per demand keyword,
// clamped to 100. Keywords stack before the clamp.
func ScarcityScore(title string) float64 {
	lower := strings.ToLower(title)

	score := 50.0
	for _, kw := range scarcityKeywords {
		if strings.Contains(lower, kw) {
			score += 20
		}
	}
	for _, kw := range demandKeywords {
		if strings.Contains(lower, kw) {
			score += 10
		}
	}
	return math.Min(100, score)
}

// PriceRatioScore scores the price-to-average ratio linearly:
// 100 at ratio <= 0.5, 0 at ratio >= 1.0.
func PriceRatioScore(price, avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	ratio := price / avg
	switch {
	case ratio >= 1.0:
		return 0
	case ratio <= 0.5:
		return 100
	default:
		return (1.0 - ratio) * 200
	}
}

// Evaluate scores a single listing against the reference table. Pure: same
// inputs always produce the same Evaluation, and it never fails: invalid
// prices and unknown categories yield a no-value result.
func Evaluate(l Listing, refs ReferenceTable) Evaluation {
	if l.Price <= 0 {
		return noValue("Invalid price")
	}

	stats, ok := refs.Lookup(l.Title)
	if !ok {
		return noValue("No historical data available")
	}

	breakdown := ScoreBreakdown{
		Historical: HistoricalScore(l.Price, stats.Avg),
		MSRP:       MSRPAnchorScore(l.Price, stats.MSRP),
		Scarcity:   ScarcityScore(l.Title),
		Ratio:      PriceRatioScore(l.Price, stats.Avg),
	}

	total := breakdown.Historical*weightHistorical +
		breakdown.MSRP*weightMSRP +
		breakdown.Scarcity*weightScarcity +
		breakdown.Ratio*weightRatio

	// Conservative resale estimate: the historical average.
	resale := stats.Avg
	profit := resale - l.Price
	margin := profit / l.Price

	undervalued := total >= minUndervaluedScore &&
		margin >= minProfitMargin &&
		profit > minProfitUSD

	return Evaluation{
		Score:           round2(total),
		EstimatedResale: round2(resale),
		ProfitPotential: round2(profit),
		ProfitMargin:    margin,
		IsUndervalued:   undervalued,
		Reasoning:       reasoning(breakdown, margin),
		Breakdown:       breakdown,
	}
}

// BatchEvaluate evaluates every listing and returns the results sorted by
// score descending. The sort is stable: ties keep input order, which the
// allocator depends on.
func BatchEvaluate(listings []Listing, refs ReferenceTable) []EvaluatedListing {
	results := make([]EvaluatedListing, len(listings))
	for i, l := range listings {
		results[i] = EvaluatedListing{Listing: l, Evaluation: Evaluate(l, refs)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// reasoning assembles the explanation clauses in fixed order.
func reasoning(b ScoreBreakdown, margin float64) string {
	var reasons []string

	if b.Historical > 60 {
		reasons = append(reasons, "Price is significantly below historical average")
	}
	if b.MSRP > 60 {
		reasons = append(reasons, "Deep discount from MSRP")
	}
	if b.Scarcity > 70 {
		reasons = append(reasons, "High demand or scarcity indicators")
	}
	if margin >= 0.30 {
		reasons = append(reasons, fmt.Sprintf("Excellent profit margin (%.0f%%)", margin*100))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Price is close to market average")
	}
	return strings.Join(reasons, "; ")
}

func noValue(reason string) Evaluation {
	return Evaluation{Reasoning: reason}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
