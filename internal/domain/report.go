package domain

import "time"

// InventoryRecord is what the agent stores per purchased item.
type InventoryRecord struct {
	EvaluatedListing
	PurchasedAt time.Time `json:"purchase_date"`
	Status      string    `json:"status"`
}

// TransactionRecord is the ledger entry for a purchase.
type TransactionRecord struct {
	Type      string    `json:"type"`
	ItemID    string    `json:"item_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// ResaleRecord is the relisting written back to the listings collection.
type ResaleRecord struct {
	EvaluatedListing
	ResalePrice float64   `json:"resale_price"`
	ListedAt    time.Time `json:"listed_date"`
	Status      string    `json:"status"`
}

// CycleReport summarizes one full agent cycle.
type CycleReport struct {
	CycleID          string
	StartedAt        time.Time
	Duration         time.Duration
	ListingsScanned  int
	ItemsPurchased   int
	ItemsListed      int
	TotalInvested    float64
	PotentialRevenue float64
	Decisions        []Decision
}

// ExpectedProfit is potential revenue minus invested capital.
func (r CycleReport) ExpectedProfit() float64 {
	return r.PotentialRevenue - r.TotalInvested
}

// ExpectedROI is the expected profit as a percentage of invested capital.
// Returns 0 when nothing was invested.
func (r CycleReport) ExpectedROI() float64 {
	if r.TotalInvested <= 0 {
		return 0
	}
	return r.ExpectedProfit() / r.TotalInvested * 100
}
