package agent

// Budget-constrained greedy selection over ranked listings.
//
// The pass is strictly sequential: budget consumption and dedup mutation
// are order-dependent, so the ranked order decides which items win. A
// listing that exceeds the remaining budget is skipped WITHOUT ending the
// scan: a cheaper item further down can still be accepted. This is a
// greedy best-first fit, not a knapsack optimizer.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/ports"
)

// Bucket names used by the agent's persistence collaborator.
const (
	BucketListings     = "flipper-listings"
	BucketTransactions = "flipper-transactions"
	BucketInventory    = "flipper-inventory"
)

const resaleMarkup = 1.3 // fallback when an item carries no resale estimate

// DecidePurchases walks the ranked listings and selects the purchase set.
// Accepted items keep their rank order. The state is mutated in place:
// accepted ids join the purchased set so no later pass can buy them again.
// Returns ErrMalformedListing (wrapped) if an input fails structural
// validation; business-logic skips never produce errors.
func DecidePurchases(state *State, ranked []domain.EvaluatedListing, budget float64) ([]domain.EvaluatedListing, []domain.Decision, error) {
	var (
		purchases []domain.EvaluatedListing
		decisions []domain.Decision
		remaining = budget
	)

	for _, item := range ranked {
		if err := item.Validate(); err != nil {
			return nil, nil, fmt.Errorf("agent.DecidePurchases: %w", err)
		}

		if state.Purchased(item.ID) {
			continue
		}
		if !item.IsUndervalued {
			continue
		}
		if item.Price > remaining {
			slog.Debug("skipping item over remaining budget",
				"id", item.ID,
				"price", item.Price,
				"remaining", remaining,
			)
			continue
		}

		purchases = append(purchases, item)
		state.MarkPurchased(item.ID)
		remaining -= item.Price

		decisions = append(decisions, domain.Decision{
			Action:          "BUY",
			ItemID:          item.ID,
			Title:           item.Title,
			Price:           item.Price,
			Score:           item.Score,
			ProfitPotential: item.ProfitPotential,
			Reasoning:       item.Reasoning,
			Timestamp:       time.Now().UTC(),
		})

		slog.Info("purchase decision",
			"id", item.ID,
			"title", item.Title,
			"price", item.Price,
			"expected_profit", item.ProfitPotential,
			"remaining_budget", remaining,
		)
	}

	return purchases, decisions, nil
}

// ExecutePurchases writes an inventory record and a purchase transaction
// for every accepted item. Best-effort: a persistence failure on one item
// is logged and counted, never aborts the rest. Returns the invested
// total (items whose inventory write succeeded) and the failure count.
func ExecutePurchases(ctx context.Context, store ports.BucketStore, items []domain.EvaluatedListing) (invested float64, failed int) {
	for _, item := range items {
		now := time.Now().UTC()

		inv := domain.InventoryRecord{
			EvaluatedListing: item,
			PurchasedAt:      now,
			Status:           "purchased",
		}
		if err := store.Put(ctx, BucketInventory, item.ID, inv); err != nil {
			slog.Warn("inventory write failed", "id", item.ID, "err", err)
			failed++
			continue
		}

		txn := domain.TransactionRecord{
			Type:      "purchase",
			ItemID:    item.ID,
			Amount:    item.Price,
			Timestamp: now,
		}
		txnKey := fmt.Sprintf("buy_%s_%d", item.ID, now.Unix())
		if err := store.Put(ctx, BucketTransactions, txnKey, txn); err != nil {
			// Inventory already holds the item; only the ledger entry is lost.
			slog.Warn("transaction write failed", "id", item.ID, "err", err)
			failed++
		}

		invested += item.Price
	}
	return invested, failed
}

// RelistItems marks purchased items for resale at their estimated resale
// price (price*1.3 when no estimate exists). Idempotent per id: items
// already in the listed set are skipped. Returns how many items were newly
// listed and their combined resale value.
func RelistItems(ctx context.Context, store ports.BucketStore, state *State, items []domain.EvaluatedListing) (listed int, revenue float64) {
	for _, item := range items {
		if state.Listed(item.ID) {
			continue
		}

		resalePrice := item.EstimatedResale
		if resalePrice <= 0 {
			resalePrice = item.Price * resaleMarkup
		}

		record := domain.ResaleRecord{
			EvaluatedListing: item,
			ResalePrice:      resalePrice,
			ListedAt:         time.Now().UTC(),
			Status:           "listed",
		}
		if err := store.Put(ctx, BucketListings, "resale_"+item.ID, record); err != nil {
			slog.Warn("resale write failed", "id", item.ID, "err", err)
			continue
		}

		state.MarkListed(item.ID)
		listed++
		revenue += resalePrice

		slog.Info("item relisted",
			"id", item.ID,
			"original_price", item.Price,
			"resale_price", resalePrice,
		)
	}
	return listed, revenue
}
