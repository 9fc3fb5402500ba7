package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory BucketStore with per-bucket failure injection.
type fakeStore struct {
	data        map[string]map[string][]byte // bucket → key → payload
	failBuckets map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:        make(map[string]map[string][]byte),
		failBuckets: make(map[string]bool),
	}
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, record any) error {
	if f.failBuckets[bucket] {
		return errors.New("injected failure")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if f.data[bucket] == nil {
		f.data[bucket] = make(map[string][]byte)
	}
	f.data[bucket][key] = payload
	return nil
}

func (f *fakeStore) Get(_ context.Context, bucket, key string, out any) (bool, error) {
	payload, ok := f.data[bucket][key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, out)
}

func (f *fakeStore) ListKeys(_ context.Context, bucket string) ([]string, error) {
	var keys []string
	for k := range f.data[bucket] {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeStore) Delete(_ context.Context, bucket, key string) error {
	delete(f.data[bucket], key)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func undervaluedItem(id string, price float64) domain.EvaluatedListing {
	return domain.EvaluatedListing{
		Listing: domain.Listing{ID: id, Title: "iPhone " + id, Price: price},
		Evaluation: domain.Evaluation{
			Score:           90,
			EstimatedResale: price * 2,
			ProfitPotential: price,
			ProfitMargin:    1.0,
			IsUndervalued:   true,
			Reasoning:       "Price is significantly below historical average",
		},
	}
}

// --- DecidePurchases ---

func TestDecidePurchases_BudgetSkipDoesNotEndScan(t *testing.T) {
	// budget 100, ranked [80, 50]: first accepted, second over budget;
	// then [80, 50, 15]: the cheaper third item is still selected
	state := NewState()
	purchases, decisions, err := DecidePurchases(state, []domain.EvaluatedListing{
		undervaluedItem("a", 80),
		undervaluedItem("b", 50),
		undervaluedItem("c", 15),
	}, 100)
	require.NoError(t, err)

	require.Len(t, purchases, 2)
	assert.Equal(t, "a", purchases[0].ID)
	assert.Equal(t, "c", purchases[1].ID)
	assert.Len(t, decisions, 2)
}

func TestDecidePurchases_TwoItemsOneBudget(t *testing.T) {
	// budget 100, items [80, 50]: only the first fits
	state := NewState()
	purchases, _, err := DecidePurchases(state, []domain.EvaluatedListing{
		undervaluedItem("a", 80),
		undervaluedItem("b", 50),
	}, 100)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "a", purchases[0].ID)
}

func TestDecidePurchases_RespectsBudgetInvariant(t *testing.T) {
	state := NewState()
	var ranked []domain.EvaluatedListing
	for i := 0; i < 20; i++ {
		ranked = append(ranked, undervaluedItem(fmt.Sprintf("i%d", i), float64(50+i*13)))
	}

	const budget = 400.0
	purchases, _, err := DecidePurchases(state, ranked, budget)
	require.NoError(t, err)

	var total float64
	for _, p := range purchases {
		total += p.Price
	}
	assert.LessOrEqual(t, total, budget)
}

func TestDecidePurchases_SkipsNotUndervalued(t *testing.T) {
	item := undervaluedItem("a", 50)
	item.IsUndervalued = false

	purchases, decisions, err := DecidePurchases(NewState(), []domain.EvaluatedListing{item}, 1000)
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.Empty(t, decisions)
}

func TestDecidePurchases_DedupAcrossPasses(t *testing.T) {
	state := NewState()
	ranked := []domain.EvaluatedListing{undervaluedItem("a", 50)}

	purchases, _, err := DecidePurchases(state, ranked, 1000)
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	// second pass with a fresh budget must not re-buy the same id
	purchases, _, err = DecidePurchases(state, ranked, 1000)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestDecidePurchases_MalformedInputFailsFast(t *testing.T) {
	bad := undervaluedItem("", 50) // empty id is structural, not a skip
	_, _, err := DecidePurchases(NewState(), []domain.EvaluatedListing{bad}, 1000)
	assert.ErrorIs(t, err, domain.ErrMalformedListing)
}

func TestDecidePurchases_DecisionFields(t *testing.T) {
	_, decisions, err := DecidePurchases(NewState(), []domain.EvaluatedListing{
		undervaluedItem("a", 80),
	}, 100)
	require.NoError(t, err)
	require.Len(t, decisions, 1)

	d := decisions[0]
	assert.Equal(t, "BUY", d.Action)
	assert.Equal(t, "a", d.ItemID)
	assert.Equal(t, 80.0, d.Price)
	assert.Equal(t, 90.0, d.Score)
	assert.False(t, d.Timestamp.IsZero())
}

// --- ExecutePurchases ---

func TestExecutePurchases_WritesInventoryAndTransactions(t *testing.T) {
	store := newFakeStore()
	items := []domain.EvaluatedListing{
		undervaluedItem("a", 80),
		undervaluedItem("b", 50),
	}

	invested, failed := ExecutePurchases(context.Background(), store, items)
	assert.Equal(t, 130.0, invested)
	assert.Zero(t, failed)

	var inv domain.InventoryRecord
	found, err := store.Get(context.Background(), BucketInventory, "a", &inv)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "purchased", inv.Status)
	assert.False(t, inv.PurchasedAt.IsZero())

	keys, err := store.ListKeys(context.Background(), BucketTransactions)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "buy_"))
	}
}

func TestExecutePurchases_BestEffortOnFailure(t *testing.T) {
	store := newFakeStore()
	store.failBuckets[BucketInventory] = true

	invested, failed := ExecutePurchases(context.Background(), store, []domain.EvaluatedListing{
		undervaluedItem("a", 80),
		undervaluedItem("b", 50),
	})

	// both items fail but the batch still runs to completion
	assert.Equal(t, 0.0, invested)
	assert.Equal(t, 2, failed)
}

// --- RelistItems ---

func TestRelistItems_WritesResaleRecords(t *testing.T) {
	store := newFakeStore()
	state := NewState()

	listed, revenue := RelistItems(context.Background(), store, state, []domain.EvaluatedListing{
		undervaluedItem("a", 100), // resale = 200
	})
	assert.Equal(t, 1, listed)
	assert.Equal(t, 200.0, revenue)

	var record domain.ResaleRecord
	found, err := store.Get(context.Background(), BucketListings, "resale_a", &record)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "listed", record.Status)
	assert.Equal(t, 200.0, record.ResalePrice)
}

func TestRelistItems_Idempotent(t *testing.T) {
	store := newFakeStore()
	state := NewState()
	items := []domain.EvaluatedListing{undervaluedItem("a", 100)}

	listed, revenue := RelistItems(context.Background(), store, state, items)
	assert.Equal(t, 1, listed)
	assert.Equal(t, 200.0, revenue)

	// second call: same id is a no-op
	listed, revenue = RelistItems(context.Background(), store, state, items)
	assert.Zero(t, listed)
	assert.Zero(t, revenue)
}

func TestRelistItems_MarkupFallbackWithoutEstimate(t *testing.T) {
	store := newFakeStore()
	item := undervaluedItem("a", 100)
	item.EstimatedResale = 0

	_, revenue := RelistItems(context.Background(), store, NewState(), []domain.EvaluatedListing{item})
	assert.InDelta(t, 130.0, revenue, 0.001)
}

func TestRelistItems_FailedWriteRetriesNextCall(t *testing.T) {
	store := newFakeStore()
	store.failBuckets[BucketListings] = true
	state := NewState()
	items := []domain.EvaluatedListing{undervaluedItem("a", 100)}

	listed, _ := RelistItems(context.Background(), store, state, items)
	assert.Zero(t, listed)
	assert.False(t, state.Listed("a"))

	// store recovers: the item is not stuck as listed
	store.failBuckets[BucketListings] = false
	listed, _ = RelistItems(context.Background(), store, state, items)
	assert.Equal(t, 1, listed)
}
