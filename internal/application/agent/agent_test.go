package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asSources(srcs ...ports.ListingSource) []ports.ListingSource { return srcs }

// fakeSource serves a fixed batch; optionally fails.
type fakeSource struct {
	name  string
	batch domain.FetchBatch
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, maxResults int) (domain.FetchBatch, error) {
	if f.err != nil {
		return domain.FetchBatch{Marketplace: f.name}, f.err
	}
	batch := f.batch
	if len(batch.Listings) > maxResults {
		batch.Listings = batch.Listings[:maxResults]
	}
	return batch, nil
}

// silentNotifier records calls without output.
type silentNotifier struct {
	topCalls    int
	reportCalls int
	lastReport  domain.CycleReport
}

func (n *silentNotifier) TopOpportunities(_ context.Context, _ []domain.EvaluatedListing) error {
	n.topCalls++
	return nil
}

func (n *silentNotifier) CycleReport(_ context.Context, report domain.CycleReport) error {
	n.reportCalls++
	n.lastReport = report
	return nil
}

func sourceWith(name string, listings ...domain.Listing) *fakeSource {
	return &fakeSource{name: name, batch: domain.FetchBatch{Marketplace: name, Listings: listings}}
}

func listing(id, title string, price float64) domain.Listing {
	return domain.Listing{ID: id, Title: title, Price: price, Marketplace: "test"}
}

func TestAgent_RunCycle_FullFlow(t *testing.T) {
	store := newFakeStore()
	notifier := &silentNotifier{}

	src := sourceWith("test",
		listing("deal", "iPhone 13", 300),      // undervalued: score 90, profit 350
		listing("meh", "iPhone 13", 640),       // close to average, not undervalued
		listing("junk", "mystery box", 10),     // no historical data
	)

	a := New(Config{Budget: 5000}, asSources(src), store, notifier, nil)

	report, err := a.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.ListingsScanned)
	assert.Equal(t, 1, report.ItemsPurchased)
	assert.Equal(t, 1, report.ItemsListed)
	assert.Equal(t, 300.0, report.TotalInvested)
	assert.Equal(t, 650.0, report.PotentialRevenue)
	assert.NotEmpty(t, report.CycleID)
	assert.Equal(t, 1, notifier.topCalls)
	assert.Equal(t, 1, notifier.reportCalls)
	assert.Equal(t, report.CycleID, notifier.lastReport.CycleID)

	// side effects landed in all three buckets
	var inv domain.InventoryRecord
	found, err := store.Get(context.Background(), BucketInventory, "deal", &inv)
	require.NoError(t, err)
	assert.True(t, found)

	var raw domain.Listing
	found, err = store.Get(context.Background(), BucketListings, "junk", &raw)
	require.NoError(t, err)
	assert.True(t, found, "raw listings are archived even when worthless")

	txns, err := store.ListKeys(context.Background(), BucketTransactions)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestAgent_RunCycle_NoListings(t *testing.T) {
	notifier := &silentNotifier{}
	a := New(Config{Budget: 5000}, nil, newFakeStore(), notifier, nil)

	report, err := a.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ListingsScanned)
	assert.Zero(t, report.ItemsPurchased)
	assert.Zero(t, notifier.topCalls, "nothing to show")
}

func TestAgent_RunCycle_FailingSourceDegradesToZero(t *testing.T) {
	notifier := &silentNotifier{}
	bad := &fakeSource{name: "down", err: fmt.Errorf("connection refused")}
	good := sourceWith("up", listing("deal", "iPhone 13", 300))

	a := New(Config{Budget: 5000}, asSources(bad, good), newFakeStore(), notifier, nil)

	report, err := a.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingsScanned)
	assert.Equal(t, 1, report.ItemsPurchased)
}

func TestAgent_RunCycle_DedupAcrossCycles(t *testing.T) {
	store := newFakeStore()
	notifier := &silentNotifier{}
	src := sourceWith("test", listing("deal", "iPhone 13", 300))

	a := New(Config{Budget: 5000}, asSources(src), store, notifier, nil)

	report, err := a.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ItemsPurchased)

	// same listing reappears next cycle: not purchased again
	report, err = a.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ItemsPurchased)
	assert.Zero(t, report.TotalInvested)
}

func TestAgent_WarmState_SurvivesRestart(t *testing.T) {
	store := newFakeStore()
	src := sourceWith("test", listing("deal", "iPhone 13", 300))

	first := New(Config{Budget: 5000}, asSources(src), store, &silentNotifier{}, nil)
	report, err := first.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.ItemsPurchased)

	// a fresh agent over the same store must not re-buy or re-list
	second := New(Config{Budget: 5000}, asSources(src), store, &silentNotifier{}, nil)
	require.NoError(t, second.WarmState(context.Background()))

	report, err = second.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ItemsPurchased)
	assert.Zero(t, report.ItemsListed)
}

func TestAgent_RunCycle_BudgetLimitsPurchases(t *testing.T) {
	src := sourceWith("test",
		listing("a", "iPhone 13", 300),
		listing("b", "ps5 console", 300),
		listing("c", "macbook air", 500),
	)

	a := New(Config{Budget: 600}, asSources(src), newFakeStore(), &silentNotifier{}, nil)

	report, err := a.RunCycle(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, report.TotalInvested, 600.0)
}

// --- evaluateConcurrent ---

func TestEvaluateConcurrent_MatchesSequential(t *testing.T) {
	var listings []domain.Listing
	for i := 0; i < 50; i++ {
		listings = append(listings, domain.Listing{
			ID:    fmt.Sprintf("l%d", i),
			Title: "iPhone 13",
			Price: 200 + float64(i*11),
		})
	}

	refs := domain.DefaultReferences()
	sequential := domain.BatchEvaluate(listings, refs)

	for _, workers := range []int{1, 4, 16} {
		concurrent := evaluateConcurrent(listings, refs, workers)
		assert.Equal(t, sequential, concurrent, "workers=%d", workers)
	}
}

func TestEvaluateConcurrent_DeterministicAcrossRuns(t *testing.T) {
	var listings []domain.Listing
	for i := 0; i < 30; i++ {
		// every listing scores identically: ordering must still be stable
		listings = append(listings, domain.Listing{
			ID:    fmt.Sprintf("tie%d", i),
			Title: "ps5 console",
			Price: 250,
		})
	}

	refs := domain.DefaultReferences()
	first := evaluateConcurrent(listings, refs, 8)
	for run := 0; run < 5; run++ {
		assert.Equal(t, first, evaluateConcurrent(listings, refs, 8))
	}
	for i, item := range first {
		assert.Equal(t, fmt.Sprintf("tie%d", i), item.ID)
	}
}
