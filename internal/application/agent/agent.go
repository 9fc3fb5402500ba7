package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/ports"
	"github.com/google/uuid"
)

// Config controls the agent's cycle behavior.
type Config struct {
	Budget           float64       // purchase budget per allocation pass
	MaxPerSource     int           // listings fetched per marketplace per cycle
	CycleInterval    time.Duration // time between cycles in loop mode
	ValuationWorkers int           // goroutines for parallel valuation (0 = NumCPU*2)
	Once             bool          // run a single cycle and stop
}

// Agent runs the flip cycle: scan → evaluate → decide → execute → relist.
type Agent struct {
	cfg      Config
	sources  []ports.ListingSource
	store    ports.BucketStore // nil in dry runs: no side effects recorded
	notifier ports.Notifier
	refs     domain.ReferenceTable
	state    *State
}

// New creates an Agent. A nil refs table falls back to the built-in
// historical references.
func New(cfg Config, sources []ports.ListingSource, store ports.BucketStore, notifier ports.Notifier, refs domain.ReferenceTable) *Agent {
	if refs == nil {
		refs = domain.DefaultReferences()
	}
	if cfg.MaxPerSource <= 0 {
		cfg.MaxPerSource = 20
	}
	return &Agent{
		cfg:      cfg,
		sources:  sources,
		store:    store,
		notifier: notifier,
		refs:     refs,
		state:    NewState(),
	}
}

// WarmState preloads the dedup sets from storage so a restarted process
// cannot re-buy items already in inventory or relist items already listed.
// No-op without a store.
func (a *Agent) WarmState(ctx context.Context) error {
	if a.store == nil {
		return nil
	}

	inventory, err := a.store.ListKeys(ctx, BucketInventory)
	if err != nil {
		return err
	}
	for _, id := range inventory {
		a.state.MarkPurchased(id)
	}

	listings, err := a.store.ListKeys(ctx, BucketListings)
	if err != nil {
		return err
	}
	relisted := 0
	for _, key := range listings {
		if id, ok := strings.CutPrefix(key, "resale_"); ok {
			a.state.MarkListed(id)
			relisted++
		}
	}

	slog.Info("state warmed from storage",
		"purchased", len(inventory),
		"listed", relisted,
	)
	return nil
}

// Run executes cycles until the context is cancelled. With cfg.Once it
// runs exactly one cycle.
func (a *Agent) Run(ctx context.Context) error {
	slog.Info("agent starting",
		"budget", a.cfg.Budget,
		"sources", len(a.sources),
		"interval", a.cfg.CycleInterval,
		"once", a.cfg.Once,
	)

	if _, err := a.RunCycle(ctx); err != nil {
		slog.Error("cycle failed", "err", err)
		if a.cfg.Once {
			return err
		}
	}

	if a.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(a.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("agent stopped")
			return nil
		case <-ticker.C:
			if _, err := a.RunCycle(ctx); err != nil {
				slog.Error("cycle failed", "err", err)
			}
		}
	}
}

// RunCycle executes one full flip cycle and returns its report.
func (a *Agent) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	start := time.Now()
	report := domain.CycleReport{
		CycleID:   uuid.New().String(),
		StartedAt: start.UTC(),
	}

	listings := a.scan(ctx)
	report.ListingsScanned = len(listings)

	if len(listings) == 0 {
		slog.Warn("no listings found, ending cycle", "cycle", report.CycleID)
		report.Duration = time.Since(start)
		return report, nil
	}

	evaluated := evaluateConcurrent(listings, a.refs, a.cfg.ValuationWorkers)
	if err := a.notifier.TopOpportunities(ctx, evaluated); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	purchases, decisions, err := DecidePurchases(a.state, evaluated, a.cfg.Budget)
	if err != nil {
		return report, err
	}
	report.Decisions = decisions
	report.ItemsPurchased = len(purchases)

	if len(purchases) > 0 && a.store != nil {
		invested, failed := ExecutePurchases(ctx, a.store, purchases)
		report.TotalInvested = invested
		if failed > 0 {
			slog.Warn("some purchase records were not persisted", "failed", failed)
		}

		listed, revenue := RelistItems(ctx, a.store, a.state, purchases)
		report.ItemsListed = listed
		report.PotentialRevenue = revenue
	}

	report.Duration = time.Since(start)
	if err := a.notifier.CycleReport(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("cycle complete",
		"cycle", report.CycleID,
		"scanned", report.ListingsScanned,
		"purchased", report.ItemsPurchased,
		"listed", report.ItemsListed,
		"invested", report.TotalInvested,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

// scan fetches listings from every source. A failing source degrades to
// zero listings from that marketplace; raw listings are archived to the
// listings bucket best-effort.
func (a *Agent) scan(ctx context.Context) []domain.Listing {
	var all []domain.Listing

	for _, src := range a.sources {
		batch, err := src.Fetch(ctx, a.cfg.MaxPerSource)
		if err != nil {
			slog.Warn("source fetch failed", "source", src.Name(), "err", err)
			continue
		}

		if len(batch.Skipped) > 0 {
			slog.Info("source skipped unparseable items",
				"source", src.Name(),
				"skipped", len(batch.Skipped),
			)
		}

		if a.store != nil {
			for _, l := range batch.Listings {
				if err := a.store.Put(ctx, BucketListings, l.ID, l); err != nil {
					slog.Warn("listing archive failed", "id", l.ID, "err", err)
				}
			}
		}

		slog.Info("source scanned",
			"source", src.Name(),
			"listings", len(batch.Listings),
		)
		all = append(all, batch.Listings...)
	}
	return all
}
