package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const topOpportunities = 5

// Console implements ports.Notifier on stdout.
type Console struct {
	out io.Writer
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// TopOpportunities prints the best-ranked listings as a table.
func (c *Console) TopOpportunities(_ context.Context, evaluated []domain.EvaluatedListing) error {
	if len(evaluated) == 0 {
		fmt.Fprintf(c.out, "[%s] no listings evaluated\n", time.Now().Format("15:04:05"))
		return nil
	}

	top := evaluated
	if len(top) > topOpportunities {
		top = evaluated[:topOpportunities]
	}

	undervalued := 0
	for _, item := range evaluated {
		if item.IsUndervalued {
			undervalued++
		}
	}

	fmt.Fprintf(c.out, "\n[%s] %d listings evaluated, %d undervalued, top %d:\n",
		time.Now().Format("15:04:05"), len(evaluated), undervalued, len(top))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Score", "Title", "Price", "Est. Resale", "Profit", "Margin", "Market", "Buy?")

	for i, item := range top {
		buy := ""
		if item.IsUndervalued {
			buy = "YES"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1f", item.Score),
			truncate(item.Title, 40),
			fmt.Sprintf("$%.2f", item.Price),
			fmt.Sprintf("$%.2f", item.EstimatedResale),
			fmt.Sprintf("$%.2f", item.ProfitPotential),
			fmt.Sprintf("%.0f%%", item.ProfitMargin*100),
			item.Marketplace,
			buy,
		)
	}
	table.Render()

	for _, item := range top {
		if item.IsUndervalued {
			fmt.Fprintf(c.out, "  %s → %s\n", truncate(item.Title, 40), item.Reasoning)
		}
	}
	return nil
}

// CycleReport prints the decision log and cycle statistics.
func (c *Console) CycleReport(_ context.Context, report domain.CycleReport) error {
	fmt.Fprintf(c.out, "\n=== CYCLE %s (%s) ===\n",
		shortID(report.CycleID), report.StartedAt.Format("2006-01-02 15:04:05"))

	if len(report.Decisions) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("Action", "Item", "Price", "Score", "Expected Profit")
		for _, d := range report.Decisions {
			table.Append(
				d.Action,
				truncate(d.Title, 40),
				fmt.Sprintf("$%.2f", d.Price),
				fmt.Sprintf("%.1f", d.Score),
				fmt.Sprintf("$%.2f", d.ProfitPotential),
			)
		}
		table.Render()
	}

	fmt.Fprintf(c.out, "  Listings scanned:   %d\n", report.ListingsScanned)
	fmt.Fprintf(c.out, "  Items purchased:    %d\n", report.ItemsPurchased)
	fmt.Fprintf(c.out, "  Items relisted:     %d\n", report.ItemsListed)
	fmt.Fprintf(c.out, "  Total invested:     $%.2f\n", report.TotalInvested)
	fmt.Fprintf(c.out, "  Potential revenue:  $%.2f\n", report.PotentialRevenue)
	fmt.Fprintf(c.out, "  Expected profit:    $%.2f (ROI %.1f%%)\n",
		report.ExpectedProfit(), report.ExpectedROI())
	fmt.Fprintf(c.out, "  Duration:           %s\n\n", report.Duration.Round(time.Millisecond))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
