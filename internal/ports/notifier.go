package ports

import (
	"context"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

// Notifier presents cycle results to the user.
type Notifier interface {
	// TopOpportunities shows the best-ranked evaluated listings.
	TopOpportunities(ctx context.Context, evaluated []domain.EvaluatedListing) error

	// CycleReport shows the decisions and statistics of a finished cycle.
	CycleReport(ctx context.Context, report domain.CycleReport) error
}
