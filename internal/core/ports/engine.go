package ports

import (
	"context"

	"github.com/driftgate/driftgate/internal/core/domain"
)

// Reconciler runs the full pre-apply gate: observe, classify, correct,
// verify, then aggregate the verdict.
type Reconciler interface {
	Run(ctx context.Context) (*domain.ReconciliationReport, error)
}

// Cleaner runs targeted cleanup against a before/after snapshot pair.
type Cleaner interface {
	Cleanup(ctx context.Context, before *domain.StateSnapshot) (*domain.CleanupReport, error)
}

// Observer queries both observed sources for one desired entry. Lookup
// failures degrade the observation instead of failing the run.
type Observer interface {
	Observe(ctx context.Context, desired domain.DesiredService) (domain.Observation, error)
}
