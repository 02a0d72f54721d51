package ports

import (
	"context"

	"github.com/driftgate/driftgate/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, report *domain.ReconciliationReport) error
	ReportCleanup(ctx context.Context, report *domain.CleanupReport) error
}
