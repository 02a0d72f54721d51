package ports

import (
	"context"

	"github.com/driftgate/driftgate/internal/core/domain"
)

// AttributeChecker compares a desired entry against its live resource
// and reports advisory skew findings for the record's warning section.
type AttributeChecker interface {
	Kind() domain.ResourceKind
	Check(ctx context.Context, desired domain.DesiredService, live *domain.LiveService, activeRevisions int) []domain.Warning
}
