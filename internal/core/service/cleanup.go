package service

import (
	"context"
	"fmt"
	"time"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
	"github.com/driftgate/driftgate/pkg/retry"
)

// CleanupRunner removes state entries that a rolled-back apply left
// behind. Only entries that appeared since the before-snapshot AND are
// confirmed absent from the live platform are removed; everything else
// is retained for manual review. Live resources are never touched.
type CleanupRunner struct {
	repo     ports.StateRepository
	platform ports.PlatformReader
	reporter ports.Reporter
	logger   ports.Logger
	policy   retry.Policy
	dryRun   bool
}

func NewCleanupRunner(repo ports.StateRepository, platform ports.PlatformReader, reporter ports.Reporter, logger ports.Logger, policy retry.Policy, dryRun bool) (*CleanupRunner, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeConfigValidation, "state repository cannot be nil")
	}
	if platform == nil {
		return nil, errors.New(errors.CodeConfigValidation, "platform reader cannot be nil")
	}
	if reporter == nil {
		return nil, errors.New(errors.CodeConfigValidation, "reporter cannot be nil")
	}
	return &CleanupRunner{
		repo:     repo,
		platform: platform,
		reporter: reporter,
		logger:   logger,
		policy:   policy,
		dryRun:   dryRun,
	}, nil
}

func (c *CleanupRunner) Cleanup(ctx context.Context, before *domain.StateSnapshot) (*domain.CleanupReport, error) {
	report := &domain.CleanupReport{
		StartedAt: time.Now().UTC(),
		DryRun:    c.dryRun,
	}

	after, err := c.repo.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "failed listing current state")
	}

	if !after.SameLineage(before) {
		return nil, errors.New(errors.CodeConfigValidation,
			fmt.Sprintf("before-snapshot lineage %q does not match current state lineage %q; refusing to diff unrelated stores",
				before.Lineage, after.Lineage))
	}

	added := after.AddedSince(before)
	report.Candidates = len(added)
	c.logger.Infof(ctx, "Cleanup examining %d entries added since snapshot", len(added))

	for _, entry := range added {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Items = append(report.Items, c.examine(ctx, entry))
	}

	report.FinishedAt = time.Now().UTC()
	if err := c.reporter.ReportCleanup(ctx, report); err != nil {
		c.logger.Errorf(ctx, err, "failed rendering cleanup report")
	}
	return report, nil
}

func (c *CleanupRunner) examine(ctx context.Context, entry domain.StateEntry) domain.CleanupItem {
	item := domain.CleanupItem{Entry: entry}
	log := c.logger.WithFields(map[string]any{
		"address": entry.Address,
		"kind":    entry.Kind.String(),
	})

	if entry.ID == "" {
		item.Disposition = domain.CleanupRetained
		item.Reason = "no platform identity recorded; review manually"
		return item
	}
	if entry.Kind == domain.KindUnknown {
		item.Disposition = domain.CleanupRetained
		item.Reason = "unrecognized resource kind; review manually"
		return item
	}

	var absent bool
	confirmErr := retry.Do(ctx, c.policy, transientOnly, func(ctx context.Context) error {
		var err error
		absent, err = c.platform.ConfirmAbsent(ctx, entry.Kind, entry.ID)
		return err
	})
	if confirmErr != nil {
		log.Warnf(ctx, "Could not confirm absence: %v", confirmErr)
		item.Disposition = domain.CleanupRetained
		item.Reason = fmt.Sprintf("absence could not be confirmed: %v", confirmErr)
		return item
	}
	if !absent {
		item.Disposition = domain.CleanupRetained
		item.Reason = "still present on the live platform"
		return item
	}

	if c.dryRun {
		item.Disposition = domain.CleanupSkipped
		item.Reason = "dry-run: confirmed absent, would remove"
		return item
	}

	if err := c.repo.Remove(ctx, entry.Address); err != nil {
		log.Errorf(ctx, err, "Failed removing state entry")
		item.Disposition = domain.CleanupRetained
		item.Reason = fmt.Sprintf("removal failed: %v", err)
		return item
	}

	log.Infof(ctx, "Removed state entry for absent resource %s", entry.ID)
	item.Disposition = domain.CleanupRemoved
	item.Reason = "confirmed absent from the live platform"
	return item
}
