package service

import (
	"context"
	"fmt"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	apperrors "github.com/driftgate/driftgate/internal/errors"
)

// Corrector executes the prescribed corrective action for one record and
// verifies convergence afterwards. All state-store mutations go through
// here, one at a time; the live platform is never touched.
type Corrector struct {
	repo     ports.StateRepository
	observer ports.Observer
	logger   ports.Logger
	dryRun   bool
}

func NewCorrector(repo ports.StateRepository, observer ports.Observer, logger ports.Logger, dryRun bool) *Corrector {
	return &Corrector{
		repo:     repo,
		observer: observer,
		logger:   logger,
		dryRun:   dryRun,
	}
}

// Apply runs the record's action and updates its outcome in place. The
// returned error is non-nil when the action was attempted and failed;
// the record carries the failure detail either way.
func (c *Corrector) Apply(ctx context.Context, desired domain.DesiredService, record *domain.DriftRecord) error {
	if record.Action == domain.ActionNone {
		return nil
	}

	log := c.logger.WithFields(map[string]any{
		"service_key":   record.Key.String(),
		"state_address": record.StateAddress,
		"action":        string(record.Action),
	})

	if c.dryRun {
		record.Outcome = domain.OutcomeSkipped
		record.Detail = appendDetail(record.Detail, fmt.Sprintf("dry-run: would %s %s as %s",
			verb(record.Action), record.LiveID, record.StateAddress))
		log.Infof(ctx, "Dry-run, skipping corrective action")
		return nil
	}

	switch record.Action {
	case domain.ActionImport:
		if err := c.importResource(ctx, record, log); err != nil {
			return c.fail(ctx, record, log, err)
		}
		record.Outcome = domain.OutcomeImported
	case domain.ActionReimport:
		log.Infof(ctx, "Dropping stale state entry %s before re-import", record.StateID)
		if err := c.repo.Remove(ctx, record.StateAddress); err != nil {
			return c.fail(ctx, record, log, apperrors.WrapUserFacing(err, apperrors.CodeImportFailure,
				fmt.Sprintf("removing stale entry %s failed", record.StateAddress),
				"Inspect the provisioning state and re-run the gate."))
		}
		if err := c.importResource(ctx, record, log); err != nil {
			return c.fail(ctx, record, log, err)
		}
		record.Outcome = domain.OutcomeReimported
	default:
		return nil
	}

	if err := c.verifyConverged(ctx, desired, record, log); err != nil {
		return c.fail(ctx, record, log, err)
	}

	record.StateID = record.LiveID
	log.Infof(ctx, "Corrective action converged")
	return nil
}

func (c *Corrector) importResource(ctx context.Context, record *domain.DriftRecord, log ports.Logger) error {
	log.Infof(ctx, "Importing live resource %s into state", record.LiveID)
	if err := c.repo.Import(ctx, record.StateAddress, record.LiveID); err != nil {
		return apperrors.WrapUserFacing(err, apperrors.CodeImportFailure,
			fmt.Sprintf("importing %s as %s failed", record.LiveID, record.StateAddress),
			"Inspect the provisioning state and re-run the gate.")
	}
	return nil
}

// verifyConverged re-queries both sources and demands the key now
// classifies as in sync. One extra attempt absorbs read-after-write lag;
// after that the action counts as failed.
func (c *Corrector) verifyConverged(ctx context.Context, desired domain.DesiredService, record *domain.DriftRecord, log ports.Logger) error {
	const verifyAttempts = 2

	var lastClass domain.DriftClass
	for attempt := 1; attempt <= verifyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		obs, err := c.observer.Observe(ctx, desired)
		if err != nil {
			return err
		}
		check := Classify(desired, obs)
		if check.Class == domain.ClassInSync {
			return nil
		}
		lastClass = check.Class
		log.Warnf(ctx, "Convergence check %d/%d still reports %s", attempt, verifyAttempts, check.Class)
	}

	return apperrors.Newf(apperrors.CodeImportFailure,
		"state did not converge after %s: still %s", verb(record.Action), lastClass)
}

func (c *Corrector) fail(ctx context.Context, record *domain.DriftRecord, log ports.Logger, err error) error {
	record.Outcome = domain.OutcomeFailed
	record.Detail = appendDetail(record.Detail, err.Error())
	log.Errorf(ctx, err, "Corrective action failed")
	return err
}

func verb(action domain.Action) string {
	if action == domain.ActionReimport {
		return "re-import"
	}
	return "import"
}

func appendDetail(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}
