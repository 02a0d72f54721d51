package app

import (
	"context"

	"github.com/driftgate/driftgate/internal/adapters/state/snapshot"
	"github.com/driftgate/driftgate/internal/config"
	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

// Application bundles the wired components behind the three CLI
// operations: the gate run, the state snapshot, and targeted cleanup.
type Application struct {
	Engine  ports.Reconciler
	Cleaner ports.Cleaner
	Repo    ports.StateRepository
	Logger  ports.Logger
	Config  *config.Config
}

// Reconcile runs the full pre-apply gate and returns the report. The
// verdict on the report decides the process exit code, not the error:
// a FAIL verdict with a clean run returns a nil error.
func (a *Application) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	a.Logger.Infof(ctx, "Starting reconciliation gate")

	report, err := a.Engine.Run(ctx)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Reconciliation run failed")
		return nil, err
	}

	a.Logger.Infof(ctx, "Reconciliation complete (verdict: %s)", report.Verdict)
	return report, nil
}

// Snapshot captures the current state-store inventory to path, for a
// later cleanup pass to diff against.
func (a *Application) Snapshot(ctx context.Context, path string) error {
	snap, err := a.Repo.Snapshot(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CodeStateReadError, "failed reading state for snapshot")
	}

	if err := snapshot.Write(path, snap); err != nil {
		return err
	}
	a.Logger.Infof(ctx, "Wrote state snapshot with %d entries to %s", len(snap.Entries), path)
	return nil
}

// Cleanup diffs the current state against the snapshot at beforePath
// and removes entries whose resources are confirmed gone from the live
// platform.
func (a *Application) Cleanup(ctx context.Context, beforePath string) (*domain.CleanupReport, error) {
	before, err := snapshot.Read(beforePath)
	if err != nil {
		return nil, err
	}
	a.Logger.Infof(ctx, "Loaded pre-apply snapshot with %d entries from %s", len(before.Entries), beforePath)

	report, err := a.Cleaner.Cleanup(ctx, before)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Targeted cleanup failed")
		return nil, err
	}
	return report, nil
}
