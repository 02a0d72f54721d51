package terraform

import (
	"context"
	"fmt"
	"sync"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

// Repository implements the state-store port over the engine CLI. Show
// output is cached per run and invalidated on every mutation, so a
// post-import verification re-reads the store instead of the stale
// cache.
type Repository struct {
	cli    engineCLI
	logger ports.Logger

	mu     sync.Mutex
	cached *domain.StateSnapshot
}

func NewRepository(cli engineCLI, logger ports.Logger) (*Repository, error) {
	if cli == nil {
		return nil, errors.New(errors.CodeConfigValidation, "engine CLI cannot be nil")
	}
	return &Repository{cli: cli, logger: logger}, nil
}

func (r *Repository) Snapshot(ctx context.Context) (*domain.StateSnapshot, error) {
	snapshot, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	// Copy so callers can hold the snapshot across later mutations.
	out := domain.NewStateSnapshot()
	out.TakenAt = snapshot.TakenAt
	out.Serial = snapshot.Serial
	out.Lineage = snapshot.Lineage
	for _, entry := range snapshot.Entries {
		out.Add(entry)
	}
	return out, nil
}

func (r *Repository) Lookup(ctx context.Context, address string) (string, bool, error) {
	snapshot, err := r.load(ctx)
	if err != nil {
		return "", false, err
	}
	entry, found := snapshot.Entries[address]
	if !found {
		return "", false, nil
	}
	return entry.ID, true, nil
}

func (r *Repository) Import(ctx context.Context, address, id string) error {
	r.logger.Infof(ctx, "Importing %s as %s into engine state", id, address)
	if err := r.cli.Import(ctx, address, id); err != nil {
		return errors.Wrap(err, errors.CodeStateReadError,
			fmt.Sprintf("engine import of %s failed", address))
	}
	r.invalidate()
	return nil
}

func (r *Repository) Remove(ctx context.Context, address string) error {
	r.logger.Infof(ctx, "Removing %s from engine state", address)
	if err := r.cli.StateRm(ctx, address); err != nil {
		return errors.Wrap(err, errors.CodeStateReadError,
			fmt.Sprintf("engine state removal of %s failed", address))
	}
	r.invalidate()
	return nil
}

func (r *Repository) load(ctx context.Context) (*domain.StateSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return r.cached, nil
	}

	state, err := r.cli.Show(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "engine state show failed")
	}

	snapshot := mapStateToSnapshot(state)
	r.logger.Debugf(ctx, "Engine state loaded: %d tracked resources", snapshot.Len())
	r.cached = snapshot
	return snapshot, nil
}

func (r *Repository) invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}
