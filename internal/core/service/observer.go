package service

import (
	"context"
	"fmt"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/naming"
	"github.com/driftgate/driftgate/internal/core/ports"
	apperrors "github.com/driftgate/driftgate/internal/errors"
	"github.com/driftgate/driftgate/pkg/retry"
)

// StateObserver queries the state store and the live platform for one
// desired entry. Lookup failures are retried while transient and then
// degrade the observation; they never abort the run.
type StateObserver struct {
	repo     ports.StateRepository
	platform ports.PlatformReader
	logger   ports.Logger
	policy   retry.Policy
}

func NewStateObserver(repo ports.StateRepository, platform ports.PlatformReader, logger ports.Logger, policy retry.Policy) *StateObserver {
	return &StateObserver{
		repo:     repo,
		platform: platform,
		logger:   logger,
		policy:   policy,
	}
}

func transientOnly(err error) bool {
	return apperrors.GetCode(err) == apperrors.CodeTransientLookup
}

func (o *StateObserver) Observe(ctx context.Context, desired domain.DesiredService) (domain.Observation, error) {
	obs := domain.Observation{Key: desired.Key}
	address := naming.AddressFor(desired)
	name := naming.ForKey(desired.Key)

	log := o.logger.WithFields(map[string]any{
		"service_key":   desired.Key.String(),
		"state_address": address,
	})

	stateErr := retry.Do(ctx, o.policy, transientOnly, func(ctx context.Context) error {
		id, found, err := o.repo.Lookup(ctx, address)
		if err != nil {
			return err
		}
		if found {
			obs.StateID = id
		}
		return nil
	})
	if stateErr != nil {
		if ctx.Err() != nil {
			return obs, ctx.Err()
		}
		log.Warnf(ctx, "State lookup kept failing, degrading observation: %v", stateErr)
		obs.Degraded = true
		obs.Warnings = append(obs.Warnings, fmt.Sprintf("state lookup for %s failed: %v", address, stateErr))
	}

	liveErr := retry.Do(ctx, o.policy, transientOnly, func(ctx context.Context) error {
		live, err := o.platform.FindService(ctx, name)
		if err != nil {
			return err
		}
		if live != nil {
			obs.LiveID = live.ID
			obs.Live = live
		}
		return nil
	})
	if liveErr != nil {
		if ctx.Err() != nil {
			return obs, ctx.Err()
		}
		log.Warnf(ctx, "Live lookup kept failing, degrading observation: %v", liveErr)
		obs.Degraded = true
		obs.Warnings = append(obs.Warnings, fmt.Sprintf("live lookup for %q failed: %v", name, liveErr))
	}

	log.Debugf(ctx, "Observation complete: presence=%s degraded=%t", obs.Presence(), obs.Degraded)
	return obs, nil
}
