package ports

import (
	"context"

	"github.com/driftgate/driftgate/internal/core/domain"
)

// DesiredStateLoader parses one desired-state source into the validated
// set of service entries.
type DesiredStateLoader interface {
	Type() string
	Load(ctx context.Context) (*domain.DesiredSet, error)
}

// StateRepository is the narrow surface of the provisioning engine's
// state store: an opaque address-to-identity map with list, lookup,
// import and remove. Implementations must be safe for concurrent reads;
// mutations are serialized by the caller.
type StateRepository interface {
	Snapshot(ctx context.Context) (*domain.StateSnapshot, error)
	Lookup(ctx context.Context, address string) (id string, found bool, err error)
	Import(ctx context.Context, address, id string) error
	Remove(ctx context.Context, address string) error
}

// PlanReader exposes the engine's pending plan, when one was supplied.
type PlanReader interface {
	// ScheduledReplacements returns the addresses the pending plan will
	// destroy and recreate. An empty result means no plan was supplied
	// or nothing is replaced.
	ScheduledReplacements(ctx context.Context) ([]string, error)
}

// PlatformReader answers point lookups against the live platform.
type PlatformReader interface {
	// FindService resolves a platform-visible service name to the live
	// resource, or nil when no active service carries that name.
	FindService(ctx context.Context, name string) (*domain.LiveService, error)

	// ListenerRules lists the non-default rules of the shared listener.
	ListenerRules(ctx context.Context) ([]domain.LiveRule, error)

	// ActiveTaskRevisions counts the registered, still-active task
	// definition revisions of a family.
	ActiveTaskRevisions(ctx context.Context, family string) (int, error)

	// ConfirmAbsent reports whether the identified resource is gone from
	// the live platform. An error means absence could not be confirmed.
	ConfirmAbsent(ctx context.Context, kind domain.ResourceKind, id string) (bool, error)
}
