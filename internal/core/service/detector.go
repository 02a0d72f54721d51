package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/naming"
)

// Classify maps one desired entry plus its observation to a drift record.
// It is a total function over the observation's presence, so every key
// always lands in exactly one class.
func Classify(svc domain.DesiredService, obs domain.Observation) domain.DriftRecord {
	record := domain.DriftRecord{
		Key:          svc.Key,
		StateID:      obs.StateID,
		LiveID:       obs.LiveID,
		StateAddress: naming.AddressFor(svc),
		Outcome:      domain.OutcomeNone,
	}

	if obs.Degraded {
		record.Class = domain.ClassMissingEverywhere
		record.Detail = "observation degraded after retries; treated as missing, no corrective action"
		record.Action = domain.ActionNone
		return record
	}

	switch obs.Presence() {
	case domain.PresenceUnknown:
		record.Class = domain.ClassMissingEverywhere
		record.Detail = "no state entry and no live resource"
	case domain.PresenceStateOnly:
		record.Class = domain.ClassMissingEverywhere
		record.Detail = fmt.Sprintf("state entry %s has no live backing", obs.StateID)
	case domain.PresenceLiveOnly:
		record.Class = domain.ClassOrphanedLive
		record.Detail = fmt.Sprintf("live resource %s is not tracked by the state store", obs.LiveID)
	case domain.PresenceBoth:
		if obs.IdentitiesAgree() {
			record.Class = domain.ClassInSync
		} else {
			record.Class = domain.ClassIdentityMismatch
			record.Detail = fmt.Sprintf("state tracks %s but the live resource is %s", obs.StateID, obs.LiveID)
		}
	}

	record.Action = ActionFor(record.Class)
	return record
}

// Conflict groups the keys that contend for one unshareable slot, either
// a platform name or a routing priority.
type Conflict struct {
	Keys   []domain.ServiceKey
	Reason string
}

// NamingCollisions finds desired keys whose sanitized platform names
// coincide. Runs before any lookup since it needs only the desired set.
func NamingCollisions(set *domain.DesiredSet) []Conflict {
	byName := make(map[string][]domain.ServiceKey)
	for _, key := range set.Keys() {
		name := naming.ForKey(key)
		byName[name] = append(byName[name], key)
	}

	names := make([]string, 0, len(byName))
	for name, keys := range byName {
		if len(keys) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	conflicts := make([]Conflict, 0, len(names))
	for _, name := range names {
		keys := byName[name]
		conflicts = append(conflicts, Conflict{
			Keys:   keys,
			Reason: fmt.Sprintf("platform name %q is claimed by %s", name, renderKeys(keys)),
		})
	}
	return conflicts
}

// PriorityCollisions finds routing priorities claimed more than once,
// either by two desired keys or by a desired key against a live rule the
// key does not own. A live rule whose target group carries the claiming
// key's own sanitized name is that key's rule, not a collision.
func PriorityCollisions(set *domain.DesiredSet, liveRules []domain.LiveRule) []Conflict {
	claims := make(map[int][]domain.ServiceKey)
	for _, svc := range set.Services() {
		if svc.Routing == nil {
			continue
		}
		claims[svc.Routing.Priority] = append(claims[svc.Routing.Priority], svc.Key)
	}

	priorities := make([]int, 0, len(claims))
	for p := range claims {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	var conflicts []Conflict
	for _, priority := range priorities {
		keys := claims[priority]

		var foreign []domain.LiveRule
		for _, rule := range liveRules {
			if rule.IsDefault || rule.Priority != priority {
				continue
			}
			if !ownedByAny(keys, rule.TargetGroupName) {
				foreign = append(foreign, rule)
			}
		}

		switch {
		case len(keys) > 1 && len(foreign) > 0:
			conflicts = append(conflicts, Conflict{
				Keys: keys,
				Reason: fmt.Sprintf("routing priority %d is claimed by %s and already held by live rule %s",
					priority, renderKeys(keys), foreign[0].ID),
			})
		case len(keys) > 1:
			conflicts = append(conflicts, Conflict{
				Keys:   keys,
				Reason: fmt.Sprintf("routing priority %d is claimed by %s", priority, renderKeys(keys)),
			})
		case len(foreign) > 0:
			conflicts = append(conflicts, Conflict{
				Keys: keys,
				Reason: fmt.Sprintf("routing priority %d is already held by live rule %s (target group %q)",
					priority, foreign[0].ID, foreign[0].TargetGroupName),
			})
		}
	}
	return conflicts
}

func ownedByAny(keys []domain.ServiceKey, targetGroupName string) bool {
	for _, key := range keys {
		if naming.ForKey(key) == targetGroupName {
			return true
		}
	}
	return false
}

// ApplyConflicts upgrades the affected records to the conflict class.
// The upgrade only ever raises severity; a record that is already an
// unresolvable conflict accumulates the extra reason instead.
func ApplyConflicts(records map[domain.ServiceKey]*domain.DriftRecord, conflicts []Conflict) {
	for _, conflict := range conflicts {
		for _, key := range conflict.Keys {
			record, ok := records[key]
			if !ok {
				continue
			}
			if record.Class == domain.ClassUnresolvableConflict {
				record.Detail = record.Detail + "; " + conflict.Reason
				record.ConflictKeys = mergeKeys(record.ConflictKeys, conflict.Keys)
				continue
			}
			record.Class = domain.ClassUnresolvableConflict
			record.Action = domain.ActionNone
			record.Outcome = domain.OutcomeNone
			record.Detail = conflict.Reason
			record.ConflictKeys = append([]domain.ServiceKey(nil), conflict.Keys...)
		}
	}
}

func renderKeys(keys []domain.ServiceKey) string {
	rendered := make([]string, len(keys))
	for i, key := range keys {
		rendered[i] = key.String()
	}
	return strings.Join(rendered, ", ")
}

func mergeKeys(existing, extra []domain.ServiceKey) []domain.ServiceKey {
	seen := make(map[domain.ServiceKey]struct{}, len(existing))
	merged := append([]domain.ServiceKey(nil), existing...)
	for _, key := range existing {
		seen[key] = struct{}{}
	}
	for _, key := range extra {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, key)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Less(merged[j]) })
	return merged
}
