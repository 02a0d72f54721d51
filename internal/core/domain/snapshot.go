package domain

import (
	"sort"
	"time"
)

// StateEntry is one resource as the provisioning engine's state store
// lists it: an opaque address mapped to the platform identity it tracks.
type StateEntry struct {
	Address string       `json:"address"`
	ID      string       `json:"id,omitempty"`
	Kind    ResourceKind `json:"kind"`
}

// StateSnapshot is a point-in-time listing of the state store, taken
// before and after an apply so cleanup can diff the two.
type StateSnapshot struct {
	TakenAt time.Time             `json:"taken_at"`
	Serial  uint64                `json:"serial,omitempty"`
	Lineage string                `json:"lineage,omitempty"`
	Entries map[string]StateEntry `json:"entries"`
}

func NewStateSnapshot() *StateSnapshot {
	return &StateSnapshot{TakenAt: time.Now().UTC(), Entries: make(map[string]StateEntry)}
}

func (s *StateSnapshot) Add(entry StateEntry) {
	if s.Entries == nil {
		s.Entries = make(map[string]StateEntry)
	}
	s.Entries[entry.Address] = entry
}

func (s *StateSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// AddedSince returns the entries present in s but absent from before,
// sorted by address. These are the cleanup candidates after an apply.
func (s *StateSnapshot) AddedSince(before *StateSnapshot) []StateEntry {
	var added []StateEntry
	for addr, entry := range s.Entries {
		if before != nil {
			if _, existed := before.Entries[addr]; existed {
				continue
			}
		}
		added = append(added, entry)
	}
	sort.Slice(added, func(i, j int) bool { return added[i].Address < added[j].Address })
	return added
}

// SameLineage reports whether two snapshots come from the same state
// store history. An empty lineage on either side is inconclusive and
// treated as matching.
func (s *StateSnapshot) SameLineage(other *StateSnapshot) bool {
	if s == nil || other == nil || s.Lineage == "" || other.Lineage == "" {
		return true
	}
	return s.Lineage == other.Lineage
}
