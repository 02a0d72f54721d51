package domain

// DriftClass is the terminal classification of one service key after
// comparing the desired entry against both observed sources.
type DriftClass string

const (
	ClassInSync               DriftClass = "IN_SYNC"
	ClassMissingEverywhere    DriftClass = "MISSING_EVERYWHERE"
	ClassOrphanedLive         DriftClass = "ORPHANED_LIVE"
	ClassIdentityMismatch     DriftClass = "IDENTITY_MISMATCH"
	ClassUnresolvableConflict DriftClass = "UNRESOLVABLE_CONFLICT"
)

func (c DriftClass) String() string {
	return string(c)
}

// Severity ranks classes for the tie-break rule: when several findings
// apply to one key, the highest severity wins.
func (c DriftClass) Severity() int {
	switch c {
	case ClassUnresolvableConflict:
		return 4
	case ClassIdentityMismatch:
		return 3
	case ClassOrphanedLive:
		return 2
	case ClassMissingEverywhere:
		return 1
	default:
		return 0
	}
}

// Action is the corrective step the decision table prescribes for a class.
type Action string

const (
	ActionNone     Action = "NONE"
	ActionImport   Action = "IMPORT"
	ActionReimport Action = "REIMPORT"
)

// Outcome records what actually happened when the prescribed action ran.
type Outcome string

const (
	OutcomeNone       Outcome = "NONE"
	OutcomeImported   Outcome = "IMPORTED"
	OutcomeReimported Outcome = "REIMPORTED"
	OutcomeFailed     Outcome = "FAILED"
	OutcomeSkipped    Outcome = "SKIPPED"
)

// DriftRecord is the per-key line of the reconciliation report.
type DriftRecord struct {
	Key          ServiceKey `json:"key"`
	Class        DriftClass `json:"class"`
	StateID      string     `json:"state_id,omitempty"`
	LiveID       string     `json:"live_id,omitempty"`
	StateAddress string     `json:"state_address,omitempty"`
	Action       Action     `json:"action"`
	Outcome      Outcome    `json:"outcome"`
	Detail       string     `json:"detail,omitempty"`

	// ConflictKeys lists every participant when Class is
	// ClassUnresolvableConflict.
	ConflictKeys []ServiceKey `json:"conflict_keys,omitempty"`
}

// Blocking reports whether this record must fail the apply gate.
func (r DriftRecord) Blocking() bool {
	return r.Class == ClassUnresolvableConflict || r.Outcome == OutcomeFailed
}
