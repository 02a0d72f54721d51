package domain

import "time"

// Verdict is the apply gate's final answer. The gate fails if and only if
// at least one blocking error is present.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictFail Verdict = "FAIL"
)

type WarningKind string

const (
	WarnReplicaSkew      WarningKind = "REPLICA_SKEW"
	WarnExcessRevisions  WarningKind = "EXCESS_TASKDEF_REVISIONS"
	WarnHealthCheckSkew  WarningKind = "HEALTH_CHECK_SKEW"
	WarnDegradedLookup   WarningKind = "DEGRADED_LOOKUP"
	WarnStaleStateEntry  WarningKind = "STALE_STATE_ENTRY"
	WarnRulesUnavailable WarningKind = "ROUTING_RULES_UNAVAILABLE"
)

// Warning is advisory only. Warnings never change the verdict. Key is
// empty for run-level warnings.
type Warning struct {
	Key    string          `json:"key,omitempty"`
	Kind   WarningKind     `json:"kind"`
	Detail string          `json:"detail"`
	Diffs  []AttributeDiff `json:"diffs,omitempty"`
}

// BlockingError is one reason the apply gate must fail.
type BlockingError struct {
	Key    string `json:"key,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// ReconciliationReport is the full outcome of one gate run. Records are
// ordered by service key so repeated runs over the same inputs render
// identically.
type ReconciliationReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`

	Records        []DriftRecord   `json:"records"`
	ImportedCount  int             `json:"imported_count"`
	BlockingErrors []BlockingError `json:"blocking_errors"`
	Warnings       []Warning       `json:"warnings"`
	Verdict        Verdict         `json:"verdict"`
}

// CountByClass tallies records per drift class for summary rendering.
func (r *ReconciliationReport) CountByClass() map[DriftClass]int {
	counts := make(map[DriftClass]int, len(r.Records))
	for _, rec := range r.Records {
		counts[rec.Class]++
	}
	return counts
}

// Finalize computes the verdict from the collected blocking errors.
func (r *ReconciliationReport) Finalize() {
	if len(r.BlockingErrors) > 0 {
		r.Verdict = VerdictFail
		return
	}
	r.Verdict = VerdictPass
}
