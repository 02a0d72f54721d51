package domain

import "time"

// CleanupDisposition says what happened to one cleanup candidate.
type CleanupDisposition string

const (
	CleanupRemoved  CleanupDisposition = "REMOVED"
	CleanupRetained CleanupDisposition = "RETAINED"
	CleanupSkipped  CleanupDisposition = "SKIPPED"
)

// CleanupItem is one state entry examined by targeted cleanup.
type CleanupItem struct {
	Entry       StateEntry         `json:"entry"`
	Disposition CleanupDisposition `json:"disposition"`
	Reason      string             `json:"reason"`
}

// CleanupReport summarises one targeted-cleanup pass. Entries that could
// not be confirmed absent from the live platform are retained for manual
// review rather than removed.
type CleanupReport struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	DryRun     bool          `json:"dry_run"`
	Candidates int           `json:"candidates"`
	Items      []CleanupItem `json:"items"`
	Warnings   []Warning     `json:"warnings"`
}

func (r *CleanupReport) CountByDisposition() map[CleanupDisposition]int {
	counts := make(map[CleanupDisposition]int, len(r.Items))
	for _, item := range r.Items {
		counts[item.Disposition]++
	}
	return counts
}
