package domain

// AttributeDiff records one desired-versus-live attribute divergence.
// Diffs feed warnings, never blocking errors: attribute skew is the
// provisioning engine's job to settle, not the gate's.
type AttributeDiff struct {
	AttributeName string `json:"attribute"`
	ExpectedValue any    `json:"expected"`
	ActualValue   any    `json:"actual"`
	Details       string `json:"details,omitempty"`
}
