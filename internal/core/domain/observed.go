package domain

// Presence enumerates where a service key was found during observation.
// It is the discriminant the classifier switches on, so every combination
// of the two observed sources maps to exactly one value.
type Presence int

const (
	PresenceUnknown Presence = iota
	PresenceStateOnly
	PresenceLiveOnly
	PresenceBoth
)

func (p Presence) String() string {
	switch p {
	case PresenceStateOnly:
		return "state-only"
	case PresenceLiveOnly:
		return "live-only"
	case PresenceBoth:
		return "both"
	default:
		return "unknown"
	}
}

// LiveService carries the attributes read from the running platform for
// one container service, enriched with the health-check configuration of
// its target group when the service is routed.
type LiveService struct {
	ID             string
	Name           string
	Status         string
	DesiredCount   int
	RunningCount   int
	PendingCount   int
	TaskDefinition string
	TaskFamily     string

	TargetGroupARN  string
	HasLoadBalancer bool
	HealthCheck     HealthCheck

	DiscoveryServiceID  string
	DiscoveryRegistered bool
}

// LiveRule is one non-default rule on the shared listener.
type LiveRule struct {
	ID              string
	Priority        int
	TargetGroupName string
	IsDefault       bool
}

// Observation is the per-key result of querying both observed sources.
// A zero identity means the source does not know the key. Degraded marks
// an observation whose lookups kept failing after retries; a degraded
// observation must never trigger a corrective action.
type Observation struct {
	Key      ServiceKey
	StateID  string
	LiveID   string
	Live     *LiveService
	Degraded bool
	Warnings []string
}

func (o Observation) Presence() Presence {
	switch {
	case o.StateID != "" && o.LiveID != "":
		return PresenceBoth
	case o.StateID != "":
		return PresenceStateOnly
	case o.LiveID != "":
		return PresenceLiveOnly
	default:
		return PresenceUnknown
	}
}

// IdentitiesAgree reports whether both sources name the same platform
// resource. Only meaningful when Presence is PresenceBoth.
func (o Observation) IdentitiesAgree() bool {
	return o.StateID != "" && o.StateID == o.LiveID
}
