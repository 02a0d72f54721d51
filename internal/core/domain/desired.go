package domain

import (
	"fmt"
	"sort"
)

// ImageRef identifies the container image a service is expected to run.
type ImageRef struct {
	Repository string
	Tag        string
}

func (i ImageRef) String() string {
	if i.Tag == "" {
		return i.Repository
	}
	return i.Repository + ":" + i.Tag
}

// HealthCheck describes the probe configuration attached to a routed service.
type HealthCheck struct {
	Path               string
	Port               string
	Matcher            string
	HealthyThreshold   int
	UnhealthyThreshold int
}

// Routing declares how a service is exposed through the shared listener.
// Priority must be unique across the whole desired set and across live
// rules not owned by the claiming key.
type Routing struct {
	Protocol     string
	Port         int
	Priority     int
	PathPatterns []string
	HostHeaders  []string
	HealthCheck  HealthCheck
}

// DesiredService is one entry of the desired-state document.
type DesiredService struct {
	Key           ServiceKey
	Image         ImageRef
	ContainerPort int
	CPU           int
	Memory        int
	DesiredCount  int
	Routing       *Routing
	DiscoveryName string

	// StateAddress overrides the derived provisioning-engine address
	// for services that predate the address convention.
	StateAddress string
}

// DesiredSet is the validated, deduplicated desired-state map. Iteration
// order is the canonical key order so every downstream pass is deterministic.
type DesiredSet struct {
	services map[ServiceKey]DesiredService
	keys     []ServiceKey
}

func NewDesiredSet(services ...DesiredService) (*DesiredSet, error) {
	set := &DesiredSet{services: make(map[ServiceKey]DesiredService, len(services))}
	for _, svc := range services {
		if err := svc.Key.Validate(); err != nil {
			return nil, err
		}
		if _, exists := set.services[svc.Key]; exists {
			return nil, fmt.Errorf("duplicate service key %q", svc.Key)
		}
		set.services[svc.Key] = svc
		set.keys = append(set.keys, svc.Key)
	}
	sort.Slice(set.keys, func(i, j int) bool { return set.keys[i].Less(set.keys[j]) })
	return set, nil
}

func (s *DesiredSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *DesiredSet) Keys() []ServiceKey {
	out := make([]ServiceKey, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *DesiredSet) Get(key ServiceKey) (DesiredService, bool) {
	svc, ok := s.services[key]
	return svc, ok
}

// Services returns the entries in canonical key order.
func (s *DesiredSet) Services() []DesiredService {
	out := make([]DesiredService, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.services[key])
	}
	return out
}
