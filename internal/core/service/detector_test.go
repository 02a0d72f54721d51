package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgate/driftgate/internal/core/domain"
)

func key(app, svc string) domain.ServiceKey {
	return domain.ServiceKey{Application: app, Service: svc}
}

func TestClassifyCoversEveryPresence(t *testing.T) {
	svc := domain.DesiredService{Key: key("payments", "api")}

	testCases := []struct {
		name           string
		obs            domain.Observation
		expectedClass  domain.DriftClass
		expectedAction domain.Action
	}{
		{
			name:           "missing everywhere",
			obs:            domain.Observation{Key: svc.Key},
			expectedClass:  domain.ClassMissingEverywhere,
			expectedAction: domain.ActionNone,
		},
		{
			name:           "state only folds to missing",
			obs:            domain.Observation{Key: svc.Key, StateID: "arn:old"},
			expectedClass:  domain.ClassMissingEverywhere,
			expectedAction: domain.ActionNone,
		},
		{
			name:           "orphaned live",
			obs:            domain.Observation{Key: svc.Key, LiveID: "arn:live"},
			expectedClass:  domain.ClassOrphanedLive,
			expectedAction: domain.ActionImport,
		},
		{
			name:           "identities agree",
			obs:            domain.Observation{Key: svc.Key, StateID: "arn:x", LiveID: "arn:x"},
			expectedClass:  domain.ClassInSync,
			expectedAction: domain.ActionNone,
		},
		{
			name:           "identity mismatch",
			obs:            domain.Observation{Key: svc.Key, StateID: "arn:x", LiveID: "arn:y"},
			expectedClass:  domain.ClassIdentityMismatch,
			expectedAction: domain.ActionReimport,
		},
		{
			name:           "degraded never acts",
			obs:            domain.Observation{Key: svc.Key, LiveID: "arn:live", Degraded: true},
			expectedClass:  domain.ClassMissingEverywhere,
			expectedAction: domain.ActionNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := Classify(svc, tc.obs)
			assert.Equal(t, tc.expectedClass, record.Class)
			assert.Equal(t, tc.expectedAction, record.Action)
			assert.Equal(t, domain.OutcomeNone, record.Outcome)
		})
	}
}

func TestClassifyDerivesStateAddress(t *testing.T) {
	svc := domain.DesiredService{Key: key("payments", "api")}
	record := Classify(svc, domain.Observation{Key: svc.Key})
	assert.Equal(t, "aws_ecs_service.payments_api", record.StateAddress)

	svc.StateAddress = "aws_ecs_service.legacy"
	record = Classify(svc, domain.Observation{Key: svc.Key})
	assert.Equal(t, "aws_ecs_service.legacy", record.StateAddress)
}

func TestNamingCollisions(t *testing.T) {
	set, err := domain.NewDesiredSet(
		domain.DesiredService{Key: key("legacy-api", "web")},
		domain.DesiredService{Key: key("legacy", "api-web")},
		domain.DesiredService{Key: key("payments", "api")},
	)
	require.NoError(t, err)

	conflicts := NamingCollisions(set)
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []domain.ServiceKey{key("legacy-api", "web"), key("legacy", "api-web")}, conflicts[0].Keys)
	assert.Contains(t, conflicts[0].Reason, `"legacy-api-web"`)
}

func TestNamingCollisionsNoneForDistinctNames(t *testing.T) {
	set, err := domain.NewDesiredSet(
		domain.DesiredService{Key: key("payments", "api")},
		domain.DesiredService{Key: key("billing", "api")},
	)
	require.NoError(t, err)
	assert.Empty(t, NamingCollisions(set))
}

func routed(k domain.ServiceKey, priority int) domain.DesiredService {
	return domain.DesiredService{Key: k, Routing: &domain.Routing{Priority: priority}}
}

func TestPriorityCollisionsDesiredVersusDesired(t *testing.T) {
	set, err := domain.NewDesiredSet(
		routed(key("payments", "api"), 10),
		routed(key("billing", "api"), 10),
		routed(key("catalog", "web"), 20),
	)
	require.NoError(t, err)

	conflicts := PriorityCollisions(set, nil)
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []domain.ServiceKey{key("payments", "api"), key("billing", "api")}, conflicts[0].Keys)
	assert.Contains(t, conflicts[0].Reason, "priority 10")
}

func TestPriorityCollisionsAgainstLiveRules(t *testing.T) {
	set, err := domain.NewDesiredSet(routed(key("payments", "api"), 10))
	require.NoError(t, err)

	foreign := []domain.LiveRule{{ID: "arn:rule/abc", Priority: 10, TargetGroupName: "someone-else"}}
	conflicts := PriorityCollisions(set, foreign)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []domain.ServiceKey{key("payments", "api")}, conflicts[0].Keys)
	assert.Contains(t, conflicts[0].Reason, "arn:rule/abc")
}

func TestPriorityCollisionsOwnRuleIsNotAConflict(t *testing.T) {
	set, err := domain.NewDesiredSet(routed(key("payments", "api"), 10))
	require.NoError(t, err)

	own := []domain.LiveRule{{ID: "arn:rule/own", Priority: 10, TargetGroupName: "payments-api"}}
	assert.Empty(t, PriorityCollisions(set, own))
}

func TestPriorityCollisionsIgnoresDefaultRule(t *testing.T) {
	set, err := domain.NewDesiredSet(routed(key("payments", "api"), 10))
	require.NoError(t, err)

	rules := []domain.LiveRule{{ID: "arn:rule/default", Priority: 10, TargetGroupName: "other", IsDefault: true}}
	assert.Empty(t, PriorityCollisions(set, rules))
}

func TestApplyConflictsUpgradesSeverity(t *testing.T) {
	a := key("payments", "api")
	b := key("billing", "api")

	records := map[domain.ServiceKey]*domain.DriftRecord{
		a: {Key: a, Class: domain.ClassOrphanedLive, Action: domain.ActionImport},
		b: {Key: b, Class: domain.ClassInSync, Action: domain.ActionNone},
	}

	ApplyConflicts(records, []Conflict{{Keys: []domain.ServiceKey{a, b}, Reason: "routing priority 10 is claimed twice"}})

	for _, k := range []domain.ServiceKey{a, b} {
		record := records[k]
		assert.Equal(t, domain.ClassUnresolvableConflict, record.Class, k.String())
		assert.Equal(t, domain.ActionNone, record.Action, "conflicted keys must not act")
		assert.ElementsMatch(t, []domain.ServiceKey{a, b}, record.ConflictKeys)
	}
}

func TestApplyConflictsAccumulatesReasons(t *testing.T) {
	a := key("payments", "api")
	records := map[domain.ServiceKey]*domain.DriftRecord{
		a: {Key: a, Class: domain.ClassInSync},
	}

	ApplyConflicts(records, []Conflict{
		{Keys: []domain.ServiceKey{a}, Reason: "first"},
		{Keys: []domain.ServiceKey{a}, Reason: "second"},
	})

	assert.Equal(t, domain.ClassUnresolvableConflict, records[a].Class)
	assert.Contains(t, records[a].Detail, "first")
	assert.Contains(t, records[a].Detail, "second")
}

func TestActionTableIsTotal(t *testing.T) {
	for _, class := range []domain.DriftClass{
		domain.ClassInSync,
		domain.ClassMissingEverywhere,
		domain.ClassOrphanedLive,
		domain.ClassIdentityMismatch,
		domain.ClassUnresolvableConflict,
	} {
		_, ok := actionByClass[class]
		assert.True(t, ok, "no action defined for %s", class)
	}

	assert.Equal(t, domain.ActionImport, ActionFor(domain.ClassOrphanedLive))
	assert.Equal(t, domain.ActionReimport, ActionFor(domain.ClassIdentityMismatch))
	assert.Equal(t, domain.ActionNone, ActionFor(domain.DriftClass("BOGUS")))
}
