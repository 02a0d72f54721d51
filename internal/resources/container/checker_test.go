package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgate/driftgate/internal/core/domain"
)

func desiredService() domain.DesiredService {
	return domain.DesiredService{
		Key:          domain.ServiceKey{Application: "payments", Service: "api"},
		DesiredCount: 3,
		Routing: &domain.Routing{
			Priority: 10,
			HealthCheck: domain.HealthCheck{
				Path:    "/healthz",
				Matcher: "200",
			},
		},
	}
}

func liveService() *domain.LiveService {
	return &domain.LiveService{
		ID:              "arn:aws:ecs:eu-west-1:123456789012:service/prod/payments-api",
		Name:            "payments-api",
		RunningCount:    3,
		DesiredCount:    3,
		TaskFamily:      "payments-api",
		HasLoadBalancer: true,
		HealthCheck: domain.HealthCheck{
			Path:               "/healthz",
			Matcher:            "200",
			HealthyThreshold:   3,
			UnhealthyThreshold: 2,
		},
	}
}

func TestCheckNoWarningsWhenAligned(t *testing.T) {
	checker := NewChecker(1, 5)
	warnings := checker.Check(context.Background(), desiredService(), liveService(), 2)
	assert.Empty(t, warnings)
}

func TestCheckNilLive(t *testing.T) {
	checker := NewChecker(1, 5)
	assert.Nil(t, checker.Check(context.Background(), desiredService(), nil, 0))
}

func TestCheckReplicaSkew(t *testing.T) {
	checker := NewChecker(1, 5)
	live := liveService()
	live.RunningCount = 1

	warnings := checker.Check(context.Background(), desiredService(), live, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnReplicaSkew, warnings[0].Kind)
	assert.Equal(t, "payments::api", warnings[0].Key)
	require.Len(t, warnings[0].Diffs, 1)
	assert.Equal(t, 3, warnings[0].Diffs[0].ExpectedValue)
	assert.Equal(t, 1, warnings[0].Diffs[0].ActualValue)
}

func TestCheckReplicaSkewWithinTolerance(t *testing.T) {
	checker := NewChecker(2, 5)
	live := liveService()
	live.RunningCount = 1

	warnings := checker.Check(context.Background(), desiredService(), live, 2)
	assert.Empty(t, warnings)
}

func TestCheckExcessRevisions(t *testing.T) {
	checker := NewChecker(1, 3)
	warnings := checker.Check(context.Background(), desiredService(), liveService(), 7)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnExcessRevisions, warnings[0].Kind)
	assert.Contains(t, warnings[0].Detail, "7 active revisions")
}

func TestCheckHealthCheckSkew(t *testing.T) {
	checker := NewChecker(1, 5)
	live := liveService()
	live.HealthCheck.Path = "/health"

	warnings := checker.Check(context.Background(), desiredService(), live, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarnHealthCheckSkew, warnings[0].Kind)
	assert.Equal(t, "/healthz", warnings[0].Diffs[0].ExpectedValue)
	assert.Equal(t, "/health", warnings[0].Diffs[0].ActualValue)
}

func TestCheckHealthCheckIgnoresUnsetFields(t *testing.T) {
	checker := NewChecker(1, 5)
	desired := desiredService()
	desired.Routing.HealthCheck = domain.HealthCheck{Path: "/healthz"}

	// Live thresholds and matcher differ but are unspecified in the doc.
	warnings := checker.Check(context.Background(), desired, liveService(), 2)
	assert.Empty(t, warnings)
}

func TestCheckNoRoutingSkipsHealthCheck(t *testing.T) {
	checker := NewChecker(1, 5)
	desired := desiredService()
	desired.Routing = nil
	live := liveService()
	live.HealthCheck.Path = "/other"

	warnings := checker.Check(context.Background(), desired, live, 2)
	assert.Empty(t, warnings)
}
