// Package container checks a desired container service against its live
// counterpart for the advisory drift surface: replica skew, health-check
// skew and task-definition revision pileup.
package container

import (
	"context"
	"fmt"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/pkg/compare"
)

type Checker struct {
	replicaSkewTolerance int
	maxActiveRevisions   int
}

func NewChecker(replicaSkewTolerance, maxActiveRevisions int) *Checker {
	if replicaSkewTolerance < 0 {
		replicaSkewTolerance = 0
	}
	if maxActiveRevisions <= 0 {
		maxActiveRevisions = 5
	}
	return &Checker{
		replicaSkewTolerance: replicaSkewTolerance,
		maxActiveRevisions:   maxActiveRevisions,
	}
}

func (c *Checker) Kind() domain.ResourceKind {
	return domain.KindContainerService
}

func (c *Checker) Check(ctx context.Context, desired domain.DesiredService, live *domain.LiveService, activeRevisions int) []domain.Warning {
	if live == nil {
		return nil
	}

	var warnings []domain.Warning
	key := desired.Key.String()

	if skew := absInt(desired.DesiredCount - live.RunningCount); skew > c.replicaSkewTolerance {
		warnings = append(warnings, domain.Warning{
			Key:  key,
			Kind: domain.WarnReplicaSkew,
			Detail: fmt.Sprintf("replica skew %d exceeds tolerance %d (desired %d, running %d)",
				skew, c.replicaSkewTolerance, desired.DesiredCount, live.RunningCount),
			Diffs: []domain.AttributeDiff{{
				AttributeName: domain.KeyRunningCount,
				ExpectedValue: desired.DesiredCount,
				ActualValue:   live.RunningCount,
			}},
		})
	}

	if activeRevisions > c.maxActiveRevisions {
		warnings = append(warnings, domain.Warning{
			Key:  key,
			Kind: domain.WarnExcessRevisions,
			Detail: fmt.Sprintf("task family %q has %d active revisions, ceiling is %d",
				live.TaskFamily, activeRevisions, c.maxActiveRevisions),
			Diffs: []domain.AttributeDiff{{
				AttributeName: domain.KeyActiveRevisions,
				ExpectedValue: c.maxActiveRevisions,
				ActualValue:   activeRevisions,
			}},
		})
	}

	if hcWarning := c.checkHealthCheck(desired, live); hcWarning != nil {
		warnings = append(warnings, *hcWarning)
	}

	return warnings
}

// checkHealthCheck compares the declared probe against the live target
// group. Fields the desired document leaves unset are not compared.
func (c *Checker) checkHealthCheck(desired domain.DesiredService, live *domain.LiveService) *domain.Warning {
	if desired.Routing == nil || !live.HasLoadBalancer {
		return nil
	}

	expected := desired.Routing.HealthCheck
	actual := maskUnset(expected, live.HealthCheck)
	if compare.Equal(expected, actual) {
		return nil
	}

	return &domain.Warning{
		Key:    desired.Key.String(),
		Kind:   domain.WarnHealthCheckSkew,
		Detail: fmt.Sprintf("live health check diverges from declared probe: %s", compare.Diff(expected, actual)),
		Diffs: []domain.AttributeDiff{{
			AttributeName: domain.KeyHealthCheckPath,
			ExpectedValue: expected.Path,
			ActualValue:   live.HealthCheck.Path,
			Details:       compare.Diff(expected, actual),
		}},
	}
}

// maskUnset copies live values into the fields the desired probe leaves
// at their zero value, so an unspecified field never reads as skew.
func maskUnset(desired, live domain.HealthCheck) domain.HealthCheck {
	masked := live
	if desired.Path == "" {
		masked.Path = desired.Path
	}
	if desired.Port == "" {
		masked.Port = desired.Port
	}
	if desired.Matcher == "" {
		masked.Matcher = desired.Matcher
	}
	if desired.HealthyThreshold == 0 {
		masked.HealthyThreshold = desired.HealthyThreshold
	}
	if desired.UnhealthyThreshold == 0 {
		masked.UnhealthyThreshold = desired.UnhealthyThreshold
	}
	return masked
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
