package ecs

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/driftgate/driftgate/internal/core/domain"
)

func mapServiceToDomain(svc ecstypes.Service) *domain.LiveService {
	live := &domain.LiveService{
		ID:             aws.ToString(svc.ServiceArn),
		Name:           aws.ToString(svc.ServiceName),
		Status:         aws.ToString(svc.Status),
		DesiredCount:   int(svc.DesiredCount),
		RunningCount:   int(svc.RunningCount),
		PendingCount:   int(svc.PendingCount),
		TaskDefinition: aws.ToString(svc.TaskDefinition),
	}
	live.TaskFamily = taskFamilyFromARN(live.TaskDefinition)

	for _, lb := range svc.LoadBalancers {
		if arn := aws.ToString(lb.TargetGroupArn); arn != "" {
			live.HasLoadBalancer = true
			live.TargetGroupARN = arn
			break
		}
	}

	for _, registry := range svc.ServiceRegistries {
		if arn := aws.ToString(registry.RegistryArn); arn != "" {
			live.DiscoveryRegistered = true
			live.DiscoveryServiceID = lastARNSegment(arn)
			break
		}
	}

	return live
}

// taskFamilyFromARN strips "arn:...:task-definition/family:revision"
// down to the family. A bare "family:revision" works too.
func taskFamilyFromARN(arn string) string {
	if arn == "" {
		return ""
	}
	family := lastARNSegment(arn)
	if idx := strings.LastIndex(family, ":"); idx > 0 {
		family = family[:idx]
	}
	return family
}

func lastARNSegment(arn string) string {
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		return arn[idx+1:]
	}
	return arn
}
