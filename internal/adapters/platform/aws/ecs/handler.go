package ecs

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsecs "github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	awserrors "github.com/driftgate/driftgate/internal/adapters/platform/aws/errors"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
)

const serviceName = "ECS"

// Handler answers the container-service half of the live lookups: point
// reads of one service by name, active task-definition revision counts,
// and absence confirmation for cleanup. Read-only throughout.
type Handler struct {
	client  ECSClientInterface
	cluster string
}

func NewHandler(client ECSClientInterface, cluster string) *Handler {
	return &Handler{client: client, cluster: cluster}
}

func NewHandlerFromConfig(cfg aws.Config, cluster string) *Handler {
	return NewHandler(awsecs.NewFromConfig(cfg), cluster)
}

func (h *Handler) Kind() domain.ResourceKind {
	return domain.KindContainerService
}

// FindService resolves a platform-visible service name to the live
// resource. A missing or inactive service returns nil without error;
// ECS keeps INACTIVE tombstones around after deletion and those must
// not read as live.
func (h *Handler) FindService(ctx context.Context, name string, logger ports.Logger) (*domain.LiveService, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return nil, err
	}

	input := &awsecs.DescribeServicesInput{
		Cluster:  aws.String(h.cluster),
		Services: []string{name},
	}
	output, err := h.client.DescribeServices(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, awserrors.Handle(serviceName, name, err, ctx)
	}

	for _, failure := range output.Failures {
		if aws.ToString(failure.Reason) == "MISSING" {
			logger.Debugf(ctx, "Service %q not present in cluster %s", name, h.cluster)
			return nil, nil
		}
	}

	for _, svc := range output.Services {
		if aws.ToString(svc.ServiceName) != name {
			continue
		}
		if strings.EqualFold(aws.ToString(svc.Status), "INACTIVE") {
			logger.Debugf(ctx, "Service %q exists only as an INACTIVE tombstone", name)
			return nil, nil
		}
		return mapServiceToDomain(svc), nil
	}
	return nil, nil
}

// ActiveTaskRevisions counts the still-registered revisions of a task
// definition family, feeding the revision-pileup warning.
func (h *Handler) ActiveTaskRevisions(ctx context.Context, family string, logger ports.Logger) (int, error) {
	count := 0
	var nextToken *string
	for {
		if err := limiter.Wait(ctx, logger); err != nil {
			return 0, err
		}

		input := &awsecs.ListTaskDefinitionsInput{
			FamilyPrefix: aws.String(family),
			Status:       ecstypes.TaskDefinitionStatusActive,
			NextToken:    nextToken,
		}
		output, err := h.client.ListTaskDefinitions(ctx, input)
		if err != nil {
			return 0, awserrors.Handle(serviceName, family, err, ctx)
		}

		for _, arn := range output.TaskDefinitionArns {
			// FamilyPrefix matches prefixes, so "api" also lists "api-worker".
			if taskFamilyFromARN(arn) == family {
				count++
			}
		}

		if output.NextToken == nil {
			return count, nil
		}
		nextToken = output.NextToken
	}
}

// ConfirmServiceAbsent reports whether the identified service is gone
// from the cluster. Only a definite MISSING failure or an INACTIVE
// status confirms absence; any lookup error leaves absence unconfirmed.
func (h *Handler) ConfirmServiceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return false, err
	}

	input := &awsecs.DescribeServicesInput{
		Cluster:  aws.String(h.cluster),
		Services: []string{id},
	}
	output, err := h.client.DescribeServices(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return true, nil
		}
		return false, awserrors.Handle(serviceName, id, err, ctx)
	}

	for _, failure := range output.Failures {
		if aws.ToString(failure.Reason) == "MISSING" {
			return true, nil
		}
	}
	for _, svc := range output.Services {
		if !strings.EqualFold(aws.ToString(svc.Status), "INACTIVE") {
			return false, nil
		}
	}
	return true, nil
}
