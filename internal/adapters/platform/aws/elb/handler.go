package elb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	awserrors "github.com/driftgate/driftgate/internal/adapters/platform/aws/errors"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
)

const serviceName = "ELBv2"

// Handler reads the routing half of the live platform: the rules on the
// shared listener and the health-check configuration of target groups.
type Handler struct {
	client      ELBClientInterface
	listenerARN string
}

func NewHandler(client ELBClientInterface, listenerARN string) *Handler {
	return &Handler{client: client, listenerARN: listenerARN}
}

func NewHandlerFromConfig(cfg aws.Config, listenerARN string) *Handler {
	return NewHandler(elbv2.NewFromConfig(cfg), listenerARN)
}

// ListenerRules lists every non-default rule on the shared listener,
// paging through the full rule set.
func (h *Handler) ListenerRules(ctx context.Context, logger ports.Logger) ([]domain.LiveRule, error) {
	var rules []domain.LiveRule
	var marker *string
	for {
		if err := limiter.Wait(ctx, logger); err != nil {
			return nil, err
		}

		input := &elbv2.DescribeRulesInput{
			ListenerArn: aws.String(h.listenerARN),
			Marker:      marker,
		}
		output, err := h.client.DescribeRules(ctx, input)
		if err != nil {
			return nil, awserrors.Handle(serviceName, h.listenerARN, err, ctx)
		}

		for _, rule := range output.Rules {
			mapped, ok := mapRuleToDomain(rule)
			if !ok {
				continue
			}
			rules = append(rules, mapped)
		}

		if output.NextMarker == nil {
			break
		}
		marker = output.NextMarker
	}

	logger.Debugf(ctx, "Listed %d non-default listener rules", len(rules))
	return rules, nil
}

// TargetGroupHealthCheck fetches the probe configuration and name of one
// target group by ARN. A deleted target group returns found=false.
func (h *Handler) TargetGroupHealthCheck(ctx context.Context, targetGroupARN string, logger ports.Logger) (domain.HealthCheck, string, bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return domain.HealthCheck{}, "", false, err
	}

	input := &elbv2.DescribeTargetGroupsInput{
		TargetGroupArns: []string{targetGroupARN},
	}
	output, err := h.client.DescribeTargetGroups(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return domain.HealthCheck{}, "", false, nil
		}
		return domain.HealthCheck{}, "", false, awserrors.Handle(serviceName, targetGroupARN, err, ctx)
	}
	if len(output.TargetGroups) == 0 {
		return domain.HealthCheck{}, "", false, nil
	}

	tg := output.TargetGroups[0]
	return mapHealthCheck(tg), aws.ToString(tg.TargetGroupName), true, nil
}

// ConfirmTargetGroupAbsent reports whether the target group no longer
// exists. Only a definite not-found confirms absence.
func (h *Handler) ConfirmTargetGroupAbsent(ctx context.Context, targetGroupARN string, logger ports.Logger) (bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return false, err
	}

	input := &elbv2.DescribeTargetGroupsInput{
		TargetGroupArns: []string{targetGroupARN},
	}
	output, err := h.client.DescribeTargetGroups(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return true, nil
		}
		return false, awserrors.Handle(serviceName, targetGroupARN, err, ctx)
	}
	return len(output.TargetGroups) == 0, nil
}

// ConfirmRuleAbsent reports whether the listener rule no longer exists.
func (h *Handler) ConfirmRuleAbsent(ctx context.Context, ruleARN string, logger ports.Logger) (bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return false, err
	}

	input := &elbv2.DescribeRulesInput{
		RuleArns: []string{ruleARN},
	}
	output, err := h.client.DescribeRules(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return true, nil
		}
		return false, awserrors.Handle(serviceName, ruleARN, err, ctx)
	}
	return len(output.Rules) == 0, nil
}
