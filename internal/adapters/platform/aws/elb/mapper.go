package elb

import (
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/driftgate/driftgate/internal/core/domain"
)

// mapRuleToDomain converts one listener rule. Default rules and rules
// with an unparsable priority are dropped; they can never collide with
// a numeric desired priority.
func mapRuleToDomain(rule elbtypes.Rule) (domain.LiveRule, bool) {
	if aws.ToBool(rule.IsDefault) {
		return domain.LiveRule{}, false
	}

	priorityStr := aws.ToString(rule.Priority)
	if strings.EqualFold(priorityStr, "default") {
		return domain.LiveRule{}, false
	}
	priority, err := strconv.Atoi(priorityStr)
	if err != nil {
		return domain.LiveRule{}, false
	}

	mapped := domain.LiveRule{
		ID:       aws.ToString(rule.RuleArn),
		Priority: priority,
	}
	for _, action := range rule.Actions {
		if arn := aws.ToString(action.TargetGroupArn); arn != "" {
			mapped.TargetGroupName = targetGroupNameFromARN(arn)
			break
		}
	}
	return mapped, true
}

func mapHealthCheck(tg elbtypes.TargetGroup) domain.HealthCheck {
	hc := domain.HealthCheck{
		Path: aws.ToString(tg.HealthCheckPath),
		Port: aws.ToString(tg.HealthCheckPort),
	}
	if tg.Matcher != nil {
		hc.Matcher = aws.ToString(tg.Matcher.HttpCode)
	}
	if tg.HealthyThresholdCount != nil {
		hc.HealthyThreshold = int(*tg.HealthyThresholdCount)
	}
	if tg.UnhealthyThresholdCount != nil {
		hc.UnhealthyThreshold = int(*tg.UnhealthyThresholdCount)
	}
	return hc
}

// targetGroupNameFromARN extracts the name from
// "arn:...:targetgroup/name/hash".
func targetGroupNameFromARN(arn string) string {
	idx := strings.Index(arn, "targetgroup/")
	if idx < 0 {
		return arn
	}
	rest := arn[idx+len("targetgroup/"):]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		return rest[:slash]
	}
	return rest
}
