package elb

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/driftgate/driftgate/mocks"
)

const listenerARN = "arn:aws:elasticloadbalancing:eu-west-1:111122223333:listener/app/demo/abc/def"

type mockELBClient struct {
	mock.Mock
}

func (m *mockELBClient) DescribeRules(ctx context.Context, params *elbv2.DescribeRulesInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeRulesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*elbv2.DescribeRulesOutput), args.Error(1)
}

func (m *mockELBClient) DescribeTargetGroups(ctx context.Context, params *elbv2.DescribeTargetGroupsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*elbv2.DescribeTargetGroupsOutput), args.Error(1)
}

type notFoundError struct{ code string }

func (e *notFoundError) Error() string     { return e.code }
func (e *notFoundError) ErrorCode() string { return e.code }

func TestListenerRules(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeRules", mock.Anything, mock.MatchedBy(func(in *elbv2.DescribeRulesInput) bool {
		return aws.ToString(in.ListenerArn) == listenerARN && in.Marker == nil
	})).Return(&elbv2.DescribeRulesOutput{
		Rules: []elbtypes.Rule{
			{
				RuleArn:  aws.String("rule-10"),
				Priority: aws.String("10"),
				Actions: []elbtypes.Action{{
					TargetGroupArn: aws.String("arn:aws:elasticloadbalancing:eu-west-1:111122223333:targetgroup/legacy-api/abc"),
				}},
			},
			{
				RuleArn:   aws.String("rule-default"),
				Priority:  aws.String("default"),
				IsDefault: aws.Bool(true),
			},
		},
		NextMarker: aws.String("m2"),
	}, nil).Once()
	client.On("DescribeRules", mock.Anything, mock.MatchedBy(func(in *elbv2.DescribeRulesInput) bool {
		return aws.ToString(in.Marker) == "m2"
	})).Return(&elbv2.DescribeRulesOutput{
		Rules: []elbtypes.Rule{
			{RuleArn: aws.String("rule-20"), Priority: aws.String("20")},
		},
	}, nil).Once()

	rules, err := handler.ListenerRules(context.Background(), mocks.NopLogger{})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 10, rules[0].Priority)
	assert.Equal(t, "legacy-api", rules[0].TargetGroupName)
	assert.Equal(t, 20, rules[1].Priority)
	client.AssertExpectations(t)
}

func TestListenerRules_APIError(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeRules", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("boom"))

	rules, err := handler.ListenerRules(context.Background(), mocks.NopLogger{})
	assert.Error(t, err)
	assert.Nil(t, rules)
}

func TestTargetGroupHealthCheck(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeTargetGroups", mock.Anything, mock.Anything).Return(&elbv2.DescribeTargetGroupsOutput{
		TargetGroups: []elbtypes.TargetGroup{{
			TargetGroupArn:          aws.String("tg-arn"),
			TargetGroupName:         aws.String("legacy-api"),
			HealthCheckPath:         aws.String("/healthz"),
			HealthCheckPort:         aws.String("traffic-port"),
			Matcher:                 &elbtypes.Matcher{HttpCode: aws.String("200")},
			HealthyThresholdCount:   aws.Int32(3),
			UnhealthyThresholdCount: aws.Int32(2),
		}},
	}, nil)

	hc, name, found, err := handler.TargetGroupHealthCheck(context.Background(), "tg-arn", mocks.NopLogger{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "legacy-api", name)
	assert.Equal(t, "/healthz", hc.Path)
	assert.Equal(t, "traffic-port", hc.Port)
	assert.Equal(t, "200", hc.Matcher)
	assert.Equal(t, 3, hc.HealthyThreshold)
	assert.Equal(t, 2, hc.UnhealthyThreshold)
}

func TestTargetGroupHealthCheck_Gone(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeTargetGroups", mock.Anything, mock.Anything).
		Return(nil, &notFoundError{code: "TargetGroupNotFound"})

	_, _, found, err := handler.TargetGroupHealthCheck(context.Background(), "tg-arn", mocks.NopLogger{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConfirmTargetGroupAbsent(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeTargetGroups", mock.Anything, mock.Anything).
		Return(nil, &notFoundError{code: "TargetGroupNotFound"})

	absent, err := handler.ConfirmTargetGroupAbsent(context.Background(), "tg-arn", mocks.NopLogger{})
	require.NoError(t, err)
	assert.True(t, absent)
}

func TestConfirmRuleAbsent_StillPresent(t *testing.T) {
	client := new(mockELBClient)
	handler := NewHandler(client, listenerARN)

	client.On("DescribeRules", mock.Anything, mock.Anything).Return(&elbv2.DescribeRulesOutput{
		Rules: []elbtypes.Rule{{RuleArn: aws.String("rule-10"), Priority: aws.String("10")}},
	}, nil)

	absent, err := handler.ConfirmRuleAbsent(context.Background(), "rule-10", mocks.NopLogger{})
	require.NoError(t, err)
	assert.False(t, absent)
}
