package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/driftgate/driftgate/internal/adapters/platform/aws/discovery"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/ecs"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/elb"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/shared"
	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

const ReaderTypeAWS = "aws"

type Config struct {
	Region      string `yaml:"region" mapstructure:"region"`
	Cluster     string `yaml:"cluster" mapstructure:"cluster" validate:"required"`
	ListenerARN string `yaml:"listener_arn" mapstructure:"listener_arn"`
	NamespaceID string `yaml:"namespace_id" mapstructure:"namespace_id"`
	APIRateRPS  int    `yaml:"api_rate_rps" mapstructure:"api_rate_rps"`
}

type containerHandler interface {
	FindService(ctx context.Context, name string, logger ports.Logger) (*domain.LiveService, error)
	ActiveTaskRevisions(ctx context.Context, family string, logger ports.Logger) (int, error)
	ConfirmServiceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error)
}

type routingHandler interface {
	ListenerRules(ctx context.Context, logger ports.Logger) ([]domain.LiveRule, error)
	TargetGroupHealthCheck(ctx context.Context, targetGroupARN string, logger ports.Logger) (domain.HealthCheck, string, bool, error)
	ConfirmTargetGroupAbsent(ctx context.Context, targetGroupARN string, logger ports.Logger) (bool, error)
	ConfirmRuleAbsent(ctx context.Context, ruleARN string, logger ports.Logger) (bool, error)
}

type discoveryHandler interface {
	ConfirmServiceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error)
	ConfirmNamespaceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error)
}

// Reader is the live half of the observed state: read-only point
// lookups against ECS, the shared listener and Cloud Map, all behind
// the process-wide rate limiter. It never writes.
type Reader struct {
	container containerHandler
	routing   routingHandler
	discovery discoveryHandler
	logger    ports.Logger
}

// NewReader loads the ambient AWS configuration and wires the three
// service handlers. An unusable SDK configuration is a tooling failure:
// the run must abort before classification, not degrade per key.
func NewReader(ctx context.Context, cfg Config, logger ports.Logger) (*Reader, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil for AWS reader")
	}
	if cfg.Cluster == "" {
		return nil, errors.New(errors.CodeConfigValidation, "platform cluster cannot be empty")
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeToolingUnavailable, "failed to load AWS configuration")
	}

	limiter.Initialize(cfg.APIRateRPS, logger)

	account, err := verifyCredentials(ctx, sts.NewFromConfig(awsCfg))
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "AWS reader ready: account=%s region=%s cluster=%s",
		account, awsCfg.Region, cfg.Cluster)

	return &Reader{
		container: ecs.NewHandlerFromConfig(awsCfg, cfg.Cluster),
		routing:   elb.NewHandlerFromConfig(awsCfg, cfg.ListenerARN),
		discovery: discovery.NewHandlerFromConfig(awsCfg),
		logger:    logger,
	}, nil
}

// verifyCredentials proves the credential chain works before any
// per-key lookup runs. Unusable credentials abort the run up front.
func verifyCredentials(ctx context.Context, client shared.STSClientInterface) (string, error) {
	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.WrapUserFacing(err, errors.CodeToolingUnavailable,
			"AWS credentials are not usable",
			"Check AWS_PROFILE / credentials and retry.")
	}
	return awssdk.ToString(identity.Account), nil
}

// newReaderWithHandlers is the test seam.
func newReaderWithHandlers(container containerHandler, routing routingHandler, disc discoveryHandler, logger ports.Logger) *Reader {
	return &Reader{container: container, routing: routing, discovery: disc, logger: logger}
}

func (r *Reader) Type() string { return ReaderTypeAWS }

// FindService resolves a platform-visible name to the live service,
// enriched with its target group's health check when the service is
// routed. A vanished target group downgrades to an un-enriched result
// instead of failing the lookup.
func (r *Reader) FindService(ctx context.Context, name string) (*domain.LiveService, error) {
	live, err := r.container.FindService(ctx, name, r.logger)
	if err != nil || live == nil {
		return nil, err
	}

	if live.HasLoadBalancer && live.TargetGroupARN != "" {
		hc, tgName, found, hcErr := r.routing.TargetGroupHealthCheck(ctx, live.TargetGroupARN, r.logger)
		switch {
		case hcErr != nil:
			r.logger.Warnf(ctx, "Health check lookup failed for %s, continuing without it: %v", name, hcErr)
		case !found:
			r.logger.Warnf(ctx, "Target group %s of service %s no longer exists", live.TargetGroupARN, name)
		default:
			live.HealthCheck = hc
			r.logger.Debugf(ctx, "Enriched %s with health check of target group %s", name, tgName)
		}
	}

	return live, nil
}

func (r *Reader) ListenerRules(ctx context.Context) ([]domain.LiveRule, error) {
	return r.routing.ListenerRules(ctx, r.logger)
}

func (r *Reader) ActiveTaskRevisions(ctx context.Context, family string) (int, error) {
	return r.container.ActiveTaskRevisions(ctx, family, r.logger)
}

// ConfirmAbsent dispatches the absence check to the owning service. An
// unrecognized kind is an error, never a confirmation: cleanup must not
// remove what it cannot verify.
func (r *Reader) ConfirmAbsent(ctx context.Context, kind domain.ResourceKind, id string) (bool, error) {
	switch kind {
	case domain.KindContainerService:
		return r.container.ConfirmServiceAbsent(ctx, id, r.logger)
	case domain.KindTargetGroup:
		return r.routing.ConfirmTargetGroupAbsent(ctx, id, r.logger)
	case domain.KindRoutingRule:
		return r.routing.ConfirmRuleAbsent(ctx, id, r.logger)
	case domain.KindDiscoveryService:
		return r.discovery.ConfirmServiceAbsent(ctx, id, r.logger)
	case domain.KindDiscoveryNamespace:
		return r.discovery.ConfirmNamespaceAbsent(ctx, id, r.logger)
	default:
		return false, errors.New(errors.CodePlatformAPIError,
			fmt.Sprintf("cannot confirm absence for resource kind %q", kind))
	}
}
