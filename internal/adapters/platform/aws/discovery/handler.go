package discovery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicediscovery"

	awserrors "github.com/driftgate/driftgate/internal/adapters/platform/aws/errors"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws/limiter"
	"github.com/driftgate/driftgate/internal/core/ports"
)

const serviceName = "ServiceDiscovery"

// Handler reads the Cloud Map side of the live platform: the discovery
// services container services register into, and the shared namespace
// they all live under.
type Handler struct {
	client DiscoveryClientInterface
}

func NewHandler(client DiscoveryClientInterface) *Handler {
	return &Handler{client: client}
}

func NewHandlerFromConfig(cfg aws.Config) *Handler {
	return NewHandler(servicediscovery.NewFromConfig(cfg))
}

// ConfirmServiceAbsent reports whether the discovery service is gone.
func (h *Handler) ConfirmServiceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return false, err
	}

	input := &servicediscovery.GetServiceInput{Id: aws.String(id)}
	output, err := h.client.GetService(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return true, nil
		}
		return false, awserrors.Handle(serviceName, id, err, ctx)
	}
	return output.Service == nil, nil
}

// ConfirmNamespaceAbsent reports whether the shared namespace is gone.
func (h *Handler) ConfirmNamespaceAbsent(ctx context.Context, id string, logger ports.Logger) (bool, error) {
	if err := limiter.Wait(ctx, logger); err != nil {
		return false, err
	}

	input := &servicediscovery.GetNamespaceInput{Id: aws.String(id)}
	output, err := h.client.GetNamespace(ctx, input)
	if err != nil {
		if awserrors.IsNotFound(err) {
			return true, nil
		}
		return false, awserrors.Handle(serviceName, id, err, ctx)
	}
	return output.Namespace == nil, nil
}
