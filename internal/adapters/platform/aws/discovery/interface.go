package discovery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/servicediscovery"
)

type DiscoveryClientInterface interface {
	GetService(ctx context.Context, params *servicediscovery.GetServiceInput, optFns ...func(*servicediscovery.Options)) (*servicediscovery.GetServiceOutput, error)
	GetNamespace(ctx context.Context, params *servicediscovery.GetNamespaceInput, optFns ...func(*servicediscovery.Options)) (*servicediscovery.GetNamespaceOutput, error)
}
