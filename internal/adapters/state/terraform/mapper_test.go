package terraform

import (
	"testing"

	tfjson "github.com/hashicorp/terraform-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgate/driftgate/internal/core/domain"
)

func TestMapStateToSnapshot(t *testing.T) {
	state := &tfjson.State{
		Values: &tfjson.StateValues{
			RootModule: &tfjson.StateModule{
				Resources: []*tfjson.StateResource{
					{
						Address:         "aws_ecs_service.legacy_api",
						Mode:            tfjson.ManagedResourceMode,
						Type:            "aws_ecs_service",
						AttributeValues: map[string]interface{}{"id": "svc-arn"},
					},
					{
						Address:         "data.aws_ecs_cluster.demo",
						Mode:            tfjson.DataResourceMode,
						Type:            "aws_ecs_cluster",
						AttributeValues: map[string]interface{}{"id": "cluster-arn"},
					},
					{
						Address: "aws_lb_target_group.legacy_api",
						Mode:    tfjson.ManagedResourceMode,
						Type:    "aws_lb_target_group",
						// Some providers leave id empty and only set arn.
						AttributeValues: map[string]interface{}{"arn": "tg-arn"},
					},
				},
				ChildModules: []*tfjson.StateModule{{
					Address: "module.discovery",
					Resources: []*tfjson.StateResource{{
						Address:         "module.discovery.aws_service_discovery_private_dns_namespace.local",
						Mode:            tfjson.ManagedResourceMode,
						Type:            "aws_service_discovery_private_dns_namespace",
						AttributeValues: map[string]interface{}{"id": "ns-0def"},
					}},
				}},
			},
		},
	}

	snapshot := mapStateToSnapshot(state)
	require.Equal(t, 3, snapshot.Len())

	svc := snapshot.Entries["aws_ecs_service.legacy_api"]
	assert.Equal(t, "svc-arn", svc.ID)
	assert.Equal(t, domain.KindContainerService, svc.Kind)

	tg := snapshot.Entries["aws_lb_target_group.legacy_api"]
	assert.Equal(t, "tg-arn", tg.ID)
	assert.Equal(t, domain.KindTargetGroup, tg.Kind)

	ns := snapshot.Entries["module.discovery.aws_service_discovery_private_dns_namespace.local"]
	assert.Equal(t, domain.KindDiscoveryNamespace, ns.Kind)

	_, hasData := snapshot.Entries["data.aws_ecs_cluster.demo"]
	assert.False(t, hasData)
}

func TestMapStateToSnapshot_EmptyState(t *testing.T) {
	assert.Equal(t, 0, mapStateToSnapshot(nil).Len())
	assert.Equal(t, 0, mapStateToSnapshot(&tfjson.State{}).Len())
}

func TestKindForResourceType(t *testing.T) {
	assert.Equal(t, domain.KindContainerService, kindForResourceType("aws_ecs_service"))
	assert.Equal(t, domain.KindRoutingRule, kindForResourceType("aws_alb_listener_rule"))
	assert.Equal(t, domain.KindUnknown, kindForResourceType("aws_s3_bucket"))
}
