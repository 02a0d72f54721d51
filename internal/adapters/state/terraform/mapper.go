package terraform

import (
	tfjson "github.com/hashicorp/terraform-json"

	"github.com/driftgate/driftgate/internal/core/domain"
)

var kindByResourceType = map[string]domain.ResourceKind{
	"aws_ecs_service":                            domain.KindContainerService,
	"aws_ecs_task_definition":                    domain.KindTaskDefinition,
	"aws_lb_target_group":                        domain.KindTargetGroup,
	"aws_alb_target_group":                       domain.KindTargetGroup,
	"aws_lb_listener_rule":                       domain.KindRoutingRule,
	"aws_alb_listener_rule":                      domain.KindRoutingRule,
	"aws_service_discovery_service":              domain.KindDiscoveryService,
	"aws_service_discovery_private_dns_namespace": domain.KindDiscoveryNamespace,
	"aws_service_discovery_public_dns_namespace":  domain.KindDiscoveryNamespace,
	"aws_service_discovery_http_namespace":        domain.KindDiscoveryNamespace,
}

func kindForResourceType(resourceType string) domain.ResourceKind {
	if kind, ok := kindByResourceType[resourceType]; ok {
		return kind
	}
	return domain.KindUnknown
}

// mapStateToSnapshot flattens the engine's module tree into the address
// to identity map the gate works with. Data sources are skipped; only
// managed resources can be imported or removed.
func mapStateToSnapshot(state *tfjson.State) *domain.StateSnapshot {
	snapshot := domain.NewStateSnapshot()
	if state == nil || state.Values == nil || state.Values.RootModule == nil {
		return snapshot
	}
	walkModule(state.Values.RootModule, snapshot)
	return snapshot
}

func walkModule(module *tfjson.StateModule, snapshot *domain.StateSnapshot) {
	if module == nil {
		return
	}
	for _, resource := range module.Resources {
		if resource == nil || resource.Mode != tfjson.ManagedResourceMode {
			continue
		}
		snapshot.Add(domain.StateEntry{
			Address: resource.Address,
			ID:      resourceIdentity(resource),
			Kind:    kindForResourceType(resource.Type),
		})
	}
	for _, child := range module.ChildModules {
		walkModule(child, snapshot)
	}
}

// resourceIdentity prefers the bare id attribute; ECS services track
// their ARN there. Falls back to arn for types whose id is synthetic.
func resourceIdentity(resource *tfjson.StateResource) string {
	if id, ok := resource.AttributeValues["id"].(string); ok && id != "" {
		return id
	}
	if arn, ok := resource.AttributeValues["arn"].(string); ok && arn != "" {
		return arn
	}
	return ""
}
