package domain

type ResourceKind string

const (
	KindContainerService   ResourceKind = "ContainerService"
	KindTaskDefinition     ResourceKind = "TaskDefinition"
	KindTargetGroup        ResourceKind = "TargetGroup"
	KindRoutingRule        ResourceKind = "RoutingRule"
	KindDiscoveryService   ResourceKind = "DiscoveryService"
	KindDiscoveryNamespace ResourceKind = "DiscoveryNamespace"
	KindUnknown            ResourceKind = "Unknown"
)

func (rk ResourceKind) String() string {
	return string(rk)
}
