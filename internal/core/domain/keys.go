package domain

const (
	// Common Keys
	KeyName = "name"
	KeyARN  = "arn"
	KeyID   = "id"

	// Attribute names used in drift and warning details.
	KeyDesiredCount     = "desired_count"
	KeyRunningCount     = "running_count"
	KeyTaskDefinition   = "task_definition"
	KeyTaskFamily       = "task_family"
	KeyImage            = "image"
	KeyContainerPort    = "container_port"
	KeyHealthCheckPath  = "health_check_path"
	KeyRoutingPriority  = "routing_priority"
	KeyDiscoveryName    = "discovery_name"
	KeyActiveRevisions  = "active_revisions"
	KeySanitizedName    = "sanitized_name"
	KeyStateAddress     = "state_address"
	KeyPlatformIdentity = "platform_identity"
)
