package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	// Desired-state document errors.
	CodeDesiredReadError  Code = "DESIRED_READ_ERROR"
	CodeDesiredParseError Code = "DESIRED_PARSE_ERROR"
	CodeInvalidServiceKey Code = "INVALID_SERVICE_KEY"

	// Observed-state errors. TransientLookup degrades a single key, it never
	// aborts the run; ToolingUnavailable aborts before classification begins.
	CodeTransientLookup    Code = "TRANSIENT_LOOKUP_ERROR"
	CodeToolingUnavailable Code = "TOOLING_UNAVAILABLE"
	CodeStateReadError     Code = "STATE_READ_ERROR"
	CodeStateParseError    Code = "STATE_PARSE_ERROR"
	CodePlatformAPIError   Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError  Code = "PLATFORM_AUTH_ERROR"
	CodeResourceNotFound   Code = "RESOURCE_NOT_FOUND"

	// Reconciliation verdict errors. Both are blocking for the apply gate.
	CodeStructuralConflict Code = "STRUCTURAL_CONFLICT"
	CodeImportFailure      Code = "IMPORT_FAILURE"

	CodeSnapshotReadError  Code = "SNAPSHOT_READ_ERROR"
	CodeSnapshotParseError Code = "SNAPSHOT_PARSE_ERROR"
	CodeTimeout            Code = "TIMEOUT_ERROR"
)

func (c Code) String() string {
	return string(c)
}
