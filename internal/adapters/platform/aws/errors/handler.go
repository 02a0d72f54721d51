package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/driftgate/driftgate/internal/errors"
)

// Handle maps an AWS SDK error onto the application error taxonomy.
// Throttling and timeouts become transient lookup errors so the retry
// policy keeps trying them; auth and not-found keep their own codes so
// callers can short-circuit instead of retrying.
// service: the AWS service touched (e.g. "ECS", "ELBv2")
// resourceID: the identifier the call was about
func Handle(service, resourceID string, err error, ctx context.Context) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error in AWS error handler for %s", service))
	}

	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), errors.CodePlatformAPIError,
			fmt.Sprintf("context canceled during AWS %s API call", service))
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return errors.Wrap(err, errors.CodePlatformAPIError,
			fmt.Sprintf("context canceled during AWS %s API call", service))
	}

	errMsg := err.Error()

	if isTransientError(err, errMsg) {
		return errors.Wrap(err, errors.CodeTransientLookup,
			fmt.Sprintf("transient AWS %s error accessing %s", service, resourceID))
	}

	if strings.Contains(errMsg, "AuthFailure") ||
		strings.Contains(errMsg, "UnauthorizedOperation") ||
		strings.Contains(errMsg, "AccessDenied") ||
		strings.Contains(errMsg, "ExpiredToken") {
		return errors.Wrap(err, errors.CodePlatformAuthError,
			fmt.Sprintf("AWS authentication error accessing %s %s", service, resourceID))
	}

	if IsNotFound(err) {
		return errors.Wrap(err, errors.CodeResourceNotFound,
			fmt.Sprintf("%s resource %q not found", service, resourceID))
	}

	return errors.Wrap(err, errors.CodePlatformAPIError,
		fmt.Sprintf("failed AWS %s call for %q", service, resourceID))
}

// IsNotFound reports whether err means the resource does not exist, as
// opposed to a failed call. Cleanup relies on this distinction: only a
// definite not-found may confirm absence.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if code, ok := apiErrorCode(err); ok {
		return isNotFoundErrorCode(code)
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "NotFound") ||
		strings.Contains(errMsg, "not found") ||
		strings.Contains(errMsg, "does not exist")
}

func isTransientError(err error, errMsg string) bool {
	if code, ok := apiErrorCode(err); ok {
		switch code {
		case "Throttling", "ThrottlingException", "RequestLimitExceeded",
			"TooManyRequestsException", "RequestThrottled",
			"RequestTimeout", "ServiceUnavailable", "InternalServiceError":
			return true
		}
	}
	return strings.Contains(errMsg, "Throttling") ||
		strings.Contains(errMsg, "RequestLimitExceeded") ||
		strings.Contains(errMsg, "ServiceUnavailable") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "i/o timeout")
}

func apiErrorCode(err error) (string, bool) {
	// Type assertion first so mock errors in tests work without smithy.
	if mockErr, ok := err.(interface{ ErrorCode() string }); ok && mockErr != nil {
		return mockErr.ErrorCode(), true
	}
	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) && apiErr != nil {
		return apiErr.ErrorCode(), true
	}
	return "", false
}

func isNotFoundErrorCode(code string) bool {
	notFoundCodes := []string{
		// ECS
		"ClusterNotFoundException",
		"ServiceNotFoundException",
		"ServiceNotActiveException",

		// ELBv2
		"TargetGroupNotFound",
		"RuleNotFound",
		"ListenerNotFound",
		"LoadBalancerNotFound",

		// Cloud Map
		"ServiceNotFound",
		"NamespaceNotFound",
		"InstanceNotFound",

		// Generic
		"ResourceNotFoundException",
		"NotFoundException",
	}

	for _, nfCode := range notFoundCodes {
		if code == nfCode {
			return true
		}
	}
	return false
}
