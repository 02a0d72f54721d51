package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"github.com/driftgate/driftgate/internal/errors"
)

// Mock implementation of smithy.APIError for testing
type mockAPIError struct {
	errorCode string
	errorMsg  string
}

func (m *mockAPIError) Error() string {
	return m.errorMsg
}

func (m *mockAPIError) ErrorCode() string {
	return m.errorCode
}

func (m *mockAPIError) ErrorMessage() string {
	return m.errorMsg
}

func (m *mockAPIError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultUnknown
}

func TestHandle(t *testing.T) {
	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name         string
		service      string
		resourceID   string
		err          error
		ctx          context.Context
		expectedCode errors.Code
	}{
		{
			name:         "nil error",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          nil,
			ctx:          context.Background(),
			expectedCode: errors.CodeInternal,
		},
		{
			name:         "canceled context",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          fmt.Errorf("some error"),
			ctx:          canceledCtx,
			expectedCode: errors.CodePlatformAPIError,
		},
		{
			name:         "throttling code",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          &mockAPIError{errorCode: "ThrottlingException", errorMsg: "Rate exceeded"},
			ctx:          context.Background(),
			expectedCode: errors.CodeTransientLookup,
		},
		{
			name:         "request limit message",
			service:      "ELBv2",
			resourceID:   "rule-1",
			err:          fmt.Errorf("RequestLimitExceeded: slow down"),
			ctx:          context.Background(),
			expectedCode: errors.CodeTransientLookup,
		},
		{
			name:         "auth failure",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          fmt.Errorf("AccessDenied: not allowed"),
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformAuthError,
		},
		{
			name:         "ecs service not found",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          &mockAPIError{errorCode: "ServiceNotFoundException", errorMsg: "no such service"},
			ctx:          context.Background(),
			expectedCode: errors.CodeResourceNotFound,
		},
		{
			name:         "elb target group not found",
			service:      "ELBv2",
			resourceID:   "tg-1",
			err:          &mockAPIError{errorCode: "TargetGroupNotFound", errorMsg: "gone"},
			ctx:          context.Background(),
			expectedCode: errors.CodeResourceNotFound,
		},
		{
			name:         "cloud map namespace not found",
			service:      "ServiceDiscovery",
			resourceID:   "ns-1",
			err:          &mockAPIError{errorCode: "NamespaceNotFound", errorMsg: "gone"},
			ctx:          context.Background(),
			expectedCode: errors.CodeResourceNotFound,
		},
		{
			name:         "generic API error",
			service:      "ECS",
			resourceID:   "svc-1",
			err:          fmt.Errorf("some generic error"),
			ctx:          context.Background(),
			expectedCode: errors.CodePlatformAPIError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Handle(tc.service, tc.resourceID, tc.err, tc.ctx)
			assert.Equal(t, tc.expectedCode, errors.GetCode(result))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsNotFound(&mockAPIError{errorCode: "ServiceNotFound", errorMsg: "gone"}))
	assert.True(t, IsNotFound(fmt.Errorf("resource does not exist")))
	assert.False(t, IsNotFound(&mockAPIError{errorCode: "ThrottlingException", errorMsg: "Rate exceeded"}))
	assert.False(t, IsNotFound(fmt.Errorf("internal failure")))
}
