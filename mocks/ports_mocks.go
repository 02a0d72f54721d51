package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/driftgate/driftgate/internal/core/domain"
	ports "github.com/driftgate/driftgate/internal/core/ports"
)

// MockDesiredStateLoader is a mock implementation of the DesiredStateLoader port
type MockDesiredStateLoader struct {
	mock.Mock
}

func (m *MockDesiredStateLoader) Type() string {
	return m.Called().String(0)
}

func (m *MockDesiredStateLoader) Load(ctx context.Context) (*domain.DesiredSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesiredSet), args.Error(1)
}

// MockStateRepository is a mock implementation of the StateRepository port
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Snapshot(ctx context.Context) (*domain.StateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StateSnapshot), args.Error(1)
}

func (m *MockStateRepository) Lookup(ctx context.Context, address string) (string, bool, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStateRepository) Import(ctx context.Context, address, id string) error {
	return m.Called(ctx, address, id).Error(0)
}

func (m *MockStateRepository) Remove(ctx context.Context, address string) error {
	return m.Called(ctx, address).Error(0)
}

// MockPlatformReader is a mock implementation of the PlatformReader port
type MockPlatformReader struct {
	mock.Mock
}

func (m *MockPlatformReader) FindService(ctx context.Context, name string) (*domain.LiveService, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiveService), args.Error(1)
}

func (m *MockPlatformReader) ListenerRules(ctx context.Context) ([]domain.LiveRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LiveRule), args.Error(1)
}

func (m *MockPlatformReader) ActiveTaskRevisions(ctx context.Context, family string) (int, error) {
	args := m.Called(ctx, family)
	return args.Int(0), args.Error(1)
}

func (m *MockPlatformReader) ConfirmAbsent(ctx context.Context, kind domain.ResourceKind, id string) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

// MockPlanReader is a mock implementation of the PlanReader port
type MockPlanReader struct {
	mock.Mock
}

func (m *MockPlanReader) ScheduledReplacements(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockObserver is a mock implementation of the Observer port
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) Observe(ctx context.Context, desired domain.DesiredService) (domain.Observation, error) {
	args := m.Called(ctx, desired)
	return args.Get(0).(domain.Observation), args.Error(1)
}

// MockReporter is a mock implementation of the Reporter port
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Report(ctx context.Context, report *domain.ReconciliationReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReporter) ReportCleanup(ctx context.Context, report *domain.CleanupReport) error {
	return m.Called(ctx, report).Error(0)
}

// MockAttributeChecker is a mock implementation of the AttributeChecker port
type MockAttributeChecker struct {
	mock.Mock
}

func (m *MockAttributeChecker) Kind() domain.ResourceKind {
	return m.Called().Get(0).(domain.ResourceKind)
}

func (m *MockAttributeChecker) Check(ctx context.Context, desired domain.DesiredService, live *domain.LiveService, activeRevisions int) []domain.Warning {
	args := m.Called(ctx, desired, live, activeRevisions)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Warning)
}

// NopLogger satisfies the Logger port and discards everything. Handy for
// wiring code under test that logs on every path.
type NopLogger struct{}

func (NopLogger) Debugf(ctx context.Context, format string, args ...any) {}

func (NopLogger) Infof(ctx context.Context, format string, args ...any) {}

func (NopLogger) Warnf(ctx context.Context, format string, args ...any) {}

func (NopLogger) Errorf(ctx context.Context, err error, format string, args ...any) {}

func (l NopLogger) WithFields(fields map[string]any) ports.Logger { return l }
