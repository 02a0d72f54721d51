package compiled

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/errors"
	"github.com/driftgate/driftgate/mocks"
)

const validDocument = `{
  "version": 1,
  "services": {
    "legacy::api": {
      "image": {"repository": "registry.example.com/legacy/api", "tag": "v42"},
      "container_port": 8080,
      "cpu": 256,
      "memory": 512,
      "desired_count": 2,
      "discovery_name": "api",
      "routing": {
        "protocol": "HTTP",
        "port": 80,
        "priority": 10,
        "path_patterns": ["/api/*"],
        "health_check": {
          "path": "/healthz",
          "port": "traffic-port",
          "matcher": "200",
          "healthy_threshold": 3,
          "unhealthy_threshold": 2
        }
      }
    },
    "legacy::worker": {
      "image": {"repository": "registry.example.com/legacy/worker"},
      "container_port": 9090,
      "desired_count": 1
    }
  }
}`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desired.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newLoaderForDoc(t *testing.T, content string) *Loader {
	t.Helper()
	loader, err := NewLoader(Config{FilePath: writeDocument(t, content)}, mocks.NopLogger{})
	require.NoError(t, err)
	return loader
}

func TestLoad(t *testing.T) {
	loader := newLoaderForDoc(t, validDocument)

	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	api, ok := set.Get(domain.ServiceKey{Application: "legacy", Service: "api"})
	require.True(t, ok)
	assert.Equal(t, "registry.example.com/legacy/api:v42", api.Image.String())
	assert.Equal(t, 8080, api.ContainerPort)
	assert.Equal(t, 2, api.DesiredCount)
	require.NotNil(t, api.Routing)
	assert.Equal(t, 10, api.Routing.Priority)
	assert.Equal(t, "/healthz", api.Routing.HealthCheck.Path)
	assert.Equal(t, "api", api.DiscoveryName)

	worker, ok := set.Get(domain.ServiceKey{Application: "legacy", Service: "worker"})
	require.True(t, ok)
	assert.Nil(t, worker.Routing)
}

func TestLoad_MissingFile(t *testing.T) {
	loader, err := NewLoader(Config{FilePath: filepath.Join(t.TempDir(), "nope.json")}, mocks.NopLogger{})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredReadError, errors.GetCode(err))
}

func TestLoad_InvalidJSON(t *testing.T) {
	loader := newLoaderForDoc(t, "{broken")

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredParseError, errors.GetCode(err))
}

func TestLoad_InvalidKey(t *testing.T) {
	loader := newLoaderForDoc(t, `{"services": {"Bad Key": {"image": {"repository": "r"}, "container_port": 80}}}`)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidServiceKey, errors.GetCode(err))
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	loader := newLoaderForDoc(t, `{"services": {"app::svc": {"image": {"repository": "r"}, "container_port": 80, "replicas": 3}}}`)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredParseError, errors.GetCode(err))
}

func TestLoad_ValidationFailure(t *testing.T) {
	// container_port missing.
	loader := newLoaderForDoc(t, `{"services": {"app::svc": {"image": {"repository": "r"}, "desired_count": 1}}}`)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredParseError, errors.GetCode(err))
}
