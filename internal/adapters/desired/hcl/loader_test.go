package hcl

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

const validFile = `
service "legacy" "api" {
  image          = "registry.example.com/legacy/api:${env.DRIFTGATE_TEST_TAG}"
  container_port = 8080
  cpu            = 256
  memory         = 512
  desired_count  = 2
  discovery_name = "api"

  routing {
    protocol      = "HTTP"
    port          = 80
    priority      = 10
    path_patterns = ["/api/*"]

    health_check {
      path    = "/healthz"
      matcher = "200"
    }
  }
}

service "legacy" "worker" {
  image          = "registry.example.com/legacy/worker"
  container_port = 9090
  desired_count  = 1
}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DRIFTGATE_TEST_TAG", "v7")

	loader, err := NewLoader(Config{FilePath: writeFile(t, validFile)}, mocks.NopLogger{})
	require.NoError(t, err)

	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	api, ok := set.Get(domain.ServiceKey{Application: "legacy", Service: "api"})
	require.True(t, ok)
	assert.Equal(t, "registry.example.com/legacy/api", api.Image.Repository)
	assert.Equal(t, "v7", api.Image.Tag)
	require.NotNil(t, api.Routing)
	assert.Equal(t, 10, api.Routing.Priority)
	assert.Equal(t, "/healthz", api.Routing.HealthCheck.Path)

	worker, ok := set.Get(domain.ServiceKey{Application: "legacy", Service: "worker"})
	require.True(t, ok)
	assert.Empty(t, worker.Image.Tag)
	assert.Nil(t, worker.Routing)
}

func TestLoad_ParseError(t *testing.T) {
	loader, err := NewLoader(Config{FilePath: writeFile(t, `service "a" {`)}, mocks.NopLogger{})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredParseError, errors.GetCode(err))
}

func TestLoad_BadLabels(t *testing.T) {
	loader, err := NewLoader(Config{FilePath: writeFile(t, `
service "Bad Label" "api" {
  image          = "r"
  container_port = 80
  desired_count  = 1
}
`)}, mocks.NopLogger{})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidServiceKey, errors.GetCode(err))
}

func TestLoad_DuplicateKeys(t *testing.T) {
	loader, err := NewLoader(Config{FilePath: writeFile(t, `
service "app" "svc" {
  image          = "r"
  container_port = 80
  desired_count  = 1
}

service "app" "svc" {
  image          = "r2"
  container_port = 81
  desired_count  = 1
}
`)}, mocks.NopLogger{})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeDesiredParseError, errors.GetCode(err))
}

func TestParseImageRef(t *testing.T) {
	tests := []struct {
		in       string
		repo     string
		tag      string
	}{
		{"repo/app:v1", "repo/app", "v1"},
		{"repo/app", "repo/app", ""},
		{"registry:5000/app", "registry:5000/app", ""},
		{"registry:5000/app:v2", "registry:5000/app", "v2"},
	}
	for _, tc := range tests {
		ref := parseImageRef(tc.in)
		assert.Equal(t, tc.repo, ref.Repository, tc.in)
		assert.Equal(t, tc.tag, ref.Tag, tc.in)
	}
}
