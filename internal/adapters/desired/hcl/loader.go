// Package hcl loads hand-written service blocks for pipelines that do
// not run the typed-config compiler. The file format mirrors the
// compiled document one block per service:
//
//	service "legacy" "api" {
//	  image          = "registry.example.com/legacy/api:${env.TAG}"
//	  container_port = 8080
//	  desired_count  = 2
//	  routing {
//	    priority = 10
//	    health_check { path = "/healthz" }
//	  }
//	}
package hcl

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

const LoaderTypeHCL = "hcl"

type Config struct {
	FilePath string `yaml:"path" mapstructure:"path" validate:"required"`
}

type Loader struct {
	config Config
	logger ports.Logger
}

func NewLoader(cfg Config, logger ports.Logger) (*Loader, error) {
	if cfg.FilePath == "" {
		return nil, errors.New(errors.CodeConfigValidation, "hcl desired-state path cannot be empty")
	}
	return &Loader{config: cfg, logger: logger}, nil
}

func (l *Loader) Type() string { return LoaderTypeHCL }

type hclHealthCheck struct {
	Path               string `hcl:"path,optional"`
	Port               string `hcl:"port,optional"`
	Matcher            string `hcl:"matcher,optional"`
	HealthyThreshold   int    `hcl:"healthy_threshold,optional"`
	UnhealthyThreshold int    `hcl:"unhealthy_threshold,optional"`
}

type hclRouting struct {
	Protocol     string          `hcl:"protocol,optional"`
	Port         int             `hcl:"port,optional"`
	Priority     int             `hcl:"priority"`
	PathPatterns []string        `hcl:"path_patterns,optional"`
	HostHeaders  []string        `hcl:"host_headers,optional"`
	HealthCheck  *hclHealthCheck `hcl:"health_check,block"`
}

type hclService struct {
	Application   string      `hcl:"application,label"`
	Service       string      `hcl:"service,label"`
	Image         string      `hcl:"image"`
	ContainerPort int         `hcl:"container_port"`
	CPU           int         `hcl:"cpu,optional"`
	Memory        int         `hcl:"memory,optional"`
	DesiredCount  int         `hcl:"desired_count"`
	DiscoveryName string      `hcl:"discovery_name,optional"`
	StateAddress  string      `hcl:"state_address,optional"`
	Routing       *hclRouting `hcl:"routing,block"`
}

type hclRoot struct {
	Services []hclService `hcl:"service,block"`
}

func (l *Loader) Load(ctx context.Context) (*domain.DesiredSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.config.FilePath)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeDesiredReadError,
			"cannot read desired-state file "+l.config.FilePath,
			"Point desired.hcl.path at an existing service definition file.")
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, l.config.FilePath)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.CodeDesiredParseError,
			"failed parsing desired-state file "+l.config.FilePath)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.CodeDesiredParseError,
			"failed decoding service blocks in "+l.config.FilePath)
	}

	services := make([]domain.DesiredService, 0, len(root.Services))
	for _, block := range root.Services {
		key, err := domain.ParseServiceKey(block.Application + domain.KeySeparator + block.Service)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidServiceKey,
				"service block labels are not a valid key")
		}
		services = append(services, mapBlockToDesired(key, block))
	}

	set, err := domain.NewDesiredSet(services...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDesiredParseError, "desired-state file is inconsistent")
	}

	l.logger.Infof(ctx, "Loaded %d desired services from %s", set.Len(), l.config.FilePath)
	return set, nil
}

// evalContext exposes the process environment as an env object so image
// tags and names can interpolate pipeline variables.
func evalContext() *hcl.EvalContext {
	envValues := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if idx := strings.Index(kv, "="); idx > 0 {
			envValues[kv[:idx]] = cty.StringVal(kv[idx+1:])
		}
	}
	var env cty.Value
	if len(envValues) == 0 {
		env = cty.EmptyObjectVal
	} else {
		env = cty.ObjectVal(envValues)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func mapBlockToDesired(key domain.ServiceKey, block hclService) domain.DesiredService {
	desired := domain.DesiredService{
		Key:           key,
		Image:         parseImageRef(block.Image),
		ContainerPort: block.ContainerPort,
		CPU:           block.CPU,
		Memory:        block.Memory,
		DesiredCount:  block.DesiredCount,
		DiscoveryName: block.DiscoveryName,
		StateAddress:  block.StateAddress,
	}
	if block.Routing != nil {
		routing := &domain.Routing{
			Protocol:     block.Routing.Protocol,
			Port:         block.Routing.Port,
			Priority:     block.Routing.Priority,
			PathPatterns: block.Routing.PathPatterns,
			HostHeaders:  block.Routing.HostHeaders,
		}
		if block.Routing.HealthCheck != nil {
			routing.HealthCheck = domain.HealthCheck{
				Path:               block.Routing.HealthCheck.Path,
				Port:               block.Routing.HealthCheck.Port,
				Matcher:            block.Routing.HealthCheck.Matcher,
				HealthyThreshold:   block.Routing.HealthCheck.HealthyThreshold,
				UnhealthyThreshold: block.Routing.HealthCheck.UnhealthyThreshold,
			}
		}
		desired.Routing = routing
	}
	return desired
}

// parseImageRef splits "repository:tag", leaving the tag empty when the
// reference has none. A port in the registry host is not a tag.
func parseImageRef(image string) domain.ImageRef {
	idx := strings.LastIndex(image, ":")
	if idx < 0 || strings.Contains(image[idx+1:], "/") {
		return domain.ImageRef{Repository: image}
	}
	return domain.ImageRef{Repository: image[:idx], Tag: image[idx+1:]}
}
