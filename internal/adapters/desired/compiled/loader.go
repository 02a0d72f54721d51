// Package compiled loads the desired-state document the typed-config
// compiler emits: a JSON map keyed "application::service".
package compiled

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

const LoaderTypeCompiled = "compiled"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	FilePath string `yaml:"path" mapstructure:"path" validate:"required"`
}

type Loader struct {
	config   Config
	logger   ports.Logger
	validate *validator.Validate
}

func NewLoader(cfg Config, logger ports.Logger) (*Loader, error) {
	if cfg.FilePath == "" {
		return nil, errors.New(errors.CodeConfigValidation, "compiled desired-state path cannot be empty")
	}
	return &Loader{
		config:   cfg,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (l *Loader) Type() string { return LoaderTypeCompiled }

// document is the compiler's output envelope. Service bodies stay raw
// maps here; mapstructure turns each one into a typed entry so unknown
// fields surface as decode errors instead of being silently dropped.
type document struct {
	Version  int                       `json:"version"`
	Services map[string]map[string]any `json:"services"`
}

type rawHealthCheck struct {
	Path               string `mapstructure:"path"`
	Port               string `mapstructure:"port"`
	Matcher            string `mapstructure:"matcher"`
	HealthyThreshold   int    `mapstructure:"healthy_threshold"`
	UnhealthyThreshold int    `mapstructure:"unhealthy_threshold"`
}

type rawRouting struct {
	Protocol     string         `mapstructure:"protocol"`
	Port         int            `mapstructure:"port"`
	Priority     int            `mapstructure:"priority" validate:"required,min=1,max=50000"`
	PathPatterns []string       `mapstructure:"path_patterns"`
	HostHeaders  []string       `mapstructure:"host_headers"`
	HealthCheck  rawHealthCheck `mapstructure:"health_check"`
}

type rawImage struct {
	Repository string `mapstructure:"repository" validate:"required"`
	Tag        string `mapstructure:"tag"`
}

type rawService struct {
	Image         rawImage    `mapstructure:"image" validate:"required"`
	ContainerPort int         `mapstructure:"container_port" validate:"required,min=1,max=65535"`
	CPU           int         `mapstructure:"cpu" validate:"min=0"`
	Memory        int         `mapstructure:"memory" validate:"min=0"`
	DesiredCount  int         `mapstructure:"desired_count" validate:"min=0"`
	Routing       *rawRouting `mapstructure:"routing"`
	DiscoveryName string      `mapstructure:"discovery_name"`
	StateAddress  string      `mapstructure:"state_address"`
}

func (l *Loader) Load(ctx context.Context) (*domain.DesiredSet, error) {
	data, err := os.ReadFile(l.config.FilePath)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeDesiredReadError,
			fmt.Sprintf("cannot read desired-state document %s", l.config.FilePath),
			"Run the config compiler first, or point desired.compiled.path at its output.")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeDesiredParseError,
			fmt.Sprintf("desired-state document %s is not valid JSON", l.config.FilePath))
	}

	services := make([]domain.DesiredService, 0, len(doc.Services))
	for rawKey, body := range doc.Services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, err := domain.ParseServiceKey(rawKey)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidServiceKey,
				fmt.Sprintf("desired-state entry %q", rawKey))
		}

		var raw rawService
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &raw,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed building desired-state decoder")
		}
		if err := decoder.Decode(body); err != nil {
			return nil, errors.Wrap(err, errors.CodeDesiredParseError,
				fmt.Sprintf("desired-state entry %q has an invalid body", rawKey))
		}

		if err := l.validate.StructCtx(ctx, raw); err != nil {
			return nil, errors.WrapUserFacing(err, errors.CodeDesiredParseError,
				fmt.Sprintf("desired-state entry %q failed validation", rawKey),
				"Fix the service definition and recompile the document.")
		}

		services = append(services, mapRawToDesired(key, raw))
	}

	set, err := domain.NewDesiredSet(services...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDesiredParseError, "desired-state document is inconsistent")
	}

	l.logger.Infof(ctx, "Loaded %d desired services from %s", set.Len(), l.config.FilePath)
	return set, nil
}

func mapRawToDesired(key domain.ServiceKey, raw rawService) domain.DesiredService {
	desired := domain.DesiredService{
		Key:           key,
		Image:         domain.ImageRef{Repository: raw.Image.Repository, Tag: raw.Image.Tag},
		ContainerPort: raw.ContainerPort,
		CPU:           raw.CPU,
		Memory:        raw.Memory,
		DesiredCount:  raw.DesiredCount,
		DiscoveryName: raw.DiscoveryName,
		StateAddress:  raw.StateAddress,
	}
	if raw.Routing != nil {
		desired.Routing = &domain.Routing{
			Protocol:     raw.Routing.Protocol,
			Port:         raw.Routing.Port,
			Priority:     raw.Routing.Priority,
			PathPatterns: raw.Routing.PathPatterns,
			HostHeaders:  raw.Routing.HostHeaders,
			HealthCheck: domain.HealthCheck{
				Path:               raw.Routing.HealthCheck.Path,
				Port:               raw.Routing.HealthCheck.Port,
				Matcher:            raw.Routing.HealthCheck.Matcher,
				HealthyThreshold:   raw.Routing.HealthCheck.HealthyThreshold,
				UnhealthyThreshold: raw.Routing.HealthCheck.UnhealthyThreshold,
			},
		}
	}
	return desired
}
