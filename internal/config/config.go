package config

import (
	"github.com/driftgate/driftgate/internal/adapters/desired/compiled"
	hclloader "github.com/driftgate/driftgate/internal/adapters/desired/hcl"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws"
	"github.com/driftgate/driftgate/internal/adapters/state/terraform"
	"github.com/driftgate/driftgate/internal/log"
	"github.com/driftgate/driftgate/internal/reporting/json"
	"github.com/driftgate/driftgate/internal/reporting/text"
)

type Config struct {
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`
	Desired  DesiredConfig  `yaml:"desired" mapstructure:"desired"`
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Platform PlatformConfig `yaml:"platform" mapstructure:"platform"`
	Gate     GateConfig     `yaml:"gate" mapstructure:"gate"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `yaml:"log_level" mapstructure:"log_level"`
	LogFormat    log.Format      `yaml:"log_format" mapstructure:"log_format"`
	Concurrency  int             `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0"`
	ReporterType string          `yaml:"reporter" mapstructure:"reporter" validate:"oneof=text json"`
	Reporter     ReporterConfigs `yaml:"reporter_config" mapstructure:"reporter_config"`
	DryRun       bool            `yaml:"dry_run" mapstructure:"dry_run"`
}

// DesiredConfig selects the desired-state loader. Type names which
// sub-config applies; the matching sub-config must be present.
type DesiredConfig struct {
	Type     string             `yaml:"type" mapstructure:"type" validate:"oneof=compiled hcl"`
	Compiled *compiled.Config   `yaml:"compiled,omitempty" mapstructure:"compiled"`
	HCL      *hclloader.Config  `yaml:"hcl,omitempty" mapstructure:"hcl"`
}

// EngineConfig covers the provisioning engine the state store lives in.
// NamespaceAddress is the state address of the shared discovery
// namespace; a scheduled replacement of it short-circuits the run.
type EngineConfig struct {
	terraform.Config `yaml:",inline" mapstructure:",squash"`

	NamespaceAddress string `yaml:"namespace_address" mapstructure:"namespace_address"`
}

type PlatformConfig struct {
	AWS *aws.Config `yaml:"aws,omitempty" mapstructure:"aws"`
}

// GateConfig holds the advisory-warning thresholds.
type GateConfig struct {
	ReplicaSkewTolerance int `yaml:"replica_skew_tolerance" mapstructure:"replica_skew_tolerance" validate:"gte=0"`
	MaxActiveRevisions   int `yaml:"max_active_revisions" mapstructure:"max_active_revisions" validate:"gte=0"`
}

type ReporterConfigs struct {
	Text *text.Config `yaml:"text,omitempty" mapstructure:"text"`
	JSON *json.Config `yaml:"json,omitempty" mapstructure:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  10,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Desired: DesiredConfig{
			Type: compiled.LoaderTypeCompiled,
		},
		Engine: EngineConfig{
			Config: terraform.Config{Dir: "."},
		},
		Platform: PlatformConfig{},
		Gate: GateConfig{
			ReplicaSkewTolerance: 0,
			MaxActiveRevisions:   5,
		},
	}
}
