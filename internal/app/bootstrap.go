package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/driftgate/driftgate/internal/adapters/desired/compiled"
	hclloader "github.com/driftgate/driftgate/internal/adapters/desired/hcl"
	"github.com/driftgate/driftgate/internal/adapters/platform/aws"
	"github.com/driftgate/driftgate/internal/adapters/state/terraform"
	"github.com/driftgate/driftgate/internal/config"
	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/core/service"
	"github.com/driftgate/driftgate/internal/errors"
	"github.com/driftgate/driftgate/internal/log"
	"github.com/driftgate/driftgate/internal/reporting/json"
	"github.com/driftgate/driftgate/internal/reporting/text"
	"github.com/driftgate/driftgate/internal/resources/container"
	"github.com/driftgate/driftgate/pkg/retry"
)

// BuildApplicationFromViper wires every component from the merged
// configuration: desired-state loader, state repository, plan reader,
// platform reader, observer, corrector, checker, reporter, and the two
// engines on top of them.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	} else {
		logger.Debugf(ctx, "No configuration file found, using defaults/env/flags.")
	}

	gateOverrideStr := v.GetString("gate_override")
	if gateOverrideStr != "" {
		logger.Debugf(ctx, "Applying gate threshold overrides from command line: %s", gateOverrideStr)
		applyGateOverride(&cfg.Gate, gateOverrideStr, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var errorDetails strings.Builder
		errorDetails.WriteString("Configuration validation failed:")
		validationErrors := err.(validator.ValidationErrors)
		for _, fe := range validationErrors {
			errorDetails.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, errorDetails.String(), "Please check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, wrappedErr
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	registry := service.NewComponentRegistry()

	switch cfg.Desired.Type {
	case compiled.LoaderTypeCompiled:
		if cfg.Desired.Compiled == nil {
			return nil, errors.NewUserFacing(errors.CodeConfigValidation, "desired.compiled section is missing", "Set desired.compiled.file_path.")
		}
		loadLog := logger.WithFields(map[string]any{"loader": compiled.LoaderTypeCompiled})
		loader, err := compiled.NewLoader(*cfg.Desired.Compiled, loadLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize compiled desired-state loader")
		}
		if err := registry.RegisterLoader(loader); err != nil {
			return nil, err
		}
		loadLog.Infof(ctx, "Using compiled desired-state document: %s", cfg.Desired.Compiled.FilePath)
	case hclloader.LoaderTypeHCL:
		if cfg.Desired.HCL == nil {
			return nil, errors.NewUserFacing(errors.CodeConfigValidation, "desired.hcl section is missing", "Set desired.hcl.file_path.")
		}
		loadLog := logger.WithFields(map[string]any{"loader": hclloader.LoaderTypeHCL})
		loader, err := hclloader.NewLoader(*cfg.Desired.HCL, loadLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to initialize HCL desired-state loader")
		}
		if err := registry.RegisterLoader(loader); err != nil {
			return nil, err
		}
		loadLog.Infof(ctx, "Using HCL desired-state document: %s", cfg.Desired.HCL.FilePath)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("invalid desired state loader type: %s", cfg.Desired.Type), "Supported: compiled, hcl")
	}
	loader, err := registry.GetLoader(cfg.Desired.Type)
	if err != nil {
		return nil, err
	}

	engineLog := logger.WithFields(map[string]any{"component": "state"})
	cli, err := terraform.NewCLI(cfg.Engine.Config, engineLog)
	if err != nil {
		return nil, err
	}
	repo, err := terraform.NewRepository(cli, engineLog)
	if err != nil {
		return nil, err
	}
	planReader, err := terraform.NewPlanReader(cli, cfg.Engine.PlanFile, engineLog)
	if err != nil {
		return nil, err
	}

	if cfg.Platform.AWS == nil {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation, "no supported platform configured", "Configure platform.aws section.")
	}
	platformLog := logger.WithFields(map[string]any{"component": "platform", "type": aws.ReaderTypeAWS})
	platform, err := aws.NewReader(ctx, *cfg.Platform.AWS, platformLog)
	if err != nil {
		return nil, err
	}
	platformLog.Infof(ctx, "Using AWS platform reader (cluster: %s)", cfg.Platform.AWS.Cluster)

	checker := container.NewChecker(cfg.Gate.ReplicaSkewTolerance, cfg.Gate.MaxActiveRevisions)
	if err := registry.RegisterChecker(checker); err != nil {
		return nil, err
	}
	attributeChecker, err := registry.GetChecker(domain.KindContainerService)
	if err != nil {
		return nil, err
	}

	var reporter ports.Reporter
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText})
		if cfg.Settings.Reporter.Text == nil {
			cfg.Settings.Reporter.Text = config.DefaultConfig().Settings.Reporter.Text
		}
		reporter, err = text.NewReporter(*cfg.Settings.Reporter.Text, reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize text reporter")
		}
	case json.ReporterTypeJSON:
		reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": json.ReporterTypeJSON})
		jsonCfg := cfg.Settings.Reporter.JSON
		if jsonCfg == nil {
			jsonCfg = &json.Config{}
		}
		reporter, err = json.NewReporter(*jsonCfg, reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
		}
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: text, json")
	}

	dryRun := cfg.Settings.DryRun
	policy := retry.DefaultPolicy()

	observer := service.NewStateObserver(repo, platform, logger.WithFields(map[string]any{"component": "observer"}), policy)
	corrector := service.NewCorrector(repo, observer, logger.WithFields(map[string]any{"component": "corrector"}), dryRun)

	engine, err := service.NewReconcileEngine(service.EngineParams{
		Loader:           loader,
		Observer:         observer,
		Corrector:        corrector,
		Platform:         platform,
		Plan:             planReader,
		Checker:          attributeChecker,
		Reporter:         reporter,
		Logger:           logger.WithFields(map[string]any{"component": "engine"}),
		Concurrency:      cfg.Settings.Concurrency,
		NamespaceAddress: cfg.Engine.NamespaceAddress,
		DryRun:           dryRun,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize reconcile engine")
	}

	cleaner, err := service.NewCleanupRunner(repo, platform, reporter,
		logger.WithFields(map[string]any{"component": "cleanup"}), policy, dryRun)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize cleanup runner")
	}

	logger.Infof(ctx, "Application bootstrap complete")
	return &Application{
		Engine:  engine,
		Cleaner: cleaner,
		Repo:    repo,
		Logger:  logger,
		Config:  cfg,
	}, nil
}
