package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/driftgate/driftgate/internal/errors"
)

// Process exit codes. CI gates branch on these: anything blocking the
// apply exits 1, an inoperable toolchain exits 2.
const (
	exitOK          = 0
	exitBlocked     = 1
	exitUnavailable = 2
)

// errGateFailed signals a clean run whose verdict blocks the apply.
var errGateFailed = errors.New("apply gate verdict: FAIL")

var (
	cfgFile      string
	logLevel     string
	logFormat    string
	reporterType string
	desiredPath  string
	engineDir    string
	dryRun       bool
	gateOverride string
)

var rootCmd = &cobra.Command{
	Use:   "driftgate",
	Short: "Pre-apply drift reconciliation gate for declarative service pipelines.",
	Long: `Driftgate compares the desired service map against the provisioning
engine's state store and the live platform, classifies each service's
drift, imports orphaned live resources back into state, and renders a
pass/fail verdict the apply step can gate on.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the CLI and maps the outcome to a process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errGateFailed) {
		return exitBlocked
	}

	printUserFacing(err)
	if apperrors.GetCode(err) == apperrors.CodeToolingUnavailable {
		return exitUnavailable
	}
	return exitBlocked
}

func printUserFacing(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	if userMsg, suggestion, ok := apperrors.GetUserFacingMessage(err); ok {
		fmt.Fprintf(os.Stderr, "Error Details: %s\n", userMsg)
		if suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is config.yaml or .driftgate.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&reporterType, "reporter", "", "Override report output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&desiredPath, "desired", "", "Override the compiled desired-state document path")
	rootCmd.PersistentFlags().StringVar(&engineDir, "engine-dir", "", "Override the provisioning engine working directory")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report corrective actions without mutating state")
	rootCmd.PersistentFlags().StringVar(&gateOverride, "gate", "", "Override gate thresholds (e.g., 'replica_skew_tolerance=1;max_active_revisions=3')")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("settings.reporter", rootCmd.PersistentFlags().Lookup("reporter"))
	viper.BindPFlag("desired.compiled.path", rootCmd.PersistentFlags().Lookup("desired"))
	viper.BindPFlag("engine.dir", rootCmd.PersistentFlags().Lookup("engine-dir"))
	viper.BindPFlag("settings.dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	viper.BindPFlag("gate_override", rootCmd.PersistentFlags().Lookup("gate"))

	viper.SetEnvPrefix("DRIFTGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".driftgate")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
		fmt.Fprintln(os.Stderr, "Config file not found, using defaults and environment variables.")
	}

	return nil
}
