package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftgate/driftgate/internal/app"
	"github.com/driftgate/driftgate/internal/core/domain"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the pre-apply drift gate and report a pass/fail verdict.",
	Long: `Reconcile loads the desired service map, observes the state store and
the live platform for every entry, classifies drift, imports orphaned
live resources into state, and fails if any blocking finding remains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}

		report, err := application.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		if report.Verdict == domain.VerdictFail {
			return errGateFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
