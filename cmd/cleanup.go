package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftgate/driftgate/internal/app"
)

var cleanupBefore string

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove state entries whose resources are confirmed gone.",
	Long: `Cleanup diffs the current state store against a pre-apply snapshot and
examines only the entries added since. Entries whose resources are
confirmed absent from the live platform are removed from state;
anything still present, or unverifiable, is retained for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}

		_, err = application.Cleanup(cmd.Context(), cleanupBefore)
		return err
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupBefore, "before", "driftgate-snapshot.json", "Pre-apply snapshot file to diff against")
	rootCmd.AddCommand(cleanupCmd)
}
