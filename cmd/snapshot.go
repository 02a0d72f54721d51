package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftgate/driftgate/internal/app"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record the current state-store inventory to a file.",
	Long: `Snapshot captures every tracked resource address and identity from the
state store. Run it before an apply so a later cleanup pass can diff
the post-apply state against it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			return err
		}
		return application.Snapshot(cmd.Context(), snapshotOut)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "driftgate-snapshot.json", "Destination file for the state snapshot")
	rootCmd.AddCommand(snapshotCmd)
}
