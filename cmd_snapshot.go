package main

import (
	"github.com/spf13/cobra"

	"vehicle-dashboard/snapshot"
)

var (
	snapshotURL    string
	snapshotOutput string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Screenshot a running dashboard with headless Chrome",
	Long: `Opens the dashboard in headless Chrome, waits for the charts to load and
saves a full-page PNG. Start "vehicles serve" first. The browser binary is
taken from CHROME_BIN or discovered on the system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := cfg.SnapshotURL
		if snapshotURL != "" {
			url = snapshotURL
		}
		path := cfg.SnapshotPath
		if snapshotOutput != "" {
			path = snapshotOutput
		}
		return snapshot.New(cfg, logger).Capture(cmd.Context(), url, path)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "Dashboard URL including any query string (SNAPSHOT_URL)")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "PNG output path (SNAPSHOT_PATH)")
	rootCmd.AddCommand(snapshotCmd)
}
