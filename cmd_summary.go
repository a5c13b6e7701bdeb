package main

import (
	"os"

	"github.com/spf13/cobra"

	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
)

var summaryIncludeSmall bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dataset insights and data quality diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, release, err := openDataset(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		listings, err := ds.Narrow(models.Query{IncludeSmall: summaryIncludeSmall})
		if err != nil {
			return err
		}
		svc := services.NewInsightService(logger)
		svc.Print(os.Stdout, svc.Generate(listings, ds.Snapshot().Diagnostics))
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryIncludeSmall, "include-small", false, "Include manufacturers at or below SMALL_MANUFACTURER_THRESHOLD")
	rootCmd.AddCommand(summaryCmd)
}
