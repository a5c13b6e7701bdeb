package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vehicle-dashboard/services"
	"vehicle-dashboard/storage"
)

var (
	exportOutput   string
	exportPostgres bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Clean the listings CSV and write the result to CSV and optionally PostgreSQL",
	Long: `Reads the raw listings CSV, derives manufacturer, imputes missing values
and writes the cleaned table. With --postgres the table vehicle_listings is
replaced as well, so "serve --source postgres" can start without the CSV.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Cleaned CSV path (CLEAN_CSV_OUTPUT_PATH)")
	exportCmd.Flags().BoolVar(&exportPostgres, "postgres", false, "Also store the cleaned listings in PostgreSQL")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	output := cfg.CleanCSVOutputPath
	if exportOutput != "" {
		output = exportOutput
	}

	load := services.CSVLoader(storage.NewCSVReader(cfg.CSVPath), services.NewCleaner(logger))
	listings, diag, err := load(ctx)
	if err != nil {
		return err
	}
	logger.Info("Cleaned %d listings (%d duplicate rows, %d rows with missing values)",
		len(listings), diag.DuplicateRows, diag.RowsWithMissing)

	csvWriter, err := storage.NewCSVWriter(output)
	if err != nil {
		return err
	}
	writers := []storage.ListingWriter{csvWriter}

	if exportPostgres {
		pgWriter, err := storage.NewPostgresWriter(ctx, cfg.DSN(), retryConfig())
		if err != nil {
			_ = csvWriter.Close()
			return err
		}
		writers = append(writers, pgWriter)
	}

	var failed int
	for _, w := range writers {
		if err := w.Write(listings); err != nil {
			logger.Error("Export failed: %v", err)
			failed++
		}
		if err := w.Close(); err != nil {
			logger.Error("Close failed: %v", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("export: %d of %d destinations failed", failed, len(writers))
	}

	logger.Info("Clean listings saved to %s", output)
	if exportPostgres {
		logger.Info("Clean listings stored in PostgreSQL (table: vehicle_listings)")
	}
	return nil
}
