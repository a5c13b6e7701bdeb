package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vehicle-dashboard/config"
	"vehicle-dashboard/services"
	"vehicle-dashboard/storage"
	"vehicle-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	csvPathFlag    string
	dataSourceFlag string
	logLevelFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "Explore the used vehicle listings dataset",
	Long: `vehicles loads the used vehicle listings CSV, cleans it and serves an
interactive dashboard of filters and charts.

Configuration is read from the environment and an optional .env file.
Flags override the matching variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if csvPathFlag != "" {
			cfg.CSVPath = csvPathFlag
		}
		if dataSourceFlag != "" {
			cfg.DataSource = dataSourceFlag
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		logger = utils.NewLoggerWithLevel(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&csvPathFlag, "csv", "", "Path to the listings CSV (VEHICLES_CSV_PATH)")
	rootCmd.PersistentFlags().StringVar(&dataSourceFlag, "source", "", "Dataset source: csv or postgres (DATA_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func retryConfig() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
}

// openDataset builds the loader for the configured source and performs the
// first load. The returned close func releases the source.
func openDataset(ctx context.Context) (*services.Dataset, func(), error) {
	var (
		load    services.LoadFunc
		release = func() {}
	)

	switch cfg.DataSource {
	case config.SourceCSV:
		logger.Info("Reading listings from %s", cfg.CSVPath)
		load = services.CSVLoader(storage.NewCSVReader(cfg.CSVPath), services.NewCleaner(logger))
	case config.SourcePostgres:
		logger.Info("Reading cleaned listings from PostgreSQL")
		pg, err := storage.NewPostgresWriter(ctx, cfg.DSN(), retryConfig())
		if err != nil {
			return nil, nil, err
		}
		load = services.StoredLoader(pg)
		release = func() { _ = pg.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown data source %q (want %q or %q)", cfg.DataSource, config.SourceCSV, config.SourcePostgres)
	}

	ds := services.NewDataset(load, cfg.SmallManufacturerThreshold, logger)
	if _, err := ds.Reload(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return ds, release, nil
}
