package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
	"vehicle-dashboard/utils"
)

var (
	chartsDir          string
	chartsIncludeSmall bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render every dashboard chart to PNG files",
	Long: `Renders the five dashboard charts with their default controls
(all manufacturers, chevrolet vs hyundai price comparison, trendlines on,
alphabetical model order) into a directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, release, err := openDataset(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		listings, err := ds.Narrow(models.Query{IncludeSmall: chartsIncludeSmall})
		if err != nil {
			return err
		}

		dir := cfg.ChartOutputDir
		if chartsDir != "" {
			dir = chartsDir
		}
		renderer := charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)
		written, err := renderCharts(listings, renderer, dir, cfg.MaxConcurrency, logger)
		logger.Info("Wrote %d charts to %s", written, dir)
		return err
	},
}

func init() {
	chartsCmd.Flags().StringVarP(&chartsDir, "dir", "d", "", "Output directory (CHART_OUTPUT_DIR)")
	chartsCmd.Flags().BoolVar(&chartsIncludeSmall, "include-small", false, "Include manufacturers at or below SMALL_MANUFACTURER_THRESHOLD")
	rootCmd.AddCommand(chartsCmd)
}

type chartJob struct {
	name   string
	render func() ([]byte, error)
}

func chartJobs(listings []*models.Listing, r *charts.Renderer) []chartJob {
	return []chartJob{
		{"body-types", func() ([]byte, error) {
			return r.StackedHistogram(services.BodyTypeHistogram(listings))
		}},
		{"condition-years", func() ([]byte, error) {
			return r.StackedHistogram(services.ConditionHistogram(listings))
		}},
		{"price-distribution", func() ([]byte, error) {
			d, err := services.PriceDistribution(listings, "", "", true)
			if err != nil {
				return nil, err
			}
			return r.PriceDistribution(d)
		}},
		{"depreciation", func() ([]byte, error) {
			d, err := services.Depreciation(listings, services.AllOption, true, true)
			if err != nil {
				return nil, err
			}
			return r.Depreciation(d)
		}},
		{"days-listed", func() ([]byte, error) {
			d, err := services.AverageDaysListed(listings, services.AllOption, services.SortAlphabetical)
			if err != nil {
				return nil, err
			}
			return r.DaysListed(d)
		}},
	}
}

// renderCharts renders every chart on a bounded worker pool. Charts with no
// data are skipped with a warning; other failures are joined into the error.
func renderCharts(listings []*models.Listing, r *charts.Renderer, dir string, workers int, logger *utils.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("charts: create output dir: %w", err)
	}

	var written atomic.Int32
	pool := utils.NewWorkerPool(workers)
	for _, job := range chartJobs(listings, r) {
		pool.Submit(func() error {
			img, err := job.render()
			if errors.Is(err, charts.ErrNoData) {
				logger.Warn("[charts] %s: nothing to draw, skipped", job.name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", job.name, err)
			}
			path := filepath.Join(dir, job.name+".png")
			if err := os.WriteFile(path, img, 0644); err != nil {
				return fmt.Errorf("%s: %w", job.name, err)
			}
			written.Add(1)
			logger.Debug("[charts] wrote %s", path)
			return nil
		})
	}

	errs := pool.Wait()
	return int(written.Load()), errors.Join(errs...)
}
