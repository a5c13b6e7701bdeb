package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

const topModelsLimit = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises listings. Price statistics only consider listings with
// a positive price.
func (s *InsightService) Generate(listings []*models.Listing, diag models.DatasetDiagnostics) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByManufacturer: make(map[string]int),
		TopModels:              []models.ModelCount{},
		Diagnostics:            diag,
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.ListingsByManufacturer = ManufacturerCounts(listings)
	report.Manufacturers = len(report.ListingsByManufacturer)

	priced := lo.Filter(listings, func(l *models.Listing, _ int) bool { return l.PriceUSD > 0 })
	if len(priced) > 0 {
		report.MinPrice = priced[0].PriceUSD
		report.MaxPrice = priced[0].PriceUSD
		report.MostExpensive = priced[0]
		var total float64
		for _, l := range priced {
			total += l.PriceUSD
			if l.PriceUSD < report.MinPrice {
				report.MinPrice = l.PriceUSD
			}
			if l.PriceUSD > report.MaxPrice {
				report.MaxPrice = l.PriceUSD
				report.MostExpensive = l
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	type key struct{ manufacturer, model string }
	counts := lo.CountValuesBy(listings, func(l *models.Listing) key { return key{l.Manufacturer, l.Model} })
	for k, n := range counts {
		report.TopModels = append(report.TopModels, models.ModelCount{Manufacturer: k.manufacturer, Model: k.model, Count: n})
	}
	sort.Slice(report.TopModels, func(i, j int) bool {
		a, b := report.TopModels[i], report.TopModels[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Manufacturer != b.Manufacturer {
			return a.Manufacturer < b.Manufacturer
		}
		return a.Model < b.Model
	})
	if len(report.TopModels) > topModelsLimit {
		report.TopModels = report.TopModels[:topModelsLimit]
	}

	s.logger.Debug("[insights] Report over %d listings from %d manufacturers",
		report.TotalListings, report.Manufacturers)
	return report
}

// Print writes a terminal rendition of the report to w.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🚗 VEHICLE LISTINGS INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Manufacturers       : \033[1m%d\033[0m\n", r.Manufacturers)
	fmt.Fprintf(w, "  Duplicate rows      : \033[1m%d\033[0m\n", r.Diagnostics.DuplicateRows)
	fmt.Fprintf(w, "  Rows with missing   : \033[1m%d\033[0m\n", r.Diagnostics.RowsWithMissing)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (USD)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Manufacturer+" "+r.MostExpensive.Model, 50))
		fmt.Fprintf(w, "  Year  : %d\n", r.MostExpensive.ModelYear)
		fmt.Fprintf(w, "  Price : \033[1;31m$%.2f\033[0m\n", r.MostExpensive.PriceUSD)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Most Listed Models\033[0m\n", topModelsLimit)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopModels) == 0 {
		fmt.Fprintf(w, "  No listings found\n")
	}
	for i, m := range r.TopModels {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d\033[0m\n",
			i+1, truncate(m.Manufacturer+" "+m.Model, 38), m.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Manufacturer\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByManufacturer) == 0 {
		fmt.Fprintf(w, "  No manufacturer data\n")
	} else {
		entries := lo.Entries(r.ListingsByManufacturer)
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Value != entries[j].Value {
				return entries[i].Value > entries[j].Value
			}
			return entries[i].Key < entries[j].Key
		})
		top := entries[0].Value
		for _, e := range entries {
			bar := strings.Repeat("█", scaleBar(e.Value, top, 30))
			fmt.Fprintf(w, "  %-16s %s (%d)\n", truncate(e.Key, 16), bar, e.Value)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// scaleBar maps n in [0, max] to a bar of at most width cells, never empty for n > 0.
func scaleBar(n, max, width int) int {
	if max <= 0 || n <= 0 {
		return 0
	}
	cells := n * width / max
	if cells == 0 {
		cells = 1
	}
	return cells
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
