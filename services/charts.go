package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"vehicle-dashboard/models"
)

// Sort orders for the average days listed chart.
const (
	SortAlphabetical = "alphabetical"
	SortAscending    = "ascending"
)

// PriceBins is the number of equal-width bins of the price distribution.
const PriceBins = 30

// Default manufacturers compared by the price distribution.
const (
	DefaultManufacturer1 = "chevrolet"
	DefaultManufacturer2 = "hyundai"
)

var (
	ErrUnknownManufacturer = errors.New("unknown manufacturer")
	ErrInvalidSortOrder    = errors.New("invalid sort order")
)

// ManufacturerOptions returns the distinct manufacturers of listings in
// ascending order.
func ManufacturerOptions(listings []*models.Listing) []string {
	names := lo.Uniq(lo.Map(listings, func(l *models.Listing, _ int) string { return l.Manufacturer }))
	sort.Strings(names)
	return names
}

// BodyTypeHistogram counts listings per manufacturer, split by body type.
func BodyTypeHistogram(listings []*models.Listing) models.StackedHistogram {
	h := stackedHistogram(listings,
		func(l *models.Listing) string { return l.Manufacturer },
		func(l *models.Listing) string { return l.BodyType },
		func(a, b string) bool { return a < b },
	)
	h.Title = "Vehicle types by manufacturer"
	h.XField = models.ColManufacturer
	h.Color = models.ColBodyType
	return h
}

// ConditionHistogram counts listings per model year, split by condition.
func ConditionHistogram(listings []*models.Listing) models.StackedHistogram {
	h := stackedHistogram(listings,
		func(l *models.Listing) string { return strconv.Itoa(l.ModelYear) },
		func(l *models.Listing) string { return l.Condition },
		func(a, b string) bool {
			ai, _ := strconv.Atoi(a)
			bi, _ := strconv.Atoi(b)
			return ai < bi
		},
	)
	h.Title = "Histogram of condition vs model_year"
	h.XField = models.ColModelYear
	h.Color = models.ColCondition
	return h
}

func stackedHistogram(
	listings []*models.Listing,
	xOf, groupOf func(*models.Listing) string,
	less func(a, b string) bool,
) models.StackedHistogram {
	groups := lo.Uniq(lo.Map(listings, func(l *models.Listing, _ int) string { return groupLabel(groupOf(l)) }))
	sort.Strings(groups)

	byX := lo.GroupBy(listings, xOf)
	labels := lo.Keys(byX)
	sort.Slice(labels, func(i, j int) bool { return less(labels[i], labels[j]) })

	bars := make([]models.HistogramBar, 0, len(labels))
	for _, label := range labels {
		counts := lo.CountValuesBy(byX[label], func(l *models.Listing) string { return groupLabel(groupOf(l)) })
		bar := models.HistogramBar{Label: label, Total: len(byX[label])}
		for _, g := range groups {
			if n := counts[g]; n > 0 {
				bar.Segments = append(bar.Segments, models.HistogramSegment{Group: g, Count: n})
			}
		}
		bars = append(bars, bar)
	}
	return models.StackedHistogram{Groups: groups, Bars: bars}
}

// groupLabel names the colour group of a blank category.
func groupLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// ResolveManufacturerPair validates the two manufacturers to compare.
// Blank selections default to chevrolet and hyundai, or to the first
// available manufacturers not already chosen. The same manufacturer is
// returned twice only when it is the only option. With no options and blank
// selections both results are "".
func ResolveManufacturerPair(options []string, m1, m2 string) (string, string, error) {
	picks := [2]string{strings.TrimSpace(m1), strings.TrimSpace(m2)}
	for _, p := range picks {
		if p != "" && !lo.Contains(options, p) {
			return "", "", fmt.Errorf("%w: %q", ErrUnknownManufacturer, p)
		}
	}

	preferred := [2]string{DefaultManufacturer1, DefaultManufacturer2}
	for i := range picks {
		if picks[i] != "" {
			continue
		}
		taken := picks[1-i]
		switch alt, ok := lo.Find(options, func(o string) bool { return o != taken }); {
		case preferred[i] != taken && lo.Contains(options, preferred[i]):
			picks[i] = preferred[i]
		case ok:
			picks[i] = alt
		case len(options) > 0:
			picks[i] = options[0]
		}
	}
	return picks[0], picks[1], nil
}

// PriceDistribution compares the price histograms of two manufacturers over
// PriceBins equal-width bins spanning their combined price range. With
// normalize, each manufacturer's bins are percentages of its own listings.
func PriceDistribution(listings []*models.Listing, m1, m2 string, normalize bool) (models.PriceDistribution, error) {
	options := ManufacturerOptions(listings)
	first, second, err := ResolveManufacturerPair(options, m1, m2)
	if err != nil {
		return models.PriceDistribution{}, err
	}
	dist := models.PriceDistribution{
		Title:      "Compare price distribution between manufacturers",
		Options:    options,
		Normalized: normalize,
	}

	subset := lo.Filter(listings, func(l *models.Listing, _ int) bool {
		return l.Manufacturer == first || l.Manufacturer == second
	})
	if len(subset) == 0 {
		return dist, nil
	}
	selected := lo.Uniq([]string{first, second})

	lowest := lo.MinBy(subset, func(a, b *models.Listing) bool { return a.PriceUSD < b.PriceUSD }).PriceUSD
	highest := lo.MaxBy(subset, func(a, b *models.Listing) bool { return a.PriceUSD > b.PriceUSD }).PriceUSD
	width := (highest - lowest) / PriceBins
	if width == 0 {
		width = 1
	}

	edges := make([]float64, PriceBins+1)
	for i := range edges {
		edges[i] = lowest + float64(i)*width
	}

	byManufacturer := lo.GroupBy(subset, func(l *models.Listing) string { return l.Manufacturer })
	series := make([]models.PriceSeries, 0, len(selected))
	for _, name := range selected {
		rows := byManufacturer[name]
		values := make([]float64, PriceBins)
		for _, l := range rows {
			idx := int(math.Floor((l.PriceUSD - lowest) / width))
			if idx >= PriceBins {
				idx = PriceBins - 1
			}
			if idx < 0 {
				idx = 0
			}
			values[idx]++
		}
		if normalize && len(rows) > 0 {
			for i := range values {
				values[i] = values[i] / float64(len(rows)) * 100
			}
		}
		series = append(series, models.PriceSeries{Manufacturer: name, Listings: len(rows), Values: values})
	}

	dist.Manufacturers = selected
	dist.BinEdges = edges
	dist.Series = series
	return dist, nil
}

// selectManufacturer narrows listings to one manufacturer, or returns them
// all for "All" or a blank selection.
func selectManufacturer(listings []*models.Listing, options []string, manufacturer string) (string, []*models.Listing, error) {
	manufacturer = strings.TrimSpace(manufacturer)
	if manufacturer == "" || manufacturer == AllOption {
		return AllOption, listings, nil
	}
	if !lo.Contains(options, manufacturer) {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownManufacturer, manufacturer)
	}
	return manufacturer, lo.Filter(listings, func(l *models.Listing, _ int) bool {
		return l.Manufacturer == manufacturer
	}), nil
}

func titleFor(prefix, manufacturer string) string {
	if manufacturer == AllOption {
		return prefix + " for All Manufacturers"
	}
	return prefix + " for " + manufacturer
}

// Depreciation builds the odometer vs price scatter for one manufacturer (or
// all), with an ordinary-least-squares trendline per model when trendline is set.
func Depreciation(listings []*models.Listing, manufacturer string, showScatter, trendline bool) (models.Depreciation, error) {
	options := append([]string{AllOption}, ManufacturerOptions(listings)...)
	selected, subset, err := selectManufacturer(listings, options, manufacturer)
	if err != nil {
		return models.Depreciation{}, err
	}

	chart := models.Depreciation{
		Title:        titleFor("Depreciation Rates of Price vs Mileage", selected),
		Manufacturer: selected,
		Options:      options,
		ShowScatter:  showScatter,
		Points:       []models.ScatterPoint{},
		Trendlines:   []models.Trendline{},
	}
	if !showScatter {
		return chart, nil
	}

	chart.Points = lo.Map(subset, func(l *models.Listing, _ int) models.ScatterPoint {
		return models.ScatterPoint{
			Model:     l.Model,
			Odometer:  l.Odometer,
			PriceUSD:  l.PriceUSD,
			ModelYear: l.ModelYear,
			Condition: l.Condition,
		}
	})

	if trendline {
		byModel := lo.GroupBy(subset, func(l *models.Listing) string { return l.Model })
		names := lo.Keys(byModel)
		sort.Strings(names)
		for _, model := range names {
			rows := byModel[model]
			xs := lo.Map(rows, func(l *models.Listing, _ int) float64 { return l.Odometer })
			ys := lo.Map(rows, func(l *models.Listing, _ int) float64 { return l.PriceUSD })
			fit, ok := fitOLS(xs, ys)
			if !ok {
				continue
			}
			chart.Trendlines = append(chart.Trendlines, models.Trendline{
				Model:     model,
				Points:    len(rows),
				Slope:     fit.slope,
				Intercept: fit.intercept,
				RSquared:  fit.rSquared,
				MinX:      lo.Min(xs),
				MaxX:      lo.Max(xs),
			})
		}
	}
	return chart, nil
}

// AverageDaysListed computes the mean days_listed per model for one
// manufacturer (or all). sortOrder is SortAlphabetical (by model name,
// case-sensitive) or SortAscending (by average, ties by name).
func AverageDaysListed(listings []*models.Listing, manufacturer, sortOrder string) (models.DaysListedChart, error) {
	order, err := parseSortOrder(sortOrder)
	if err != nil {
		return models.DaysListedChart{}, err
	}
	options := append([]string{AllOption}, ManufacturerOptions(listings)...)
	selected, subset, err := selectManufacturer(listings, options, manufacturer)
	if err != nil {
		return models.DaysListedChart{}, err
	}

	byModel := lo.GroupBy(subset, func(l *models.Listing) string { return l.Model })
	averages := make([]models.ModelAverage, 0, len(byModel))
	for model, rows := range byModel {
		days := lo.Map(rows, func(l *models.Listing, _ int) float64 { return float64(l.DaysListed) })
		avg, _ := mean(days)
		averages = append(averages, models.ModelAverage{Model: model, Listings: len(rows), AverageListedDays: avg})
	}

	sort.Slice(averages, func(i, j int) bool {
		a, b := averages[i], averages[j]
		if order == SortAscending && a.AverageListedDays != b.AverageListedDays {
			return a.AverageListedDays < b.AverageListedDays
		}
		return a.Model < b.Model
	})

	return models.DaysListedChart{
		Title:        titleFor("Average Listed Days by Model", selected),
		Manufacturer: selected,
		Options:      options,
		SortOrder:    order,
		Models:       averages,
	}, nil
}

// parseSortOrder accepts the API values and the dashboard's radio labels.
func parseSortOrder(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", SortAlphabetical:
		return SortAlphabetical, nil
	case SortAscending, "ascending by average listed days":
		return SortAscending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}
