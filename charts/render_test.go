package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/models"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, img []byte, err error) {
	t.Helper()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature), "output is not a PNG")
}

func TestStackedHistogram(t *testing.T) {
	r := NewRenderer(640, 360)
	img, err := r.StackedHistogram(models.StackedHistogram{
		Title:  "Vehicle Types by Manufacturer",
		Groups: []string{"sedan", "truck"},
		Bars: []models.HistogramBar{
			{Label: "ford", Total: 5, Segments: []models.HistogramSegment{{Group: "sedan", Count: 2}, {Group: "truck", Count: 3}}},
			{Label: "kia", Total: 1, Segments: []models.HistogramSegment{{Group: "sedan", Count: 1}}},
		},
	})
	assertPNG(t, img, err)
}

func TestPriceDistribution(t *testing.T) {
	r := NewRenderer(640, 360)
	img, err := r.PriceDistribution(models.PriceDistribution{
		Title:      "Price distribution",
		Normalized: true,
		BinEdges:   []float64{0, 1000, 2000, 3000},
		Series: []models.PriceSeries{
			{Manufacturer: "chevrolet", Values: []float64{50, 25, 25}},
			{Manufacturer: "hyundai", Values: []float64{0, 100, 0}},
		},
	})
	assertPNG(t, img, err)
}

func TestDepreciation(t *testing.T) {
	r := NewRenderer(640, 360)
	img, err := r.Depreciation(models.Depreciation{
		Title:       "Depreciation",
		ShowScatter: true,
		Points: []models.ScatterPoint{
			{Model: "focus", Odometer: 10000, PriceUSD: 9000},
			{Model: "focus", Odometer: 90000, PriceUSD: 3000},
			{Model: "fiesta", Odometer: 40000, PriceUSD: 5000},
		},
		Trendlines: []models.Trendline{
			{Model: "focus", Slope: -0.075, Intercept: 9750, MinX: 10000, MaxX: 90000},
		},
	})
	assertPNG(t, img, err)
}

func TestDepreciationSinglePoint(t *testing.T) {
	r := NewRenderer(0, 0)
	img, err := r.Depreciation(models.Depreciation{
		ShowScatter: true,
		Points:      []models.ScatterPoint{{Model: "x5", Odometer: 5000, PriceUSD: 30000}},
	})
	assertPNG(t, img, err)
}

func TestDaysListed(t *testing.T) {
	r := NewRenderer(640, 360)
	img, err := r.DaysListed(models.DaysListedChart{
		Title: "Average Listed Days by Model",
		Models: []models.ModelAverage{
			{Model: "malibu", AverageListedDays: 12.5},
			{Model: "silverado", AverageListedDays: 40},
		},
	})
	assertPNG(t, img, err)
}

func TestNoData(t *testing.T) {
	r := NewRenderer(640, 360)

	_, err := r.StackedHistogram(models.StackedHistogram{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.PriceDistribution(models.PriceDistribution{})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.Depreciation(models.Depreciation{ShowScatter: false, Points: []models.ScatterPoint{{Model: "a"}}})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.DaysListed(models.DaysListedChart{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange(5, 5)
	assert.Equal(t, 4.0, r.Min)
	assert.Equal(t, 6.0, r.Max)

	r = paddedRange(0, 10)
	assert.Equal(t, 0.0, r.Min)
	assert.Equal(t, 10.0, r.Max)
}
