package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestSplitManufacturer(t *testing.T) {
	tests := []struct {
		raw          string
		manufacturer string
		model        string
	}{
		{"ford f-150", "ford", "f-150"},
		{"chevrolet silverado 1500", "chevrolet", "silverado 1500"},
		{"mercedes-benz benze sprinter 2500", "mercedes-benz", "benze sprinter 2500"},
		{"ram ram 1500", "ram", "ram 1500"},
		{"tesla", "tesla", "tesla"},
		{"", "", ""},
		{"ford\tf-150", "ford\tf-150", "ford\tf-150"},
		{"ford  f-150", "ford", " f-150"},
	}

	for _, tt := range tests {
		manufacturer, model := SplitManufacturer(tt.raw)
		if manufacturer != tt.manufacturer || model != tt.model {
			t.Errorf("SplitManufacturer(%q) = (%q, %q); want (%q, %q)",
				tt.raw, manufacturer, model, tt.manufacturer, tt.model)
		}
	}
}

func TestSplitManufacturerReconstructs(t *testing.T) {
	for _, raw := range []string{"ford f-150", "jeep grand cherokee laredo", "ram ram 2500", "gmc sierra", "ford  f-150", " bmw x5"} {
		manufacturer, model := SplitManufacturer(raw)
		assert.Equal(t, raw, manufacturer+" "+model)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"2011.0", 2011, true},
		{" 145000 ", 145000, true},
		{"1,200.5", 1200.5, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseNumber(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseNumber(%q) = (%v, %v); want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1.0", true},
		{"1", true},
		{"true", true},
		{"", false},
		{"0.0", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		if got := parseFlag(tt.raw); got != tt.want {
			t.Errorf("parseFlag(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func imputationFixture() []*models.RawListing {
	return []*models.RawListing{
		{Model: "ford f-150", ModelYear: "2010.0", Cylinders: "8.0", Odometer: "100000.0", Price: "9000", DaysListed: "10", Is4WD: "1.0", PaintColor: "white"},
		{Model: "ford f-150", ModelYear: "2012.0", Cylinders: "6.0", Odometer: "", Price: "12000", DaysListed: "20", PaintColor: ""},
		{Model: "ford f-150", ModelYear: "", Cylinders: "", Odometer: "", Price: "15000", DaysListed: "30"},
		{Model: "ford f-150", ModelYear: "2014.0", Cylinders: "8.0", Odometer: "50000.0", Price: "", DaysListed: "40"},
		{Model: "tesla", ModelYear: "", Cylinders: "", Odometer: "", Price: "40000", DaysListed: ""},
	}
}

func TestCleanDerivesManufacturer(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	require.Len(t, cleaned, 5)
	assert.Equal(t, "ford", cleaned[0].Manufacturer)
	assert.Equal(t, "f-150", cleaned[0].Model)
	assert.Equal(t, "tesla", cleaned[4].Manufacturer)
	assert.Equal(t, "tesla", cleaned[4].Model)
}

func TestCleanImputesModelYearByModelMedian(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	assert.Equal(t, 2012, cleaned[2].ModelYear)
	assert.Contains(t, cleaned[2].Imputed, models.ColModelYear)
	// no tesla has a year: global median
	assert.Equal(t, 2012, cleaned[4].ModelYear)
}

func TestCleanModelYearMedianTruncates(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Model: "kia soul", ModelYear: "2010"},
		{Model: "kia soul", ModelYear: "2013"},
		{Model: "kia soul", ModelYear: ""},
	}

	cleaned := c.Clean(raw)

	assert.Equal(t, 2011, cleaned[2].ModelYear)
}

func TestCleanImputesCylindersByModelMedian(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	assert.Equal(t, 8.0, cleaned[2].Cylinders)
	assert.Equal(t, 8.0, cleaned[4].Cylinders)
	assert.NotContains(t, cleaned[0].Imputed, models.ColCylinders)
}

func TestCleanImputesOdometerByModelYearMean(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Model: "honda civic", ModelYear: "2015", Odometer: "40000"},
		{Model: "honda civic", ModelYear: "2015", Odometer: "60000"},
		{Model: "honda civic", ModelYear: "2015", Odometer: ""},
		{Model: "honda civic", ModelYear: "2005", Odometer: "200000"},
	}

	cleaned := c.Clean(raw)

	assert.Equal(t, 50000.0, cleaned[2].Odometer)
	assert.Contains(t, cleaned[2].Imputed, models.ColOdometer)
}

func TestCleanOdometerFallsBack(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	// (f-150, 2012) has no reading: mean of every f-150
	assert.Equal(t, 75000.0, cleaned[1].Odometer)
	assert.Equal(t, 75000.0, cleaned[2].Odometer)
	// nothing known about teslas: global mean
	assert.Equal(t, 75000.0, cleaned[4].Odometer)
}

func TestCleanLeavesNoMissingNumerics(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	for i, l := range cleaned {
		assert.NotZero(t, l.ModelYear, "row %d model_year", i)
		assert.NotZero(t, l.Cylinders, "row %d cylinders", i)
		assert.NotZero(t, l.Odometer, "row %d odometer", i)
	}
}

func TestCleanPaintColorAndFourWheelDrive(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	assert.Equal(t, "white", cleaned[0].PaintColor)
	assert.Equal(t, models.UnspecifiedColor, cleaned[1].PaintColor)
	assert.Equal(t, models.YesNo(true), cleaned[0].Is4WD)
	assert.Equal(t, "no", cleaned[1].Is4WD.String())
}

func TestCleanPriceAndDaysFallback(t *testing.T) {
	c := NewCleaner(newTestLogger())

	cleaned := c.Clean(imputationFixture())

	assert.Equal(t, 0.0, cleaned[3].PriceUSD)
	assert.Contains(t, cleaned[3].Imputed, models.ColPriceUSD)
	assert.Equal(t, 0, cleaned[4].DaysListed)
	assert.Equal(t, 30, cleaned[2].DaysListed)
}

func TestDiagnoseCountsDuplicatesAndMissing(t *testing.T) {
	c := NewCleaner(newTestLogger())
	full := models.RawListing{
		Price: "100", ModelYear: "2010", Model: "ford focus", Condition: "good", Cylinders: "4",
		Fuel: "gas", Odometer: "1000", Transmission: "manual", Type: "sedan", PaintColor: "blue",
		Is4WD: "1", DaysListed: "5",
	}
	dup := full
	partial := full
	partial.PaintColor = ""
	partial.Is4WD = ""

	d := c.Diagnose([]*models.RawListing{&full, &dup, &partial})

	assert.Equal(t, 3, d.TotalRows)
	assert.Equal(t, 1, d.DuplicateRows)
	assert.Equal(t, 1, d.RowsWithMissing)
	assert.Equal(t, 1, d.MissingByColumn[models.ColPaintColor])
	assert.Equal(t, 1, d.MissingByColumn[models.ColIs4WD])
}

func TestCleanKeepsEveryRow(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Model: strings.Repeat("x", 3)},
		{Model: ""},
	}

	assert.Len(t, c.Clean(raw), 2)
}
