package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/models"
)

func listing(manufacturer, model string, year int, condition string, days int) *models.Listing {
	return &models.Listing{
		Manufacturer: manufacturer,
		Model:        model,
		ModelYear:    year,
		Condition:    condition,
		Cylinders:    6,
		Fuel:         "gas",
		Odometer:     100000,
		Transmission: "automatic",
		BodyType:     "sedan",
		PaintColor:   "white",
		DaysListed:   days,
		PriceUSD:     10000,
	}
}

func filterFixture() []*models.Listing {
	return []*models.Listing{
		listing("ford", "f-150", 2010, "good", 10),
		listing("ford", "focus", 2012, "excellent", 20),
		listing("ford", "f-150", 2012, "good", 30),
		listing("kia", "soul", 2012, "good", 40),
		listing("kia", "sorento", 2015, "fair", 50),
		listing("tesla", "tesla", 2018, "new", 60),
	}
}

func manufacturersOf(listings []*models.Listing) map[string]bool {
	out := map[string]bool{}
	for _, l := range listings {
		out[l.Manufacturer] = true
	}
	return out
}

func TestPopularManufacturersStrictlyAboveThreshold(t *testing.T) {
	all := filterFixture()

	kept := PopularManufacturers(all, 2)

	assert.Equal(t, map[string]bool{"ford": true}, manufacturersOf(kept))
	counts := ManufacturerCounts(all)
	for _, l := range kept {
		assert.Greater(t, counts[l.Manufacturer], 2)
	}
}

func TestNarrowListingsIncludeSmall(t *testing.T) {
	all := filterFixture()

	hidden, err := NarrowListings(all, models.Query{}, 1)
	require.NoError(t, err)
	shown, err := NarrowListings(all, models.Query{IncludeSmall: true}, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"ford": true, "kia": true}, manufacturersOf(hidden))
	assert.Len(t, shown, len(all))
}

func TestApplyFiltersComposesAsAnd(t *testing.T) {
	got, err := ApplyFilters(filterFixture(), map[string]string{
		models.ColModelYear: "2012",
		models.ColCondition: "good",
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, 2012, l.ModelYear)
		assert.Equal(t, "good", l.Condition)
	}
}

func TestApplyFiltersAllIsNoFilter(t *testing.T) {
	all := filterFixture()

	got, err := ApplyFilters(all, map[string]string{
		models.ColManufacturer: AllOption,
		models.ColModel:        "",
	})

	require.NoError(t, err)
	assert.Len(t, got, len(all))
}

func TestApplyFiltersNumericColumns(t *testing.T) {
	all := filterFixture()
	all[0].Cylinders = 8
	all[0].Odometer = 123456.5

	byCylinders, err := ApplyFilters(all, map[string]string{models.ColCylinders: "8"})
	require.NoError(t, err)
	byOdometer, err := ApplyFilters(all, map[string]string{models.ColOdometer: "123456.5"})
	require.NoError(t, err)
	byDrive, err := ApplyFilters(all, map[string]string{models.ColIs4WD: "no"})
	require.NoError(t, err)

	assert.Len(t, byCylinders, 1)
	assert.Len(t, byOdometer, 1)
	assert.Len(t, byDrive, len(all))
}

func TestApplyFiltersUnknownColumn(t *testing.T) {
	_, err := ApplyFilters(filterFixture(), map[string]string{"price": "100"})

	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestFilterOptionsCascade(t *testing.T) {
	opts, err := FilterOptions(filterFixture(), map[string]string{
		models.ColModelYear: "2012",
	})
	require.NoError(t, err)
	require.Len(t, opts, len(FilterColumns))

	year := opts[0]
	assert.Equal(t, models.ColModelYear, year.Column)
	assert.Equal(t, "2012", year.Selected)
	assert.Equal(t, []string{AllOption, "2010", "2012", "2015", "2018"}, year.Options)

	manufacturer := opts[1]
	assert.Equal(t, models.ColManufacturer, manufacturer.Column)
	assert.Equal(t, AllOption, manufacturer.Selected)
	assert.Equal(t, []string{AllOption, "ford", "kia"}, manufacturer.Options)

	model := opts[2]
	assert.Equal(t, []string{AllOption, "focus", "f-150", "soul"}, model.Options)
}

func TestStaleSelectionFallsBackToAll(t *testing.T) {
	filters := map[string]string{
		models.ColManufacturer: "kia",
		models.ColModel:        "focus",
	}

	opts, err := FilterOptions(filterFixture(), filters)
	require.NoError(t, err)
	model := opts[2]
	assert.Equal(t, []string{AllOption, "soul", "sorento"}, model.Options)
	assert.Equal(t, AllOption, model.Selected)

	rows, err := ApplyFilters(filterFixture(), filters)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, map[string]bool{"kia": true}, manufacturersOf(rows))
}

func TestUnofferedValueIsIgnored(t *testing.T) {
	all := filterFixture()

	rows, err := ApplyFilters(all, map[string]string{models.ColManufacturer: "lada"})

	require.NoError(t, err)
	assert.Len(t, rows, len(all))
}
