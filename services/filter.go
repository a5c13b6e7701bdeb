package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"vehicle-dashboard/models"
)

// AllOption is the dropdown value that disables a filter.
const AllOption = "All"

// ErrUnknownColumn is returned for a filter on a column that cannot be filtered.
var ErrUnknownColumn = errors.New("unknown filter column")

// FilterColumns lists the filterable columns in cascade order: each
// dropdown's options are computed after the ones before it are applied.
var FilterColumns = []string{
	models.ColModelYear,
	models.ColManufacturer,
	models.ColModel,
	models.ColCondition,
	models.ColCylinders,
	models.ColFuel,
	models.ColOdometer,
	models.ColTransmission,
	models.ColBodyType,
	models.ColPaintColor,
	models.ColIs4WD,
}

// IsFilterColumn reports whether column can be used in Query.Filters.
func IsFilterColumn(column string) bool {
	return lo.Contains(FilterColumns, column)
}

// ManufacturerCounts returns the number of listings per manufacturer.
func ManufacturerCounts(listings []*models.Listing) map[string]int {
	return lo.CountValuesBy(listings, func(l *models.Listing) string { return l.Manufacturer })
}

// PopularManufacturers keeps listings whose manufacturer has strictly more
// than threshold listings in the given (unfiltered) table.
func PopularManufacturers(listings []*models.Listing, threshold int) []*models.Listing {
	counts := ManufacturerCounts(listings)
	return lo.Filter(listings, func(l *models.Listing, _ int) bool {
		return counts[l.Manufacturer] > threshold
	})
}

// ApplyFilters narrows listings by equality on every selected column.
// Filters compose as a logical AND; "All" and "" select everything. A
// selection the cascade no longer offers falls back to "All", so the rows
// always agree with FilterOptions.
func ApplyFilters(listings []*models.Listing, filters map[string]string) ([]*models.Listing, error) {
	_, rows, err := cascade(listings, filters)
	return rows, err
}

// FilterOptions computes each dropdown's choices, cascading: the options for
// a column come from the table narrowed by the columns before it.
func FilterOptions(listings []*models.Listing, filters map[string]string) ([]models.FilterOption, error) {
	options, _, err := cascade(listings, filters)
	return options, err
}

func cascade(listings []*models.Listing, filters map[string]string) ([]models.FilterOption, []*models.Listing, error) {
	if err := validateFilters(filters); err != nil {
		return nil, nil, err
	}

	options := make([]models.FilterOption, 0, len(FilterColumns))
	current := listings
	for _, col := range FilterColumns {
		values := lo.Uniq(lo.FilterMap(current, func(l *models.Listing, _ int) (string, bool) {
			v, _ := l.Field(col)
			return v, v != ""
		}))

		selected := strings.TrimSpace(filters[col])
		if selected == "" || !lo.Contains(values, selected) {
			selected = AllOption
		}
		options = append(options, models.FilterOption{
			Column:   col,
			Label:    "Filter by " + col,
			Selected: selected,
			Options:  append([]string{AllOption}, values...),
		})
		current = filterColumn(current, col, selected)
	}
	return options, current, nil
}

func filterColumn(listings []*models.Listing, column, value string) []*models.Listing {
	value = strings.TrimSpace(value)
	if value == "" || value == AllOption {
		return listings
	}
	return lo.Filter(listings, func(l *models.Listing, _ int) bool {
		v, _ := l.Field(column)
		return v == value
	})
}

func validateFilters(filters map[string]string) error {
	for col := range filters {
		if !IsFilterColumn(col) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	return nil
}
