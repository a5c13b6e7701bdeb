package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"vehicle-dashboard/models"
)

// ErrMissingColumn is returned when the CSV lacks a required column.
var ErrMissingColumn = errors.New("csv: missing required column")

// naValues are the cell contents treated as missing.
var naValues = []string{"", "NA", "NaN", "nan", "null"}

// CSVReader loads the raw vehicle listings from a CSV file.
type CSVReader struct {
	path string
}

// NewCSVReader returns a reader for the CSV at path. The file is opened on ReadRaw.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// ReadRaw opens the file and parses every row.
func (r *CSVReader) ReadRaw() ([]*models.RawListing, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", r.path, err)
	}
	defer f.Close()

	return ParseRaw(f)
}

// ParseRaw reads a listings CSV from in. Every column is kept as a string so
// that cleaning decides how to interpret it. A header with no data rows
// yields an empty slice.
func ParseRaw(in io.Reader) ([]*models.RawListing, error) {
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv: parse: no header row")
	}

	present := make(map[string]bool, len(records[0]))
	for _, name := range records[0] {
		present[strings.TrimSpace(name)] = true
	}
	for _, col := range models.RequiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	if len(records) == 1 {
		return []*models.RawListing{}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("csv: parse: %w", df.Err)
	}

	n := df.Nrow()
	column := func(name string) []string {
		if !present[name] {
			return make([]string, n)
		}
		return cells(df.Col(name))
	}

	price := column(models.ColPrice)
	year := column(models.ColModelYear)
	model := column(models.ColModel)
	condition := column(models.ColCondition)
	cylinders := column(models.ColCylinders)
	fuel := column(models.ColFuel)
	odometer := column(models.ColOdometer)
	transmission := column(models.ColTransmission)
	bodyType := column(models.ColType)
	paint := column(models.ColPaintColor)
	fourWD := column(models.ColIs4WD)
	days := column(models.ColDaysListed)
	posted := column(models.ColDatePosted)

	out := make([]*models.RawListing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &models.RawListing{
			Price:        price[i],
			ModelYear:    year[i],
			Model:        model[i],
			Condition:    condition[i],
			Cylinders:    cylinders[i],
			Fuel:         fuel[i],
			Odometer:     odometer[i],
			Transmission: transmission[i],
			Type:         bodyType[i],
			PaintColor:   paint[i],
			Is4WD:        fourWD[i],
			DaysListed:   days[i],
			DatePosted:   posted[i],
		})
	}
	return out, nil
}

// cells flattens a series to trimmed strings, with "" for missing entries.
func cells(s series.Series) []string {
	out := make([]string, s.Len())
	for i := range out {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		v := strings.TrimSpace(el.String())
		if v == "NaN" {
			continue
		}
		out[i] = v
	}
	return out
}
