package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"vehicle-dashboard/models"
)

// cleanHeader is the column order of the exported cleaned dataset:
// manufacturer first, price last.
var cleanHeader = []string{
	models.ColManufacturer, models.ColModel, models.ColModelYear, models.ColBodyType,
	models.ColCylinders, models.ColTransmission, models.ColIs4WD, models.ColFuel,
	models.ColOdometer, models.ColPaintColor, models.ColCondition, models.ColDaysListed,
	models.ColDatePosted, models.ColPriceUSD,
}

// CSVWriter writes cleaned listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(cleanHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends the listings to the file.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Manufacturer,
			l.Model,
			strconv.Itoa(l.ModelYear),
			l.BodyType,
			models.FormatNumber(l.Cylinders),
			l.Transmission,
			l.Is4WD.String(),
			l.Fuel,
			models.FormatNumber(l.Odometer),
			l.PaintColor,
			l.Condition,
			strconv.Itoa(l.DaysListed),
			l.DatePosted,
			models.FormatNumber(l.PriceUSD),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
