package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Column names as they appear in the source CSV.
const (
	ColPrice        = "price"
	ColModelYear    = "model_year"
	ColModel        = "model"
	ColCondition    = "condition"
	ColCylinders    = "cylinders"
	ColFuel         = "fuel"
	ColOdometer     = "odometer"
	ColTransmission = "transmission"
	ColType         = "type"
	ColPaintColor   = "paint_color"
	ColIs4WD        = "is_4wd"
	ColDaysListed   = "days_listed"
	ColDatePosted   = "date_posted"
)

// Derived or renamed columns of a cleaned Listing.
const (
	ColManufacturer = "manufacturer"
	ColBodyType     = "body_type"
	ColPriceUSD     = "price_usd"
)

// RequiredColumns must all be present in the source CSV.
var RequiredColumns = []string{
	ColPrice, ColModelYear, ColModel, ColCondition, ColCylinders, ColOdometer,
	ColFuel, ColTransmission, ColType, ColPaintColor, ColIs4WD, ColDaysListed,
}

// UnspecifiedColor replaces a missing paint colour.
const UnspecifiedColor = "Unspecified"

// RawListing holds one CSV row exactly as read. Empty fields are missing values.
type RawListing struct {
	Price        string
	ModelYear    string
	Model        string
	Condition    string
	Cylinders    string
	Fuel         string
	Odometer     string
	Transmission string
	Type         string
	PaintColor   string
	Is4WD        string
	DaysListed   string
	DatePosted   string
}

// Key identifies exact duplicate rows.
func (r *RawListing) Key() string {
	return strings.Join([]string{
		r.Price, r.ModelYear, r.Model, r.Condition, r.Cylinders, r.Fuel, r.Odometer,
		r.Transmission, r.Type, r.PaintColor, r.Is4WD, r.DaysListed, r.DatePosted,
	}, "\x1f")
}

// MissingColumns lists the required columns that are empty in this row.
func (r *RawListing) MissingColumns() []string {
	values := map[string]string{
		ColPrice: r.Price, ColModelYear: r.ModelYear, ColModel: r.Model,
		ColCondition: r.Condition, ColCylinders: r.Cylinders, ColOdometer: r.Odometer,
		ColFuel: r.Fuel, ColTransmission: r.Transmission, ColType: r.Type,
		ColPaintColor: r.PaintColor, ColIs4WD: r.Is4WD, ColDaysListed: r.DaysListed,
	}
	var missing []string
	for _, col := range RequiredColumns {
		if strings.TrimSpace(values[col]) == "" {
			missing = append(missing, col)
		}
	}
	return missing
}

// YesNo is a boolean shown as "yes" or "no".
type YesNo bool

func (b YesNo) String() string {
	if b {
		return "yes"
	}
	return "no"
}

func (b YesNo) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *YesNo) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = YesNo(strings.EqualFold(s, "yes"))
	return nil
}

// Listing is one cleaned vehicle advertisement.
type Listing struct {
	ID           int64   `json:"id,omitempty"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	ModelYear    int     `json:"model_year"`
	BodyType     string  `json:"body_type"`
	Cylinders    float64 `json:"cylinders"`
	Transmission string  `json:"transmission"`
	Is4WD        YesNo   `json:"is_4wd"`
	Fuel         string  `json:"fuel"`
	Odometer     float64 `json:"odometer"`
	PaintColor   string  `json:"paint_color"`
	Condition    string  `json:"condition"`
	PriceUSD     float64 `json:"price_usd"`
	DaysListed   int     `json:"days_listed"`
	DatePosted   string  `json:"date_posted,omitempty"`

	// Imputed names the columns whose value was filled in during cleaning.
	Imputed []string `json:"imputed,omitempty"`
}

// Field returns the canonical string form of a column, as used by
// equality filters and dropdown options.
func (l *Listing) Field(column string) (string, bool) {
	switch column {
	case ColManufacturer:
		return l.Manufacturer, true
	case ColModel:
		return l.Model, true
	case ColModelYear:
		return strconv.Itoa(l.ModelYear), true
	case ColBodyType, ColType:
		return l.BodyType, true
	case ColCylinders:
		return FormatNumber(l.Cylinders), true
	case ColTransmission:
		return l.Transmission, true
	case ColIs4WD:
		return l.Is4WD.String(), true
	case ColFuel:
		return l.Fuel, true
	case ColOdometer:
		return FormatNumber(l.Odometer), true
	case ColPaintColor:
		return l.PaintColor, true
	case ColCondition:
		return l.Condition, true
	case ColPriceUSD, ColPrice:
		return FormatNumber(l.PriceUSD), true
	case ColDaysListed:
		return strconv.Itoa(l.DaysListed), true
	case ColDatePosted:
		return l.DatePosted, true
	}
	return "", false
}

// FormatNumber renders a float without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DatasetDiagnostics describes the raw data quality at load time.
type DatasetDiagnostics struct {
	TotalRows       int            `json:"total_rows"`
	DuplicateRows   int            `json:"duplicate_rows"`
	RowsWithMissing int            `json:"rows_with_missing"`
	MissingByColumn map[string]int `json:"missing_by_column"`
}
