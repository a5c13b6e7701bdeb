package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

// Cleaner transforms RawListings into clean Listings: it derives the
// manufacturer, parses numbers and fills missing values group-wise.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// pending tracks which numeric fields were present in the raw row.
type pending struct {
	listing *models.Listing
	hasYear bool
	hasCyl  bool
	hasOdo  bool
}

// Clean processes raw listings and returns cleaned records in the same order.
// No row is dropped.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	rows := make([]*pending, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, c.convert(r))
	}

	c.imputeModelYear(rows)
	c.imputeCylinders(rows)
	c.imputeOdometer(rows)

	result := lo.Map(rows, func(p *pending, _ int) *models.Listing { return p.listing })
	imputed := lo.CountBy(result, func(l *models.Listing) bool { return len(l.Imputed) > 0 })
	c.logger.Info("[cleaner] Cleaned %d listings (%d with imputed values)", len(result), imputed)
	return result
}

// Diagnose counts exact duplicate rows and rows with missing values.
// It is informational only; Clean keeps every row.
func (c *Cleaner) Diagnose(raw []*models.RawListing) models.DatasetDiagnostics {
	d := models.DatasetDiagnostics{
		TotalRows:       len(raw),
		MissingByColumn: make(map[string]int),
	}

	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		key := r.Key()
		if _, dup := seen[key]; dup {
			d.DuplicateRows++
		} else {
			seen[key] = struct{}{}
		}

		missing := r.MissingColumns()
		if len(missing) > 0 {
			d.RowsWithMissing++
		}
		for _, col := range missing {
			d.MissingByColumn[col]++
		}
	}

	c.logger.Info("[cleaner] %d rows, %d duplicates, %d rows with missing values",
		d.TotalRows, d.DuplicateRows, d.RowsWithMissing)
	return d
}

func (c *Cleaner) convert(r *models.RawListing) *pending {
	manufacturer, model := SplitManufacturer(strings.TrimSpace(r.Model))

	l := &models.Listing{
		Manufacturer: manufacturer,
		Model:        model,
		BodyType:     r.Type,
		Transmission: r.Transmission,
		Fuel:         r.Fuel,
		Condition:    r.Condition,
		PaintColor:   r.PaintColor,
		DatePosted:   r.DatePosted,
	}
	p := &pending{listing: l}

	if year, ok := parseNumber(r.ModelYear); ok {
		l.ModelYear = int(year)
		p.hasYear = true
	}
	if cyl, ok := parseNumber(r.Cylinders); ok {
		l.Cylinders = cyl
		p.hasCyl = true
	}
	if odo, ok := parseNumber(r.Odometer); ok {
		l.Odometer = odo
		p.hasOdo = true
	}

	if price, ok := parseNumber(r.Price); ok {
		l.PriceUSD = price
	} else {
		c.logger.Debug("[cleaner] Missing price for %q, using 0", r.Model)
		l.Imputed = append(l.Imputed, models.ColPriceUSD)
	}
	if days, ok := parseNumber(r.DaysListed); ok {
		l.DaysListed = int(days)
	} else {
		l.Imputed = append(l.Imputed, models.ColDaysListed)
	}

	if l.PaintColor == "" {
		l.PaintColor = models.UnspecifiedColor
		l.Imputed = append(l.Imputed, models.ColPaintColor)
	}
	l.Is4WD = models.YesNo(parseFlag(r.Is4WD))

	return p
}

// imputeModelYear fills a missing model year with the median year of the same
// model, truncated to an integer, falling back to the global median.
func (c *Cleaner) imputeModelYear(rows []*pending) {
	byModel := lo.GroupBy(rows, func(p *pending) string { return p.listing.Model })
	present := func(ps []*pending) []float64 {
		return lo.FilterMap(ps, func(p *pending, _ int) (float64, bool) {
			return float64(p.listing.ModelYear), p.hasYear
		})
	}
	global, hasGlobal := median(present(rows))

	for model, group := range byModel {
		m, ok := median(present(group))
		if !ok {
			m, ok = global, hasGlobal
			if ok {
				c.logger.Debug("[cleaner] No model year for any %q listing, using global median", model)
			}
		}
		for _, p := range group {
			if p.hasYear {
				continue
			}
			p.listing.ModelYear = int(m)
			p.hasYear = true
			p.listing.Imputed = append(p.listing.Imputed, models.ColModelYear)
		}
	}
}

// imputeCylinders fills a missing cylinder count with the median of the same
// model, falling back to the global median.
func (c *Cleaner) imputeCylinders(rows []*pending) {
	byModel := lo.GroupBy(rows, func(p *pending) string { return p.listing.Model })
	present := func(ps []*pending) []float64 {
		return lo.FilterMap(ps, func(p *pending, _ int) (float64, bool) {
			return p.listing.Cylinders, p.hasCyl
		})
	}
	global, _ := median(present(rows))

	for _, group := range byModel {
		m, ok := median(present(group))
		if !ok {
			m = global
		}
		for _, p := range group {
			if p.hasCyl {
				continue
			}
			p.listing.Cylinders = m
			p.hasCyl = true
			p.listing.Imputed = append(p.listing.Imputed, models.ColCylinders)
		}
	}
}

type modelYearKey struct {
	model string
	year  int
}

// imputeOdometer fills a missing odometer with the mean reading of the same
// (model, model year), then of the same model, then of every listing.
// It must run after imputeModelYear.
func (c *Cleaner) imputeOdometer(rows []*pending) {
	present := func(ps []*pending) []float64 {
		return lo.FilterMap(ps, func(p *pending, _ int) (float64, bool) {
			return p.listing.Odometer, p.hasOdo
		})
	}
	byModelYear := lo.GroupBy(rows, func(p *pending) modelYearKey {
		return modelYearKey{model: p.listing.Model, year: p.listing.ModelYear}
	})
	byModel := lo.GroupBy(rows, func(p *pending) string { return p.listing.Model })

	modelMeans := make(map[string]float64, len(byModel))
	for model, group := range byModel {
		if m, ok := mean(present(group)); ok {
			modelMeans[model] = m
		}
	}
	global, _ := mean(present(rows))

	for key, group := range byModelYear {
		m, ok := mean(present(group))
		if !ok {
			m, ok = modelMeans[key.model]
		}
		if !ok {
			m = global
		}
		for _, p := range group {
			if p.hasOdo {
				continue
			}
			p.listing.Odometer = m
			p.hasOdo = true
			p.listing.Imputed = append(p.listing.Imputed, models.ColOdometer)
		}
	}
}

// SplitManufacturer splits "<manufacturer> <model name>" at the first single
// space. A value without a space keeps the model unchanged and uses the whole
// value as manufacturer.
func SplitManufacturer(raw string) (manufacturer, model string) {
	manufacturer, model, ok := strings.Cut(raw, " ")
	if !ok {
		return raw, raw
	}
	return manufacturer, model
}

// parseNumber parses a numeric cell. Blank, NaN and garbage are missing.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseFlag reads the four-wheel-drive flag. Missing means false.
func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "0", "0.0", "false", "no":
		return false
	case "true", "yes":
		return true
	}
	v, ok := parseNumber(s)
	return ok && v != 0
}
