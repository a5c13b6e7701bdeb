package models

// Query carries the dashboard controls shared by every view.
type Query struct {
	// IncludeSmall keeps manufacturers at or below the popularity threshold.
	IncludeSmall bool
	// Filters maps a filter column to the selected value. "All" or "" is no filter.
	Filters map[string]string
}

// FilterOption is one dropdown: the column and the values it can take
// given the filters before it.
type FilterOption struct {
	Column   string   `json:"column"`
	Label    string   `json:"label"`
	Selected string   `json:"selected"`
	Options  []string `json:"options"`
}

// ModelCount is a model together with its number of listings.
type ModelCount struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Count        int    `json:"count"`
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings          int                `json:"total_listings"`
	Manufacturers          int                `json:"manufacturers"`
	AveragePrice           float64            `json:"average_price"`
	MinPrice               float64            `json:"min_price"`
	MaxPrice               float64            `json:"max_price"`
	MostExpensive          *Listing           `json:"most_expensive,omitempty"`
	TopModels              []ModelCount       `json:"top_models"`
	ListingsByManufacturer map[string]int     `json:"listings_by_manufacturer"`
	Diagnostics            DatasetDiagnostics `json:"diagnostics"`
}

// HistogramSegment is the part of a bar contributed by one colour group.
type HistogramSegment struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// HistogramBar is one x-axis category of a stacked histogram.
type HistogramBar struct {
	Label    string             `json:"label"`
	Total    int                `json:"total"`
	Segments []HistogramSegment `json:"segments"`
}

// StackedHistogram counts rows per (x category, colour group).
type StackedHistogram struct {
	Title  string         `json:"title"`
	XField string         `json:"x_field"`
	Color  string         `json:"color_field"`
	Groups []string       `json:"groups"`
	Bars   []HistogramBar `json:"bars"`
}

// PriceSeries is one manufacturer's price histogram.
type PriceSeries struct {
	Manufacturer string    `json:"manufacturer"`
	Listings     int       `json:"listings"`
	Values       []float64 `json:"values"`
}

// PriceDistribution overlays the price histograms of two manufacturers.
type PriceDistribution struct {
	Title         string        `json:"title"`
	Manufacturers []string      `json:"manufacturers"`
	Options       []string      `json:"options"`
	Normalized    bool          `json:"normalized"`
	BinEdges      []float64     `json:"bin_edges"`
	Series        []PriceSeries `json:"series"`
}

// ScatterPoint is one listing on the depreciation chart.
type ScatterPoint struct {
	Model     string  `json:"model"`
	Odometer  float64 `json:"odometer"`
	PriceUSD  float64 `json:"price_usd"`
	ModelYear int     `json:"model_year"`
	Condition string  `json:"condition"`
}

// Trendline is an ordinary-least-squares fit of price on odometer.
type Trendline struct {
	Model     string  `json:"model"`
	Points    int     `json:"points"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	MinX      float64 `json:"min_x"`
	MaxX      float64 `json:"max_x"`
}

// Depreciation is the odometer vs price scatter plot.
type Depreciation struct {
	Title        string         `json:"title"`
	Manufacturer string         `json:"manufacturer"`
	Options      []string       `json:"options"`
	ShowScatter  bool           `json:"show_scatter"`
	Points       []ScatterPoint `json:"points"`
	Trendlines   []Trendline    `json:"trendlines"`
}

// ModelAverage is the mean days listed for one model.
type ModelAverage struct {
	Model             string  `json:"model"`
	Listings          int     `json:"listings"`
	AverageListedDays float64 `json:"average_listed_days"`
}

// DaysListedChart is the average-days-listed bar chart.
type DaysListedChart struct {
	Title        string         `json:"title"`
	Manufacturer string         `json:"manufacturer"`
	Options      []string       `json:"options"`
	SortOrder    string         `json:"sort_order"`
	Models       []ModelAverage `json:"models"`
}
