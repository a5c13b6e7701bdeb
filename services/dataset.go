package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

// LoadFunc produces a fresh cleaned dataset.
type LoadFunc func(ctx context.Context) ([]*models.Listing, models.DatasetDiagnostics, error)

// RawReader is a source of unprocessed CSV rows.
type RawReader interface {
	ReadRaw() ([]*models.RawListing, error)
}

// ListingFetcher is a source of already cleaned listings.
type ListingFetcher interface {
	FetchAll() ([]*models.Listing, error)
}

// CSVLoader reads raw rows and cleans them.
func CSVLoader(reader RawReader, cleaner *Cleaner) LoadFunc {
	return func(ctx context.Context) ([]*models.Listing, models.DatasetDiagnostics, error) {
		raw, err := reader.ReadRaw()
		if err != nil {
			return nil, models.DatasetDiagnostics{}, err
		}
		if err := ctx.Err(); err != nil {
			return nil, models.DatasetDiagnostics{}, err
		}
		diag := cleaner.Diagnose(raw)
		return cleaner.Clean(raw), diag, nil
	}
}

// StoredLoader returns listings that were cleaned and persisted earlier.
// Raw-data diagnostics are not available for them.
func StoredLoader(fetcher ListingFetcher) LoadFunc {
	return func(ctx context.Context) ([]*models.Listing, models.DatasetDiagnostics, error) {
		listings, err := fetcher.FetchAll()
		if err != nil {
			return nil, models.DatasetDiagnostics{}, err
		}
		return listings, models.DatasetDiagnostics{
			TotalRows:       len(listings),
			MissingByColumn: map[string]int{},
		}, nil
	}
}

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	Listings    []*models.Listing
	Diagnostics models.DatasetDiagnostics
	LoadedAt    time.Time
}

// Dataset holds the current Snapshot and narrows it per request.
// Reload swaps the snapshot atomically; readers never see a partial load.
type Dataset struct {
	load      LoadFunc
	threshold int
	logger    *utils.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewDataset creates an empty Dataset. Call Reload before serving.
func NewDataset(load LoadFunc, threshold int, logger *utils.Logger) *Dataset {
	return &Dataset{
		load:      load,
		threshold: threshold,
		logger:    logger,
		snap:      &Snapshot{},
	}
}

// Reload runs the loader and replaces the current snapshot on success.
func (d *Dataset) Reload(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	listings, diag, err := d.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset: load: %w", err)
	}

	snap := &Snapshot{Listings: listings, Diagnostics: diag, LoadedAt: time.Now()}
	d.mu.Lock()
	d.snap = snap
	d.mu.Unlock()

	d.logger.Info("[dataset] Loaded %d listings in %v", len(listings), time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// Snapshot returns the current snapshot.
func (d *Dataset) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Threshold is the listing count a manufacturer must exceed to be shown by default.
func (d *Dataset) Threshold() int {
	return d.threshold
}

// Narrow applies the popularity toggle and the equality filters of q to the
// current snapshot.
func (d *Dataset) Narrow(q models.Query) ([]*models.Listing, error) {
	return NarrowListings(d.Snapshot().Listings, q, d.threshold)
}

// Options returns the cascaded dropdown options for q.
func (d *Dataset) Options(q models.Query) ([]models.FilterOption, error) {
	return FilterOptions(d.popular(q), q.Filters)
}

func (d *Dataset) popular(q models.Query) []*models.Listing {
	listings := d.Snapshot().Listings
	if q.IncludeSmall {
		return listings
	}
	return PopularManufacturers(listings, d.threshold)
}

// NarrowListings drops small manufacturers unless q.IncludeSmall, then
// applies q.Filters.
func NarrowListings(all []*models.Listing, q models.Query, threshold int) ([]*models.Listing, error) {
	listings := all
	if !q.IncludeSmall {
		listings = PopularManufacturers(all, threshold)
	}
	return ApplyFilters(listings, q.Filters)
}
