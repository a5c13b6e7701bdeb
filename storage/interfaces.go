package storage

import "vehicle-dashboard/models"

// ListingWriter is the interface any storage backend for cleaned listings must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

var (
	_ ListingWriter = (*CSVWriter)(nil)
	_ ListingWriter = (*PostgresWriter)(nil)
)
