package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

const insertColumns = 15

// PostgresWriter persists cleaned listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS vehicle_listings (
			id           SERIAL PRIMARY KEY,
			manufacturer TEXT          NOT NULL,
			model        TEXT          NOT NULL,
			model_year   INTEGER       NOT NULL,
			body_type    TEXT          NOT NULL DEFAULT '',
			cylinders    DOUBLE PRECISION NOT NULL DEFAULT 0,
			transmission TEXT          NOT NULL DEFAULT '',
			is_4wd       BOOLEAN       NOT NULL DEFAULT FALSE,
			fuel         TEXT          NOT NULL DEFAULT '',
			odometer     DOUBLE PRECISION NOT NULL DEFAULT 0,
			paint_color  TEXT          NOT NULL DEFAULT 'Unspecified',
			condition    TEXT          NOT NULL DEFAULT '',
			price_usd    DOUBLE PRECISION NOT NULL DEFAULT 0,
			days_listed  INTEGER       NOT NULL DEFAULT 0,
			date_posted  TEXT          NOT NULL DEFAULT '',
			imputed      TEXT[]        NOT NULL DEFAULT '{}',
			created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_vehicle_listings_manufacturer ON vehicle_listings(manufacturer);
		CREATE INDEX IF NOT EXISTS idx_vehicle_listings_model        ON vehicle_listings(model);
		CREATE INDEX IF NOT EXISTS idx_vehicle_listings_model_year   ON vehicle_listings(model_year);
	`)
	return err
}

// Write replaces the stored listings with the given ones in a single
// transaction. An empty slice leaves the table empty.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := replaceListings(tx, listings); err != nil {
		return err
	}
	return tx.Commit()
}

// execer is the part of *sql.Tx that replaceListings needs.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const insertBatchSize = 500

func replaceListings(ex execer, listings []*models.Listing) error {
	if _, err := ex.Exec("DELETE FROM vehicle_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for i := 0; i < len(listings); i += insertBatchSize {
		end := min(i+insertBatchSize, len(listings))
		if err := insertBatch(ex, listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func insertBatch(ex execer, batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*insertColumns+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Manufacturer, l.Model, l.ModelYear, l.BodyType, l.Cylinders,
			l.Transmission, bool(l.Is4WD), l.Fuel, l.Odometer, l.PaintColor,
			l.Condition, l.PriceUSD, l.DaysListed, l.DatePosted, pq.Array(l.Imputed))
	}

	query := fmt.Sprintf(`
		INSERT INTO vehicle_listings (manufacturer, model, model_year, body_type, cylinders,
			transmission, is_4wd, fuel, odometer, paint_color,
			condition, price_usd, days_listed, date_posted, imputed)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := ex.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings in insertion order.
func (pw *PostgresWriter) FetchAll() ([]*models.Listing, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rows, err := pw.db.QueryContext(ctx, `
		SELECT id, manufacturer, model, model_year, body_type, cylinders,
			transmission, is_4wd, fuel, odometer, paint_color,
			condition, price_usd, days_listed, date_posted, imputed
		FROM vehicle_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var fourWD bool
		var imputed pq.StringArray
		if err := rows.Scan(
			&l.ID, &l.Manufacturer, &l.Model, &l.ModelYear, &l.BodyType, &l.Cylinders,
			&l.Transmission, &fourWD, &l.Fuel, &l.Odometer, &l.PaintColor,
			&l.Condition, &l.PriceUSD, &l.DaysListed, &l.DatePosted, &imputed,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Is4WD = models.YesNo(fourWD)
		if len(imputed) > 0 {
			l.Imputed = []string(imputed)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
