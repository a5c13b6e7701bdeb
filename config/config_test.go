package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("VEHICLES_CSV_PATH", "")
	t.Setenv("SMALL_MANUFACTURER_THRESHOLD", "")
	t.Setenv("DATA_SOURCE", "")

	cfg := FromEnv()

	assert.Equal(t, "./vehicles_us.csv", cfg.CSVPath)
	assert.Equal(t, 1000, cfg.SmallManufacturerThreshold)
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VEHICLES_CSV_PATH", "/data/cars.csv")
	t.Setenv("SMALL_MANUFACTURER_THRESHOLD", "250")
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("MAX_CONCURRENCY", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "/data/cars.csv", cfg.CSVPath)
	assert.Equal(t, 250, cfg.SmallManufacturerThreshold)
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, 3, cfg.MaxConcurrency)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "cars",
		PostgresSSLMode:  "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=cars sslmode=require", cfg.DSN())
}
