package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data sources for the cleaned dataset.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CSVPath    string
	DataSource string
	HTTPAddr   string
	LogLevel   string

	SmallManufacturerThreshold int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	MaxRetries     int

	CleanCSVOutputPath string
	ChartOutputDir     string
	ChartWidth         int
	ChartHeight        int

	ChromeBin    string
	SnapshotURL  string
	SnapshotPath string
}

// Load reads the .env file (if any) and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		CSVPath:    getEnv("VEHICLES_CSV_PATH", "./vehicles_us.csv"),
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		HTTPAddr:   getEnv("HTTP_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		SmallManufacturerThreshold: getEnvInt("SMALL_MANUFACTURER_THRESHOLD", 1000),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "vehicles"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "vehicles"),
		PostgresDB:       getEnv("POSTGRES_DB", "vehicles_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		CleanCSVOutputPath: getEnv("CLEAN_CSV_OUTPUT_PATH", "./output/vehicles_clean.csv"),
		ChartOutputDir:     getEnv("CHART_OUTPUT_DIR", "./output/charts"),
		ChartWidth:         getEnvInt("CHART_WIDTH", 1024),
		ChartHeight:        getEnvInt("CHART_HEIGHT", 576),

		ChromeBin:    getEnv("CHROME_BIN", ""),
		SnapshotURL:  getEnv("SNAPSHOT_URL", "http://localhost:8080/"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("[config] Invalid int for %s=%q, using default %d", key, val, fallback)
		return fallback
	}
	return n
}
