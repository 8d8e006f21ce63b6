package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-ingestion-service/internal/pipeline"
)

// Store backends
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Catalog store
	StoreBackend string
	DataFilePath string

	// Database (postgres backend only)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisURL     string
	CacheEnabled bool

	// NATS
	NATSURL       string
	EventsEnabled bool

	// Supplier API
	SupplierAPIURL   string
	SupplierAPIToken string

	// Pipeline settings file (optional JSON override)
	PipelineConfigPath string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "false"))
	eventsEnabled, _ := strconv.ParseBool(getEnv("EVENTS_ENABLED", "false"))

	return &Config{
		// Server
		Port:        getEnv("PORT", "8094"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Catalog store
		StoreBackend: getEnv("STORE_BACKEND", StoreBackendFile),
		DataFilePath: getEnv("DATA_FILE_PATH", "data/catalog.json"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "catalog_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheEnabled: cacheEnabled,

		// NATS
		NATSURL:       getEnv("NATS_URL", "nats://localhost:4222"),
		EventsEnabled: eventsEnabled,

		// Supplier API
		SupplierAPIURL:   getEnv("SUPPLIER_API_URL", "https://developers.cjdropshipping.com"),
		SupplierAPIToken: getEnv("SUPPLIER_API_TOKEN", ""),

		// Pipeline
		PipelineConfigPath: getEnv("PIPELINE_CONFIG_PATH", ""),
	}
}

// LoadPipelineConfig returns the default pipeline settings, overlaid
// with the JSON file at PipelineConfigPath when one is configured.
func LoadPipelineConfig(cfg *Config) (pipeline.Config, error) {
	pc := pipeline.DefaultConfig()
	if cfg.PipelineConfigPath == "" {
		return pc, nil
	}

	data, err := os.ReadFile(cfg.PipelineConfigPath)
	if err != nil {
		return pc, fmt.Errorf("failed to read pipeline config %s: %w", cfg.PipelineConfigPath, err)
	}
	if err := json.Unmarshal(data, &pc); err != nil {
		return pc, fmt.Errorf("failed to parse pipeline config %s: %w", cfg.PipelineConfigPath, err)
	}
	return pc, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
