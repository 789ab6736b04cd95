package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// UJS portal settings
	PortalBaseURL string
	PortalName    string

	// Docket searcher settings
	SearchTimeout time.Duration
	HeadlessMode  bool
	UserAgent     string
	BrowserPath   string

	// Grade prediction service
	GradeServiceURL     string
	GradeServiceTimeout time.Duration

	// Concurrency settings
	MaxConcurrentSearches int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "./data/petition_builder.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		PortalBaseURL:   getEnv("UJS_BASE_URL", "https://ujsportal.pacourts.us"),
		PortalName:      getEnv("UJS_PORTAL_NAME", "PA Unified Judicial System"),
		GradeServiceURL: getEnv("GRADE_SERVICE_URL", "http://localhost:8800/grades"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		BrowserPath:     getEnv("ROD_BROWSER_PATH", ""),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	searchTimeout, err := strconv.Atoi(getEnv("SEARCH_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_TIMEOUT: %w", err)
	}
	cfg.SearchTimeout = time.Duration(searchTimeout) * time.Second

	gradeTimeout, err := strconv.Atoi(getEnv("GRADE_SERVICE_TIMEOUT", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRADE_SERVICE_TIMEOUT: %w", err)
	}
	cfg.GradeServiceTimeout = time.Duration(gradeTimeout) * time.Second

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"

	cfg.MaxConcurrentSearches, err = strconv.Atoi(getEnv("MAX_CONCURRENT_SEARCHES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_SEARCHES: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
