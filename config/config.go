package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Source site
	SourceURL  string
	SiteOrigin string
	UserAgent  string

	// Redis configuration (ledger persistence)
	RedisAddr string
	RedisDB   int

	// Memcache configuration (listing page cache)
	MemcacheAddr    string
	ListingCacheTTL time.Duration

	// Ledger configuration
	LedgerKey        string
	LedgerMaxEntries int

	// Pipeline configuration
	QualityThreshold int
	DetailLimit      int
	FetchDetail      bool
	FallbackRecent   bool
	Timezone         string

	// Feed configuration
	FeedTitle       string
	FeedDescription string
	FeedMaxAge      int
	StaticMaxAge    int

	// Prerender worker
	OutputDir     string
	PrerenderSpec string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		SourceURL:        getEnv("SOURCE_URL", "https://new.ixbk.net/"),
		SiteOrigin:       getEnv("SITE_ORIGIN", "https://new.ixbk.net"),
		UserAgent:        getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		MemcacheAddr:     getEnv("MEMCACHE_ADDR", "localhost:11211"),
		ListingCacheTTL:  time.Duration(getEnvInt("LISTING_CACHE_SECONDS", 60)) * time.Second,
		LedgerKey:        getEnv("LEDGER_KEY", "published_links"),
		LedgerMaxEntries: getEnvInt("LEDGER_MAX_ENTRIES", 800),
		QualityThreshold: getEnvInt("QUALITY_THRESHOLD", 60),
		DetailLimit:      getEnvInt("DETAIL_LIMIT", 20),
		FetchDetail:      getEnvBool("FETCH_DETAIL", true),
		FallbackRecent:   getEnvBool("FALLBACK_RECENT", true),
		Timezone:         getEnv("TIMEZONE", "Asia/Shanghai"),
		FeedTitle:        getEnv("FEED_TITLE", "羊毛线报 - 线报酷精选"),
		FeedDescription:  getEnv("FEED_DESCRIPTION", "自动抓取线报酷最新羊毛线报，实时更新"),
		FeedMaxAge:       getEnvInt("FEED_MAX_AGE_SECONDS", 1800),
		StaticMaxAge:     getEnvInt("STATIC_MAX_AGE_SECONDS", 300),
		OutputDir:        getEnv("OUTPUT_DIR", "output"),
		PrerenderSpec:    getEnv("PRERENDER_CRON", "*/30 * * * *"),
		Environment:      getEnv("WOOLFEED_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source URL must not be empty")
	}
	if c.SiteOrigin == "" {
		return fmt.Errorf("site origin must not be empty")
	}
	if c.LedgerMaxEntries <= 0 {
		return fmt.Errorf("ledger max entries must be positive, got %d", c.LedgerMaxEntries)
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 100 {
		return fmt.Errorf("quality threshold must be in [0,100], got %d", c.QualityThreshold)
	}
	if c.DetailLimit <= 0 {
		return fmt.Errorf("detail limit must be positive, got %d", c.DetailLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
