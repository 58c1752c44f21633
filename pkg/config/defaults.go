// Package config provides centralized default values for FanHub
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"`)

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil && val > 0 {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue && !isSecret(key) {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// isSecret keeps credentials out of the override log.
func isSecret(key string) bool {
	return strings.Contains(key, "SECRET") || strings.Contains(key, "KEY") || strings.Contains(key, "TOKEN")
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSOrigins        []string
	GinMode            string
	CookieSecure       bool

	// Database
	SQLitePath               string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Auth
	JWTSecret  string
	SessionTTL time.Duration

	// Cart
	CartTTL             time.Duration
	CartCleanupInterval time.Duration

	// Printify
	PrintifyAPIURL      string
	PrintifyAPIKey      string
	PrintifyShopID      string
	PrintifyRPS         float64
	PrintifyBurst       int
	PrintifyMaxAttempts int
	PrintifyBaseBackoff time.Duration
	PrintifyTimeout     time.Duration
	PrintifyCacheTTL    time.Duration

	// Media
	MediaPath      string
	MediaURLPrefix string
	DefaultAvatar  string

	// Email
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	AppURL        string

	// Seeding
	CatalogSeedPath string

	// Logging
	LogDirectory  string
	LogToFile     bool
	LogJSON       bool
	LogLevel      string
	PerfThreshold time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	GinMode = getEnvString("GIN_MODE", "debug")
	CookieSecure = getEnvBool("COOKIE_SECURE", false)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
		"http://[::1]:5173",
	})

	// Database
	SQLitePath = getEnvString("SQLITE_PATH", "data/fanhub.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*7)) * time.Hour

	// Cart
	CartTTL = time.Duration(getEnvInt("CART_TTL_HOURS", 72)) * time.Hour
	CartCleanupInterval = time.Duration(getEnvInt("CART_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Printify
	PrintifyAPIURL = getEnvString("PRINTIFY_API_URL", "https://api.printify.com/v1")
	PrintifyAPIKey = getEnvString("PRINTIFY_API_KEY", "")
	PrintifyShopID = getEnvString("PRINTIFY_SHOP_ID", "")
	PrintifyRPS = getEnvFloat("PRINTIFY_RPS", 2.0)
	PrintifyBurst = getEnvInt("PRINTIFY_BURST", 10)
	PrintifyMaxAttempts = getEnvInt("PRINTIFY_MAX_ATTEMPTS", 3)
	PrintifyBaseBackoff = time.Duration(getEnvInt("PRINTIFY_BASE_BACKOFF_MS", 300)) * time.Millisecond
	PrintifyTimeout = getEnvDuration("PRINTIFY_TIMEOUT", 10*time.Second)
	PrintifyCacheTTL = getEnvDuration("PRINTIFY_CACHE_TTL", 5*time.Minute)

	// Media
	MediaPath = getEnvString("MEDIA_PATH", "data/media")
	MediaURLPrefix = getEnvString("MEDIA_URL_PREFIX", "/media")
	DefaultAvatar = getEnvString("DEFAULT_AVATAR_URL", "https://images.pexels.com/photos/1190297/pexels-photo-1190297.jpeg")

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@fanhub.app")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "FanHub")
	AppURL = getEnvString("APP_URL", "")

	// Seeding
	CatalogSeedPath = getEnvString("CATALOG_SEED_PATH", "")

	// Logging
	LogDirectory = getEnvString("LOG_DIR", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)
	LogLevel = getEnvString("LOG_LEVEL", "info")
	PerfThreshold = getEnvDuration("PERF_SLOW_OPERATION_THRESHOLD", 500*time.Millisecond)
}
