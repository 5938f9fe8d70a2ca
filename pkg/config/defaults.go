// Package config provides centralized default values for the portfolio API
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loaded configuration overrides from .env file")
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

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret is getEnvString without echoing the value.
func getEnvSecret(key string) string {
	val := os.Getenv(key)
	if val != "" {
		log.Printf("Config override: %s=****", key)
	}
	return val
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
	log.Printf("Config override: %s=%v (default: %v)", key, out, defaultValue)
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBDriver                 string
	SQLitePath               string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration
	BootstrapSchema          bool

	// Identity
	JWTSecret     string
	TokenTTL      time.Duration
	AdminPassword string
	AdminUserID   string
	AdminUserIDs  []string
	AdminRoles    []string

	// Object Storage
	StorageEndpoint        string
	StorageRegion          string
	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StorageForcePathStyle  bool

	// Deletion
	DangerZoneEnabled     bool
	BucketListPageSize    int
	BucketRemoveBatchSize int
	BucketDeadlineMargin  time.Duration
	DeletionTimeBudget    time.Duration

	// Storage Metrics
	MetricsTimeBudget      time.Duration
	MaxFilesPerBucketScan  int
	PlanDBMaxSizeMB        int
	PlanBucketMaxSizeMB    int
	ExcludedBucketPrefixes []string

	// Email
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	PortfolioURL  string
	OwnerName     string

	// Logging
	LogLevel     string
	LogDirectory string
	LogToFile    bool
	LogJSON      bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	SQLitePath = getEnvString("SQLITE_PATH", "db/portfolio.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)
	BootstrapSchema = getEnvBool("DB_BOOTSTRAP_SCHEMA", true)

	// Identity
	JWTSecret = getEnvSecret("JWT_SECRET")
	TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)
	AdminPassword = getEnvSecret("ADMIN_PASSWORD")
	AdminUserID = getEnvString("ADMIN_USER_ID", "admin")
	AdminUserIDs = getEnvList("ADMIN_USER_IDS", nil)
	AdminRoles = getEnvList("ADMIN_ROLES", []string{"admin", "service_role"})

	// Object Storage
	StorageEndpoint = getEnvString("STORAGE_ENDPOINT", "")
	StorageRegion = getEnvString("STORAGE_REGION", "us-east-1")
	StorageAccessKeyID = getEnvSecret("STORAGE_ACCESS_KEY_ID")
	StorageSecretAccessKey = getEnvSecret("STORAGE_SECRET_ACCESS_KEY")
	StorageForcePathStyle = getEnvBool("STORAGE_FORCE_PATH_STYLE", true)

	// Deletion
	DangerZoneEnabled = getEnvBool("DANGER_ZONE_ENABLED", true)
	BucketListPageSize = getEnvInt("BUCKET_LIST_PAGE_SIZE", 100)
	BucketRemoveBatchSize = getEnvInt("BUCKET_REMOVE_BATCH_SIZE", 1000)
	BucketDeadlineMargin = getEnvDuration("BUCKET_DEADLINE_MARGIN", 500*time.Millisecond)
	DeletionTimeBudget = getEnvDuration("DELETION_TIME_BUDGET", 25*time.Second)

	// Storage Metrics
	MetricsTimeBudget = getEnvDuration("METRICS_TIME_BUDGET", 4500*time.Millisecond)
	MaxFilesPerBucketScan = getEnvInt("MAX_FILES_PER_BUCKET_SCAN", 5000)
	PlanDBMaxSizeMB = getEnvInt("PLAN_DB_MAX_SIZE_MB", 1024)
	PlanBucketMaxSizeMB = getEnvInt("PLAN_BUCKET_MAX_SIZE_MB", 10240)
	ExcludedBucketPrefixes = getEnvList("EXCLUDED_BUCKET_PREFIXES", []string{"supabase-", "migrations"})

	// Email
	ResendAPIKey = getEnvSecret("RESEND_API_KEY")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@example.com")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Portfolio")
	PortfolioURL = getEnvString("PORTFOLIO_URL", "http://localhost:3000")
	OwnerName = getEnvString("PORTFOLIO_OWNER_NAME", "Portfolio Owner")

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)
}
