package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone AuthMode = "none" // No authentication required (default)
	AuthModeJWT  AuthMode = "jwt"  // Bearer tokens issued by /auth/login
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Auth
		Tasks
		Maintenance
		Metrics
		Demo
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		Path     string // SQLite file
		DSN      string // PostgreSQL connection string
		LogLevel string // silent, error, warn, info
	}
	Catalog struct {
		DefaultLimit        int
		MaxLimit            int
		ReadingListMaxLimit int
	}
	Auth struct {
		Mode        AuthMode
		JWTSecret   string
		TokenExpiry time.Duration
		BcryptCost  int

		// Login throttling, per client IP
		LoginRatePerMinute int
		LoginBurst         int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		OrphanCleanupEnabled  bool
		OrphanCleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Metrics struct {
		Enabled bool
		Path    string
	}
	Demo struct {
		Enabled bool // Read-only instance
	}
)

// postgresDSN builds a connection string from the discrete DB_* variables
// when DATABASE_DSN is not set.
func postgresDSN(v *viper.Viper) string {
	if dsn := v.GetString("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s sslmode=disable",
		v.GetString("DB_HOST"), v.GetString("DB_PORT"), v.GetString("DB_NAME"), v.GetString("DB_USER"))
	if password := v.GetString("DB_PASSWORD"); password != "" {
		dsn += " password=" + password
	}
	return dsn
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "bookshelf")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")

	// Catalog defaults
	v.SetDefault("catalog_default_limit", DefaultPageLimit)
	v.SetDefault("catalog_max_limit", MaxPageLimit)
	v.SetDefault("reading_list_max_limit", MaxPageLimit)

	// Auth defaults
	v.SetDefault("auth_mode", string(AuthModeNone))
	v.SetDefault("auth_jwt_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_token_expiry", "30m") // Access token lifetime
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_login_rate_per_minute", 5)
	v.SetDefault("auth_login_burst", 5)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Maintenance defaults
	v.SetDefault("orphan_cleanup_enabled", false)
	v.SetDefault("orphan_cleanup_schedule", "0 3 * * *")

	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("demo_mode", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      postgresDSN(v),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Catalog: Catalog{
			DefaultLimit:        v.GetInt("CATALOG_DEFAULT_LIMIT"),
			MaxLimit:            v.GetInt("CATALOG_MAX_LIMIT"),
			ReadingListMaxLimit: v.GetInt("READING_LIST_MAX_LIMIT"),
		},
		Auth: Auth{
			Mode:               AuthMode(v.GetString("AUTH_MODE")),
			JWTSecret:          v.GetString("AUTH_JWT_SECRET"),
			TokenExpiry:        v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:         v.GetInt("AUTH_BCRYPT_COST"),
			LoginRatePerMinute: v.GetInt("AUTH_LOGIN_RATE_PER_MINUTE"),
			LoginBurst:         v.GetInt("AUTH_LOGIN_BURST"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			OrphanCleanupEnabled:  v.GetBool("ORPHAN_CLEANUP_ENABLED"),
			OrphanCleanupSchedule: v.GetString("ORPHAN_CLEANUP_SCHEDULE"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
	}
}
