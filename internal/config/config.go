package config

import (
	"time"

	"github.com/spf13/viper"
)

type ProviderMode string

const (
	ProviderModeEmbedded ProviderMode = "embedded" // Local accounts backed by SQLite (default)
	ProviderModeHosted   ProviderMode = "hosted"   // External identity/storage service over HTTP
)

type (
	Config struct {
		HTTP
		Provider
		Database
		Auth
		Audit
		Tasks
		Maintenance
		UI
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Provider struct {
		Mode    ProviderMode
		URL     string // Base URL of the hosted provider
		AnonKey string // Public API key sent with every hosted request
	}
	Database struct {
		Path string
	}
	Auth struct {
		CSRFSecret      string
		SessionLifetime time.Duration // Access token lifetime
		RefreshLifetime time.Duration // Refresh token lifetime
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Audit struct {
		RetentionDays int // Days to keep auth events (default: 90)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8172)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Provider defaults
	v.SetDefault("provider_mode", "embedded")
	v.SetDefault("provider_url", "")
	v.SetDefault("provider_anon_key", "")

	// Auth defaults
	v.SetDefault("auth_csrf_secret", "")          // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "1h")   // Access token lifetime
	v.SetDefault("auth_refresh_lifetime", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// Audit defaults
	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "30 3 * * *") // Daily at 03:30

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Provider: Provider{
			Mode:    ProviderMode(v.GetString("PROVIDER_MODE")),
			URL:     v.GetString("PROVIDER_URL"),
			AnonKey: v.GetString("PROVIDER_ANON_KEY"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			CSRFSecret:       v.GetString("AUTH_CSRF_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			RefreshLifetime:  v.GetDuration("AUTH_REFRESH_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
