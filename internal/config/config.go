// Package config defines the media-scan configuration and its loading rules.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
)

const (
	defaultServerPort        = 8060
	defaultServerTimeout     = 30
	defaultShutdownTimeout   = 10
	defaultBackendURL        = "http://localhost:8000/api/"
	defaultBackendTimeout    = 20
	defaultRetryAttempts     = 3
	defaultRetryDelay        = 200 * time.Millisecond
	defaultBreakerFailures   = 5
	defaultBreakerTimeout    = 30 * time.Second
	defaultCacheGCTime       = 10 * time.Minute
	defaultCacheSweep        = time.Minute
	defaultRedisAddress      = "localhost:6379"
	defaultRedisKeyPrefix    = "media-scan:"
	defaultReportsPerMinute  = 6
	defaultReportOutputDir   = "reports"
	defaultDailyReportCron   = "0 6 * * *"
	defaultWeeklyReportCron  = "0 7 * * 1"
	defaultComplianceRule    = "decay"
	defaultDashboardTimezone = "UTC"

	// CacheStoreMemory keeps cache entries in process.
	CacheStoreMemory = "memory"
	// CacheStoreRedis keeps cache entries in Redis.
	CacheStoreRedis = "redis"
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Logging   logger.Config   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Reports   ReportsConfig   `yaml:"reports"`
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST"  yaml:"host"`
	Port            int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// BackendConfig points at the data API that owns every record.
type BackendConfig struct {
	BaseURL           string        `env:"BACKEND_API_URL"        yaml:"base_url"`
	Timeout           time.Duration `env:"BACKEND_TIMEOUT"        yaml:"timeout"`
	RetryMaxAttempts  int           `env:"BACKEND_RETRY_ATTEMPTS" yaml:"retry_max_attempts"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	BreakerFailures   int           `yaml:"breaker_failures"`
	BreakerTimeout    time.Duration `yaml:"breaker_timeout"`
}

type CacheConfig struct {
	Store         string        `env:"CACHE_STORE" yaml:"store"`
	GCTime        time.Duration `yaml:"gc_time"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// RedisConfig is used by the redis cache store and the scraping task tracker.
type RedisConfig struct {
	Address   string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password  string `env:"REDIS_PASSWORD" yaml:"password"`
	DB        int    `env:"REDIS_DB"       yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	Enabled   bool   `env:"REDIS_ENABLED"  yaml:"enabled"`
}

type AuthConfig struct {
	// JWTSecret enables bearer auth on mutating routes when set.
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

type DashboardConfig struct {
	Timezone       string `env:"DASHBOARD_TIMEZONE"  yaml:"timezone"`
	ComplianceRule string `env:"COMPLIANCE_RULE"     yaml:"compliance_rule"`
	KeywordsFile   string `env:"SENSITIVE_KEYWORDS"  yaml:"keywords_file"`
}

type ReportsConfig struct {
	OutputDir string         `env:"REPORTS_OUTPUT_DIR" yaml:"output_dir"`
	PerMinute int            `yaml:"per_minute"`
	Schedule  ReportSchedule `yaml:"schedule"`
	Formats   []string       `yaml:"formats"`
}

// ReportSchedule drives the optional report archiving job.
type ReportSchedule struct {
	Enabled bool   `env:"REPORTS_SCHEDULE_ENABLED" yaml:"enabled"`
	Daily   string `yaml:"daily"`
	Weekly  string `yaml:"weekly"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}
	switch c.Cache.Store {
	case CacheStoreMemory:
	case CacheStoreRedis:
		if c.Redis.Address == "" {
			return errors.New("redis.address is required when cache.store is redis")
		}
	default:
		return fmt.Errorf("cache.store %q must be memory or redis", c.Cache.Store)
	}
	switch c.Dashboard.ComplianceRule {
	case "decay", "activity":
	default:
		return fmt.Errorf("dashboard.compliance_rule %q must be decay or activity", c.Dashboard.ComplianceRule)
	}
	if _, tzErr := time.LoadLocation(c.Dashboard.Timezone); tzErr != nil {
		return fmt.Errorf("dashboard.timezone: %w", tzErr)
	}
	return nil
}

// Location returns the dashboard time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads path (optional), applies defaults and env overrides, then validates.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// reports are rendered inside the request
		cfg.Server.WriteTimeout = 2 * defaultServerTimeout * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{
			"http://localhost:5173", // dashboard dev server
			"http://localhost:8080",
		}
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaultBackendURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = defaultBackendTimeout * time.Second
	}
	if cfg.Backend.RetryMaxAttempts == 0 {
		cfg.Backend.RetryMaxAttempts = defaultRetryAttempts
	}
	if cfg.Backend.RetryInitialDelay == 0 {
		cfg.Backend.RetryInitialDelay = defaultRetryDelay
	}
	if cfg.Backend.BreakerFailures == 0 {
		cfg.Backend.BreakerFailures = defaultBreakerFailures
	}
	if cfg.Backend.BreakerTimeout == 0 {
		cfg.Backend.BreakerTimeout = defaultBreakerTimeout
	}

	if cfg.Cache.Store == "" {
		cfg.Cache.Store = CacheStoreMemory
	}
	if cfg.Cache.GCTime == 0 {
		cfg.Cache.GCTime = defaultCacheGCTime
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = defaultCacheSweep
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = defaultRedisKeyPrefix
	}

	if cfg.Dashboard.Timezone == "" {
		cfg.Dashboard.Timezone = defaultDashboardTimezone
	}
	if cfg.Dashboard.ComplianceRule == "" {
		cfg.Dashboard.ComplianceRule = defaultComplianceRule
	}

	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = defaultReportOutputDir
	}
	if cfg.Reports.PerMinute == 0 {
		cfg.Reports.PerMinute = defaultReportsPerMinute
	}
	if cfg.Reports.Schedule.Daily == "" {
		cfg.Reports.Schedule.Daily = defaultDailyReportCron
	}
	if cfg.Reports.Schedule.Weekly == "" {
		cfg.Reports.Schedule.Weekly = defaultWeeklyReportCron
	}
	if len(cfg.Reports.Formats) == 0 {
		cfg.Reports.Formats = []string{"pdf", "xlsx"}
	}
}
