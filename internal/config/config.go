package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NHL API
	NHLBaseURL string        `envconfig:"NHL_BASE_URL" default:"https://api-web.nhle.com/v1"`
	NHLTimeout time.Duration `envconfig:"NHL_TIMEOUT" default:"30s"`
	// Requests per minute against the NHL API. The boxscore and play-by-play
	// endpoints are hit once per game, so this bounds per-season call volume.
	NHLRateLimit int `envconfig:"NHL_RATE_LIMIT" default:"120"`

	// MoneyPuck CSV endpoints
	MoneyPuckBaseURL   string        `envconfig:"MONEYPUCK_BASE_URL" default:"https://moneypuck.com/moneypuck/playerData"`
	MoneyPuckTimeout   time.Duration `envconfig:"MONEYPUCK_TIMEOUT" default:"60s"`
	MoneyPuckRateLimit int           `envconfig:"MONEYPUCK_RATE_LIMIT" default:"20"`

	// Focus team: shot events and the dashboard package are scoped to this
	// team to bound upstream call volume.
	FocusTeamAbbrev string `envconfig:"FOCUS_TEAM_ABBREV" default:"WSH"`
	FocusTeamID     int    `envconfig:"FOCUS_TEAM_ID" default:"15"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nhl_stats"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nhl_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (dashboard read-path cache; the worker runs without it)
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Backfill
	BackfillSeasons []string `envconfig:"BACKFILL_SEASONS" default:"20232024"`
	IncludePlayoffs bool     `envconfig:"INCLUDE_PLAYOFFS" default:"false"`
	InitialBackfill bool     `envconfig:"INITIAL_BACKFILL" default:"true"`
	EnableScheduler bool     `envconfig:"ENABLE_SCHEDULER" default:"true"`
	RefreshCron     string   `envconfig:"REFRESH_CRON" default:"0 3 * * *"`

	// Caching TTL (in seconds)
	CacheTTLPackage    int `envconfig:"CACHE_TTL_PACKAGE" default:"300"`
	CacheTTLGameDetail int `envconfig:"CACHE_TTL_GAME_DETAIL" default:"120"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

var seasonPattern = regexp.MustCompile(`^\d{8}$`)

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.FocusTeamAbbrev == "" {
		return fmt.Errorf("FOCUS_TEAM_ABBREV is required")
	}

	for _, season := range c.BackfillSeasons {
		if !seasonPattern.MatchString(season) {
			return fmt.Errorf("invalid season %q: expected 8-digit season like 20232024", season)
		}
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// CurrentSeason returns the most recent configured backfill season, which
// is the one the nightly refresh keeps up to date
func (c *Config) CurrentSeason() string {
	if len(c.BackfillSeasons) == 0 {
		return ""
	}
	return c.BackfillSeasons[len(c.BackfillSeasons)-1]
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
