package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/g2b-insight/g2b-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// G2BConfig holds configuration of the procurement open API
type G2BConfig struct {
	ServiceKey          string        `mapstructure:"service_key"`          // data.go.kr access credential
	BaseURL             string        `mapstructure:"base_url"`             // e.g. https://apis.data.go.kr/1230000
	PageSize            int           `mapstructure:"page_size"`            // numOfRows per request
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`         // per request timeout
	MaxPages            int           `mapstructure:"max_pages"`            // upper bound of pages per sub-endpoint
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`  // request pacing across all sub-endpoints
	Burst               int           `mapstructure:"burst"`                // limiter burst
	CategoryConcurrency int           `mapstructure:"category_concurrency"` // sub-endpoints walked at once
	RetryMaxElapsed     time.Duration `mapstructure:"retry_max_elapsed"`    // total backoff budget for 429 responses
}

// ScheduleConfig holds configuration of the periodic trigger
type ScheduleConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	DaysBack   int           `mapstructure:"days_back"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// EnrichmentConfig holds configuration of the enrichment post-pass
type EnrichmentConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	BatchSize    int  `mapstructure:"batch_size"`    // notices analyzed per pass
	HistoryLimit int  `mapstructure:"history_limit"` // awards sampled per agency
}

// IngesterConfig holds configuration for the ingester service
type IngesterConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	G2B        G2BConfig        `mapstructure:"g2b"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
}

// EnricherConfig holds configuration for the standalone enricher
type EnricherConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
}

// LoadIngesterConfig loads configuration for the ingester service
func LoadIngesterConfig(configFile string, envPath string) (*IngesterConfig, error) {
	v := configureViper("ingester", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setEnrichmentDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 600) // a manual run answers when it is done
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("g2b.base_url", "https://apis.data.go.kr/1230000")
	v.SetDefault("g2b.page_size", 100)
	v.SetDefault("g2b.http_timeout", "30s")
	v.SetDefault("g2b.max_pages", 1000)
	v.SetDefault("g2b.requests_per_second", 5)
	v.SetDefault("g2b.burst", 1)
	v.SetDefault("g2b.category_concurrency", 1)
	v.SetDefault("g2b.retry_max_elapsed", "1m")
	v.SetDefault("schedule.interval", "1h")
	v.SetDefault("schedule.days_back", 2)
	v.SetDefault("schedule.run_on_start", true)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg IngesterConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if strings.TrimSpace(cfg.G2B.ServiceKey) == "" {
		return nil, fmt.Errorf("%w: g2b.service_key is required", domain.ErrMissingCredential)
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}
	if cfg.G2B.PageSize <= 0 {
		return nil, errors.New("g2b.page_size must be positive")
	}
	if cfg.G2B.MaxPages <= 0 {
		return nil, errors.New("g2b.max_pages must be positive")
	}
	if cfg.G2B.CategoryConcurrency <= 0 {
		return nil, errors.New("g2b.category_concurrency must be positive")
	}
	if cfg.Schedule.Interval <= 0 {
		return nil, errors.New("schedule.interval must be positive")
	}
	if cfg.Schedule.DaysBack < 0 {
		return nil, fmt.Errorf("%w: schedule.days_back must not be negative", domain.ErrInvalidDaysBack)
	}

	return &cfg, nil
}

// LoadEnricherConfig loads configuration for the standalone enricher
func LoadEnricherConfig(configFile string, envPath string) (*EnricherConfig, error) {
	v := configureViper("enricher", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setEnrichmentDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg EnricherConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setEnrichmentDefaults(v *viper.Viper) {
	v.SetDefault("enrichment.enabled", true)
	v.SetDefault("enrichment.batch_size", 500)
	v.SetDefault("enrichment.history_limit", 50)
}

func validateDatabase(db DatabaseConfig) error {
	if db.Host == "" {
		return errors.New("database.host is required")
	}
	if db.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// readConfig reads the config file, falling back to environment variables when there is none
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/ingester/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("G2B_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Source API
		"g2b.service_key",
		"g2b.base_url",
		"g2b.page_size",
		"g2b.http_timeout",
		"g2b.max_pages",
		"g2b.requests_per_second",
		"g2b.burst",
		"g2b.category_concurrency",
		"g2b.retry_max_elapsed",
		// Schedule
		"schedule.interval",
		"schedule.days_back",
		"schedule.run_on_start",
		// Enrichment
		"enrichment.enabled",
		"enrichment.batch_size",
		"enrichment.history_limit",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
