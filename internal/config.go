package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Resources     ResourcesConfig     `mapstructure:"resources"`
	Realtime      RealtimeConfig      `mapstructure:"realtime"`
	Simulation    SimulationConfig    `mapstructure:"simulation"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ValidateRequests  bool          `mapstructure:"validate_requests"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Source          string        `mapstructure:"source"`
	Dialect         string        `mapstructure:"dialect"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectRetries  uint64        `mapstructure:"connect_retries"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
	BCryptCost          int           `mapstructure:"bcrypt_cost"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ResourcesConfig carries the per-entity knobs of the resource modules.
type ResourcesConfig struct {
	DeletePolicy       map[string]string `mapstructure:"delete_policy"`
	ConfirmTTL         time.Duration     `mapstructure:"confirm_ttl"`
	DetailChildTimeout time.Duration     `mapstructure:"detail_child_timeout"`
}

type RealtimeConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
	SendBuffer   int           `mapstructure:"send_buffer"`
}

// SimulationConfig drives the placeholder system-updates and monitoring pages.
type SimulationConfig struct {
	UpdateTick     time.Duration `mapstructure:"update_tick"`
	UpdateStep     int           `mapstructure:"update_step"`
	MetricJitter   float64       `mapstructure:"metric_jitter"`
	RefreshMetrics time.Duration `mapstructure:"refresh_metrics"`
}

// ApplyDefaults fills every zero value that has a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Database.Dialect == "" {
		c.Database.Dialect = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.Database.ConnectRetries == 0 {
		c.Database.ConnectRetries = 5
	}
	if c.Security.AccessTokenDuration == 0 {
		c.Security.AccessTokenDuration = 8 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
	if c.Resources.ConfirmTTL == 0 {
		c.Resources.ConfirmTTL = 5 * time.Minute
	}
	if c.Resources.DetailChildTimeout == 0 {
		c.Resources.DetailChildTimeout = 3 * time.Second
	}
	if c.Realtime.PingInterval == 0 {
		c.Realtime.PingInterval = 30 * time.Second
	}
	if c.Realtime.SendBuffer == 0 {
		c.Realtime.SendBuffer = 64
	}
	if c.Simulation.UpdateTick == 0 {
		c.Simulation.UpdateTick = 500 * time.Millisecond
	}
	if c.Simulation.UpdateStep == 0 {
		c.Simulation.UpdateStep = 10
	}
	if c.Simulation.MetricJitter == 0 {
		c.Simulation.MetricJitter = 5
	}
	if c.Simulation.RefreshMetrics == 0 {
		c.Simulation.RefreshMetrics = 10 * time.Second
	}
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration for container deployments
// where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:             getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:          getEnv("BASE_URL", ""),
			AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "*"),
			ValidateRequests: getEnvAsBool("VALIDATE_REQUESTS", true),
		},
		Database: DatabaseConfig{
			Source:         getEnv("DATABASE_URL", ""),
			Dialect:        getEnv("DATABASE_DIALECT", "postgres"),
			MaxOpenConns:   getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:   getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnectRetries: uint64(getEnvAsInt("DATABASE_CONNECT_RETRIES", 5)),
		},
		Security: SecurityConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			BCryptCost: getEnvAsInt("BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
		Realtime: RealtimeConfig{
			Enabled: getEnvAsBool("REALTIME_ENABLED", true),
		},
	}
	if d, err := time.ParseDuration(getEnv("ACCESS_TOKEN_DURATION", "")); err == nil {
		cfg.Security.AccessTokenDuration = d
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if err := c.Resources.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("resources config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins returns the trimmed allowed origins list.
func (c *ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.Dialect != "postgres" {
		return fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 4 and 15")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	if c.Format != "json" && c.Format != "text" {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

func (c *ResourcesConfig) Validate() error {
	for entity, policy := range c.DeletePolicy {
		if policy != "hard" && policy != "soft" {
			return fmt.Errorf("delete_policy.%s must be hard or soft, got %q", entity, policy)
		}
	}
	return nil
}
