package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the immutable application configuration. It is built once by
// Load and passed by value to the components that need it.
type Config struct {
	Title       string
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	Monitoring  MonitoringConfig
	Tracing     TracingConfig
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOrigins    []string
	// MaxBodyBytes caps request bodies; zero disables the limit
	MaxBodyBytes int64
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the connection parameters of the active environment
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type MonitoringConfig struct {
	Enabled      bool
	MetricsPath  string
	PoolInterval time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Metrics     bool
	ServiceName string
}

// Load reads configuration from configFile (or config.yaml in the default
// search paths when empty) and the environment. The database block is taken
// from environments.<environment>.database, falling back to the shared
// database.* keys for anything the environment leaves out.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return Config{}, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/publications")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Publications")
	v.SetDefault("environment", EnvDevelopment)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 100*1024)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 15*time.Minute)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("environments.development.database.dsn", "postgres://localhost:5432/publications?sslmode=disable")
	v.SetDefault("environments.test.database.dsn", "postgres://localhost:5432/publications_test?sslmode=disable")
	v.SetDefault("environments.test.database.log_level", "silent")
	v.SetDefault("environments.production.database.max_open_conns", 25)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.pool_interval", 30*time.Second)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.metrics", false)
	v.SetDefault("tracing.service_name", "publications-api")
}

func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"server.port", "PORT"},
		{"environment", "APP_ENV", "NODE_ENV"},
		{"database_url", "DATABASE_URL"},
		{"logging.level", "LOG_LEVEL"},
		{"logging.format", "LOG_FORMAT"},
		{"monitoring.enabled", "METRICS_ENABLED"},
		{"tracing.enabled", "TRACING_ENABLED"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b[0], err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) (Config, error) {
	env := v.GetString("environment")
	if !v.IsSet("environments." + env) {
		return Config{}, fmt.Errorf("unknown environment %q", env)
	}

	key := func(name string) string {
		if k := "environments." + env + ".database." + name; v.IsSet(k) {
			return k
		}
		return "database." + name
	}

	db := DatabaseConfig{
		Driver:          v.GetString(key("driver")),
		DSN:             v.GetString(key("dsn")),
		MaxOpenConns:    v.GetInt(key("max_open_conns")),
		MaxIdleConns:    v.GetInt(key("max_idle_conns")),
		ConnMaxLifetime: v.GetDuration(key("conn_max_lifetime")),
		ConnMaxIdleTime: v.GetDuration(key("conn_max_idle_time")),
		LogLevel:        v.GetString(key("log_level")),
	}
	if url := v.GetString("database_url"); url != "" {
		db.DSN = url
	}

	return Config{
		Title:       v.GetString("title"),
		Environment: env,
		Server: ServerConfig{
			Host:              v.GetString("server.host"),
			Port:              v.GetInt("server.port"),
			ReadTimeout:       v.GetDuration("server.read_timeout"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:    v.GetStringSlice("server.allowed_origins"),
			MaxBodyBytes:      v.GetInt64("server.max_body_bytes"),
		},
		Database: db,
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Monitoring: MonitoringConfig{
			Enabled:      v.GetBool("monitoring.enabled"),
			MetricsPath:  v.GetString("monitoring.metrics_path"),
			PoolInterval: v.GetDuration("monitoring.pool_interval"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			Metrics:     v.GetBool("tracing.metrics"),
			ServiceName: v.GetString("tracing.service_name"),
		},
	}, nil
}

// Validate checks the values Load cannot default
func (c Config) Validate() error {
	if c.Title == "" {
		return errors.New("title must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server max_body_bytes %d must not be negative", c.Server.MaxBodyBytes)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for environment %q", c.Environment)
	}
	return nil
}
