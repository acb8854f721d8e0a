package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	ErrMissingSecret      = errors.New("JWT_SECRET must be set")
)

// Token formats accepted by AUTH_TOKEN_FORMAT.
const (
	TokenFormatJWT    = "jwt"
	TokenFormatPaseto = "paseto"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	SwaggerEnabled  bool
}

type DatabaseConfig struct {
	URL             string
	Driver          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig configures the optional product read cache.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type AuthConfig struct {
	Secret          []byte
	TokenFormat     string
	HashConcurrency int
}

// Load reads configuration from the environment, an optional .env file and
// an optional YAML file named by CONFIG_FILE. Keys in the YAML file use the
// lower-cased environment variable names (jwt_secret, database_url, ...).
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("server_port", "8080")
	v.SetDefault("app_env", "dev")
	v.SetDefault("server_read_timeout", 10)
	v.SetDefault("server_write_timeout", 10)
	v.SetDefault("server_shutdown_timeout", 15)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("swagger_enabled", true)

	v.SetDefault("db_driver", DriverPQ)
	v.SetDefault("db_max_open_conns", 5)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", 300)
	v.SetDefault("db_auto_migrate", true)

	v.SetDefault("redis_db", 0)
	v.SetDefault("product_cache_ttl", 60)

	v.SetDefault("auth_token_format", TokenFormatJWT)
	v.SetDefault("hash_concurrency", runtime.NumCPU())
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server_host"),
			Port:            v.GetString("server_port"),
			Env:             v.GetString("app_env"),
			ReadTimeout:     seconds(v, "server_read_timeout"),
			WriteTimeout:    seconds(v, "server_write_timeout"),
			ShutdownTimeout: seconds(v, "server_shutdown_timeout"),
			AllowedOrigins:  splitList(v.GetString("cors_allowed_origins"), []string{"*"}),
			SwaggerEnabled:  v.GetBool("swagger_enabled"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database_url"),
			Driver:          strings.ToLower(v.GetString("db_driver")),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: seconds(v, "db_conn_max_lifetime"),
			AutoMigrate:     v.GetBool("db_auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
			CacheTTL: seconds(v, "product_cache_ttl"),
		},
		Auth: AuthConfig{
			Secret:          []byte(v.GetString("jwt_secret")),
			TokenFormat:     strings.ToLower(v.GetString("auth_token_format")),
			HashConcurrency: v.GetInt("hash_concurrency"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if len(c.Auth.Secret) == 0 {
		return ErrMissingSecret
	}

	switch c.Auth.TokenFormat {
	case TokenFormatJWT, TokenFormatPaseto:
	default:
		return fmt.Errorf("AUTH_TOKEN_FORMAT must be %q or %q, got %q", TokenFormatJWT, TokenFormatPaseto, c.Auth.TokenFormat)
	}

	switch c.Database.Driver {
	case DriverPQ, DriverPGX:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPQ, DriverPGX, c.Database.Driver)
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Auth.HashConcurrency <= 0 {
		return fmt.Errorf("HASH_CONCURRENCY must be positive, got %d", c.Auth.HashConcurrency)
	}

	return nil
}

// Address returns the listen address (host:port)
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// CacheEnabled reports whether a Redis address was configured.
func (c *RedisConfig) CacheEnabled() bool {
	return c.Addr != ""
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

func splitList(value string, defaultValue []string) []string {
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
