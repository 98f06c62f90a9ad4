package config

import (
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	LogLevel string
	Timezone string
	// OperationTimeout bounds every service call that touches the database.
	OperationTimeout time.Duration
	ShutdownTimeout  time.Duration
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	MaxIdle  int
	MaxOpen  int
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
	Issuer    string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type AdminConfig struct {
	Username string
	Password string
	Email    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).Warn(".env file not found, using environment variables")
	}

	setDefaults()
	return build()
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "svs-ops-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_TIMEZONE", "Asia/Bangkok")
	viper.SetDefault("DB_OPERATION_TIMEOUT_SEC", 10)
	viper.SetDefault("SHUTDOWN_TIMEOUT_SEC", 15)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "svs_ops")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 50)
	viper.SetDefault("JWT_SECRET", "dev-change-this")
	viper.SetDefault("ACCESS_TTL_MIN", 120)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
}

func build() *Config {
	dbURL := viper.GetString("DATABASE_URL_DOCKER")
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	return &Config{
		App: AppConfig{
			Name:             viper.GetString("APP_NAME"),
			Env:              viper.GetString("APP_ENV"),
			Port:             viper.GetString("PORT"),
			LogLevel:         viper.GetString("LOG_LEVEL"),
			Timezone:         viper.GetString("APP_TIMEZONE"),
			OperationTimeout: time.Duration(viper.GetInt("DB_OPERATION_TIMEOUT_SEC")) * time.Second,
			ShutdownTimeout:  time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SEC")) * time.Second,
		},
		Database: DatabaseConfig{
			URL:      NormalizeDatabaseURL(dbURL),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("APP_TIMEZONE"),
			MaxIdle:  viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpen:  viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:    viper.GetString("JWT_SECRET"),
			AccessTTL: time.Duration(viper.GetInt("ACCESS_TTL_MIN")) * time.Minute,
			Issuer:    viper.GetString("APP_NAME"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Email:    viper.GetString("ADMIN_EMAIL"),
		},
	}
}

// NormalizeDatabaseURL rewrites driver-qualified schemes such as
// postgresql+asyncpg:// into a scheme pgx understands.
func NormalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.Index(raw, "://"); i > 0 {
		scheme := raw[:i]
		if plus := strings.Index(scheme, "+"); plus > 0 {
			scheme = scheme[:plus]
		}
		if scheme == "postgresql" {
			scheme = "postgres"
		}
		raw = scheme + raw[i:]
	}
	return raw
}

// DSN returns the connection string, preferring an explicit URL.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the business timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Redacted hides the password of a URL-style DSN for logging.
func (c *DatabaseConfig) Redacted() string {
	if c.URL == "" {
		return c.Host + ":" + c.Port + "/" + c.Name
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return "<invalid database url>"
	}
	return u.Redacted()
}
