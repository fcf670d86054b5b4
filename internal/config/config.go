package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Verify VerifyConfig
}

// QueueConfig holds verification queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VerifyConfig holds claim verification settings.
type VerifyConfig struct {
	RelativeTolerance        decimal.Decimal
	PercentagePointTolerance decimal.Decimal
	Workers                  int `mapstructure:"workers"`
	MaxClaims                int `mapstructure:"max_claims"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// ConnMaxLifetime recycles pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds settings for validating platform-issued access tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FIGCHECK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FIGCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "figcheck")
	v.SetDefault("db.password", "figcheck_secret")
	v.SetDefault("db.name", "figcheck_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.connect_timeout", "10s")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "figcheck")

	// S3 defaults; an empty bucket disables archiving
	v.SetDefault("s3.region", "ap-northeast-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)

	// Verify defaults
	v.SetDefault("verify.relative_tolerance", "0.01")
	v.SetDefault("verify.percentage_point_tolerance", "1")
	v.SetDefault("verify.workers", 8)
	v.SetDefault("verify.max_claims", 5000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "FIGCHECK_SERVER_PORT",
		"server.read_timeout":               "FIGCHECK_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "FIGCHECK_SERVER_WRITE_TIMEOUT",
		"server.environment":                "FIGCHECK_SERVER_ENVIRONMENT",
		"db.host":                           "FIGCHECK_DB_HOST",
		"db.port":                           "FIGCHECK_DB_PORT",
		"db.user":                           "FIGCHECK_DB_USER",
		"db.password":                       "FIGCHECK_DB_PASSWORD",
		"db.name":                           "FIGCHECK_DB_NAME",
		"db.sslmode":                        "FIGCHECK_DB_SSLMODE",
		"db.max_open":                       "FIGCHECK_DB_MAX_OPEN",
		"db.max_idle":                       "FIGCHECK_DB_MAX_IDLE",
		"db.conn_max_lifetime":              "FIGCHECK_DB_CONN_MAX_LIFETIME",
		"db.connect_timeout":                "FIGCHECK_DB_CONNECT_TIMEOUT",
		"jwt.secret":                        "FIGCHECK_JWT_SECRET",
		"jwt.issuer":                        "FIGCHECK_JWT_ISSUER",
		"s3.region":                         "FIGCHECK_S3_REGION",
		"s3.bucket":                         "FIGCHECK_S3_BUCKET",
		"s3.endpoint":                       "FIGCHECK_S3_ENDPOINT",
		"s3.access_key":                     "FIGCHECK_S3_ACCESS_KEY",
		"s3.secret_key":                     "FIGCHECK_S3_SECRET_KEY",
		"s3.presign_expiry":                 "FIGCHECK_S3_PRESIGN_EXPIRY",
		"log.level":                         "FIGCHECK_LOG_LEVEL",
		"log.format":                        "FIGCHECK_LOG_FORMAT",
		"cors.allowed_origins":              "FIGCHECK_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":          "FIGCHECK_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                 "FIGCHECK_QUEUE_MAX_RETRIES",
		"queue.concurrency":                 "FIGCHECK_QUEUE_CONCURRENCY",
		"verify.relative_tolerance":         "FIGCHECK_VERIFY_RELATIVE_TOLERANCE",
		"verify.percentage_point_tolerance": "FIGCHECK_VERIFY_PERCENTAGE_POINT_TOLERANCE",
		"verify.workers":                    "FIGCHECK_VERIFY_WORKERS",
		"verify.max_claims":                 "FIGCHECK_VERIFY_MAX_CLAIMS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FIGCHECK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FIGCHECK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		ConnectTimeout:  v.GetDuration("db.connect_timeout"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	relative, err := parseTolerance("verify.relative_tolerance", v.GetString("verify.relative_tolerance"))
	if err != nil {
		return nil, err
	}
	points, err := parseTolerance("verify.percentage_point_tolerance", v.GetString("verify.percentage_point_tolerance"))
	if err != nil {
		return nil, err
	}
	cfg.Verify = VerifyConfig{
		RelativeTolerance:        relative,
		PercentagePointTolerance: points,
		Workers:                  v.GetInt("verify.workers"),
		MaxClaims:                v.GetInt("verify.max_claims"),
	}

	return cfg, nil
}

func parseTolerance(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config %s: must not be negative, got %s", key, raw)
	}
	return d, nil
}
