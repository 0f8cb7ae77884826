package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API process reads from its environment.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseDriver string
	DatabaseDSN    string
	DatabaseName   string
	JWTSecret      string
	JWTExpire      time.Duration
	CORSOrigins    string
	LogLevel       string
	LogPretty      bool
	RabbitMQURL    string
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the .env file.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("JWT_EXPIRE", "168h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:         strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:           strings.TrimSpace(v.GetString("PORT")),
		DatabaseDriver: strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseDSN:    strings.TrimSpace(v.GetString("DATABASE_DSN")),
		DatabaseName:   strings.TrimSpace(v.GetString("DB_NAME")),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpire:      v.GetDuration("JWT_EXPIRE"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		RabbitMQURL:    strings.TrimSpace(v.GetString("RABBITMQ_URL")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.JWTExpire <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be a positive duration"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ListenAddr turns PORT into an address Fiber can listen on.
func (c *Config) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// PostgresDSN returns DatabaseDSN with DatabaseName applied. Both the URL form
// (postgres://...) and the key/value form are supported.
func (c *Config) PostgresDSN() string {
	if c.DatabaseName == "" {
		return c.DatabaseDSN
	}

	if strings.HasPrefix(c.DatabaseDSN, "postgres://") || strings.HasPrefix(c.DatabaseDSN, "postgresql://") {
		u, err := url.Parse(c.DatabaseDSN)
		if err != nil {
			return c.DatabaseDSN
		}
		u.Path = "/" + c.DatabaseName
		return u.String()
	}

	if strings.Contains(c.DatabaseDSN, "dbname=") {
		return c.DatabaseDSN
	}
	return c.DatabaseDSN + " dbname=" + c.DatabaseName
}
