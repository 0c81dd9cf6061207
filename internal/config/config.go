package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Session  SessionConfig
	Signup   SignupConfig
	Auth     AuthConfig
	Log      LogConfig
}

type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// DatabaseConfig selects the store driver and its connection pool.
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	DSN             string        `env:"DB_DSN" envDefault:"host=localhost port=5432 user=postgres password=postgres dbname=coursehub sslmode=disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// SessionConfig configures the cookie session store. Empty keys are
// replaced by random ones at startup, which invalidates sessions on restart.
type SessionConfig struct {
	Name       string `env:"SESSION_NAME" envDefault:"app-session"`
	AuthKey    string `env:"SESSION_AUTH_KEY"`
	EncryptKey string `env:"SESSION_ENCRYPT_KEY"`
	MaxAge     int    `env:"SESSION_MAX_AGE" envDefault:"86400"`
	Secure     bool   `env:"SESSION_SECURE" envDefault:"false"`
}

// SignupConfig holds the enrollment codes required to sign up with a
// privileged role.
type SignupConfig struct {
	TeacherCode string `env:"SIGNUP_TEACHER_CODE" envDefault:"TEACH2025"`
	AdminCode   string `env:"SIGNUP_ADMIN_CODE" envDefault:"ADMIN2025"`
}

type AuthConfig struct {
	Credentials    string `env:"AUTH_CREDENTIALS" envDefault:"plain"`
	BcryptCost     int    `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	LoginRateLimit int    `env:"AUTH_LOGIN_RATE_LIMIT" envDefault:"20"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional env file (".env" when none is given) and then
// the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("DB_DSN is empty")
	}
	switch c.Auth.Credentials {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unsupported AUTH_CREDENTIALS %q", c.Auth.Credentials)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported LOG_LEVEL %q", c.Log.Level)
	}
	if c.Signup.TeacherCode == "" || c.Signup.AdminCode == "" {
		return fmt.Errorf("signup codes must not be empty")
	}
	return nil
}

// String returns a representation of the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{HTTP: %s, DB: %s, Session: %s (keys masked), Credentials: %s, Log: %s/%s}",
		c.HTTP.Addr, c.Database.Driver, c.Session.Name, c.Auth.Credentials, c.Log.Level, c.Log.Format)
}
