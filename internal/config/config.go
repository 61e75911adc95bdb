package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig points at the SQLite database file
type DatabaseConfig struct {
	Path     string `yaml:"path"`
	LogLevel string `yaml:"log_level"`
}

// AuthConfig describes the single shared account and token settings
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`
	TokenTTLH   int    `yaml:"token_ttl_hours"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// StorageConfig is the public base URL of the blob store holding documents
type StorageConfig struct {
	PublicURL string `yaml:"public_url"`
	Bucket    string `yaml:"bucket"`
}

// Config is the root configuration document
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8008"},
		Database: DatabaseConfig{Path: "project-crm.db?_pragma=busy_timeout(5000)", LogLevel: "warn"},
		Auth: AuthConfig{
			JWTSecret:   "development-insecure-secret-change-me",
			JWTIssuer:   "project-crm-api",
			JWTAudience: "project-crm-clients",
			TokenTTLH:   24,
			Username:    "admin",
			Password:    "admin",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Storage: StorageConfig{Bucket: "documents"},
	}
}

// Load reads a YAML config file over the defaults, then applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	OverrideFromEnv(cfg)
	return cfg, nil
}

// OverrideFromEnv applies environment variables on top of cfg
func OverrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		cfg.Auth.JWTIssuer = issuer
	}
	if audience := os.Getenv("JWT_AUDIENCE"); audience != "" {
		cfg.Auth.JWTAudience = audience
	}
	if ttl := os.Getenv("JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			cfg.Auth.TokenTTLH = h
		}
	}
	if user := os.Getenv("CRM_USERNAME"); user != "" {
		cfg.Auth.Username = user
	}
	if password := os.Getenv("CRM_PASSWORD"); password != "" {
		cfg.Auth.Password = password
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	if url := os.Getenv("STORAGE_PUBLIC_URL"); url != "" {
		cfg.Storage.PublicURL = url
	}
}

// GetEnv returns the environment value for key or fallback when unset
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
