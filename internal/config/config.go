// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	WetbagBackendMemory = "memory"
	WetbagBackendS3     = "s3"
)

// Config holds every runtime setting of the server.
type Config struct {
	ServerPort     int           `yaml:"server_port"`
	DatabaseURL    string        `yaml:"database_url"`
	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	JWTTTL         time.Duration `yaml:"jwt_ttl"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	AllowedOrigins []string      `yaml:"cors_allowed_origins"`
	Wetbag         WetbagConfig  `yaml:"wetbag"`
}

// WetbagConfig selects and configures the wetbag document store.
type WetbagConfig struct {
	Backend         string `yaml:"backend"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		ServerPort:     8080,
		DatabaseURL:    "tridu.db",
		JWTTTL:         12 * time.Hour,
		LogLevel:       "info",
		LogFormat:      "json",
		AllowedOrigins: []string{"*"},
		Wetbag: WetbagConfig{
			Backend: WetbagBackendMemory,
			Region:  "auto",
		},
	}
}

// Load builds the configuration. path may be empty, in which case TRIDU_CONFIG
// is consulted for a YAML file. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TRIDU_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
		c.ServerPort = port
	}
	if v, ok := os.LookupEnv("JWT_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL environment variable: %w", err)
		}
		c.JWTTTL = ttl
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}

	strs := map[string]*string{
		"DATABASE_URL":             &c.DatabaseURL,
		"JWT_SECRET_KEY":           &c.JWTSecretKey,
		"LOG_LEVEL":                &c.LogLevel,
		"LOG_FORMAT":               &c.LogFormat,
		"WETBAG_BACKEND":           &c.Wetbag.Backend,
		"WETBAG_BUCKET":            &c.Wetbag.Bucket,
		"WETBAG_ENDPOINT":          &c.Wetbag.Endpoint,
		"WETBAG_REGION":            &c.Wetbag.Region,
		"WETBAG_ACCESS_KEY_ID":     &c.Wetbag.AccessKeyID,
		"WETBAG_SECRET_ACCESS_KEY": &c.Wetbag.SecretAccessKey,
		"WETBAG_PREFIX":            &c.Wetbag.Prefix,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	switch c.Wetbag.Backend {
	case WetbagBackendMemory:
	case WetbagBackendS3:
		if c.Wetbag.Bucket == "" {
			return errors.New("WETBAG_BUCKET is required for the s3 wetbag backend")
		}
	default:
		return fmt.Errorf("unknown wetbag backend %q", c.Wetbag.Backend)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
