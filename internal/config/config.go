// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and DOCMERGE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/parser"
)

// Config holds runtime settings.
type Config struct {
	// MaxScanRows bounds every template row scan.
	MaxScanRows int `yaml:"max_scan_rows"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`
	// Addr is the listen address of the HTTP service.
	Addr string `yaml:"addr"`
	// MaxUploadMB caps the size of one multipart upload.
	MaxUploadMB int64 `yaml:"max_upload_mb"`
	// OutputDir is where the CLI writes reports given as bare file names.
	OutputDir string `yaml:"output_dir"`
	// SessionTTL is how long the HTTP service keeps an idle session.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxScanRows: parser.DefaultMaxScanRows,
		LogLevel:    "info",
		LogFormat:   "console",
		Addr:        ":8080",
		MaxUploadMB: 32,
		SessionTTL:  30 * time.Minute,
	}
}

// Load resolves the configuration. path may be empty. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DOCMERGE_MAX_SCAN_ROWS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DOCMERGE_MAX_SCAN_ROWS: %w", err)
		}
		c.MaxScanRows = n
	}
	if v, ok := os.LookupEnv("DOCMERGE_MAX_UPLOAD_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DOCMERGE_MAX_UPLOAD_MB: %w", err)
		}
		c.MaxUploadMB = n
	}
	if v, ok := os.LookupEnv("DOCMERGE_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DOCMERGE_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v, ok := os.LookupEnv("DOCMERGE_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("DOCMERGE_LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv("DOCMERGE_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("DOCMERGE_OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxScanRows <= 0 {
		return fmt.Errorf("max_scan_rows must be positive, got %d", c.MaxScanRows)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (must be console or json)", c.LogFormat)
	}
	return nil
}

// Logger builds the zerolog logger described by c, writing to w.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SessionOptions returns docmerge options wired to logger.
func (c Config) SessionOptions(logger *zerolog.Logger) docmerge.Options {
	opts := docmerge.DefaultOptions()
	opts.MaxScanRows = c.MaxScanRows
	opts.Logger = logger
	return opts
}
