package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user state directory under $HOME.
	DirName = ".dsexport"
	// FileName is the default config file inside DirName.
	FileName = "config.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DSEXPORT"
)

// Config is the complete dsexport configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server"`
	Export  ExportConfig  `toml:"export" yaml:"export" json:"export"`
	History HistoryConfig `toml:"history" yaml:"history" json:"history"`
	Log     LogConfig     `toml:"log" yaml:"log" json:"log"`
}

// ServerConfig locates the export service.
type ServerConfig struct {
	URL string `toml:"url" yaml:"url" json:"url" env:"SERVER_URL"`
	// Token is sent verbatim in the Authorization header when set.
	Token string `toml:"token" yaml:"token" json:"token" env:"SERVER_TOKEN"`
}

// ExportConfig controls submissions and where payloads are saved.
type ExportConfig struct {
	DownloadDir string   `toml:"download_dir" yaml:"download_dir" json:"download_dir" env:"DOWNLOAD_DIR"`
	NoticeDelay Duration `toml:"notice_delay" yaml:"notice_delay" json:"notice_delay" env:"NOTICE_DELAY"`

	Structured        bool `toml:"structured" yaml:"structured" json:"structured" env:"EXPORT_STRUCTURED"`
	Full              bool `toml:"full" yaml:"full" json:"full" env:"EXPORT_FULL"`
	BooleansAsNumbers bool `toml:"booleans_as_numbers" yaml:"booleans_as_numbers" json:"booleans_as_numbers" env:"EXPORT_BOOLEANS_AS_NUMBERS"`
}

// HistoryConfig controls the previous-export preview.
type HistoryConfig struct {
	Preview int `toml:"preview" yaml:"preview" json:"preview" env:"HISTORY_PREVIEW"`
}

// LogConfig controls logging and optional file rotation.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level" json:"level" env:"LOG_LEVEL"`
	Format     string `toml:"format" yaml:"format" json:"format" env:"LOG_FORMAT"`
	File       string `toml:"file" yaml:"file" json:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups" json:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days" json:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
	Compress   bool   `toml:"compress" yaml:"compress" json:"compress" env:"LOG_COMPRESS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{URL: "http://localhost:8080"},
		Export: ExportConfig{
			DownloadDir:       ".",
			NoticeDelay:       Duration(5 * time.Second),
			Structured:        true,
			Full:              true,
			BooleansAsNumbers: true,
		},
		History: HistoryConfig{Preview: 1},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Dir returns ~/.dsexport.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.dsexport/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error
// when optional is true. Environment overrides and validation run last.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		err := decodeFile(cfg, path)
		switch {
		case errors.Is(err, os.ErrNotExist) && optional:
		case err != nil:
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnvOverrides(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

// SaveTOML writes cfg to path with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# dsexport configuration file")
	fmt.Fprintln(f, "")
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Export.DownloadDir == "" {
		c.Export.DownloadDir = d.Export.DownloadDir
	}
	if c.Export.NoticeDelay <= 0 {
		c.Export.NoticeDelay = d.Export.NoticeDelay
	}
	if c.History.Preview < 1 {
		c.History.Preview = d.History.Preview
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{"server.url", "must be an http(s) URL"})
		}
	}
	if c.Export.NoticeDelay < 0 {
		errs = append(errs, ValidationError{"export.notice_delay", "must not be negative"})
	}
	if c.History.Preview < 1 {
		errs = append(errs, ValidationError{"history.preview", "must be at least 1"})
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{"log.level", err.Error()})
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, ValidationError{"log.format", `must be "text" or "json"`})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Redacted returns a copy safe for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Server.Token != "" {
		out.Server.Token = "********"
	}
	return &out
}
