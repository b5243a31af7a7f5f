package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Overnight shift policies
const (
	OvernightClamp = "clamp"
	OvernightWrap  = "wrap"
)

// Holiday standard hours policies
const (
	HolidayZero    = "zero"
	HolidayWeekday = "weekday"
)

// EnvConfigPath overrides the config file location
const EnvConfigPath = "PONTAJ_CONFIG"

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
}

type Config struct {
	DatabasePath string `yaml:"DatabasePath"`
	HistoryPath  string `yaml:"HistoryPath"`
	HolidaysFile string `yaml:"HolidaysFile,omitempty"`

	// Parsing policies
	OvernightShifts      string `yaml:"OvernightShifts"`
	HolidayStandardHours string `yaml:"HolidayStandardHours"`

	Log LogConfig `yaml:"Log"`
}

// Load reads the YAML config at path, or at the default location when path
// is empty. A missing file yields the defaults. A .env file in the working
// directory and PONTAJ_* environment variables are applied on top.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := getDefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.HistoryPath = expandHome(cfg.HistoryPath)
	cfg.HolidaysFile = expandHome(cfg.HolidaysFile)

	return cfg, nil
}

func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath is $PONTAJ_CONFIG, else ~/.pontaj.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandHome(p)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pontaj.yaml")
}

func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:         filepath.Join(home, ".pontaj", "history.db"),
		HistoryPath:          filepath.Join(home, ".pontaj", "archive"),
		OvernightShifts:      OvernightClamp,
		HolidayStandardHours: HolidayZero,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyDefaults fills values a partial config file left empty
func (c *Config) applyDefaults() {
	def := getDefaultConfig()
	if c.DatabasePath == "" {
		c.DatabasePath = def.DatabasePath
	}
	if c.HistoryPath == "" {
		c.HistoryPath = def.HistoryPath
	}
	if c.OvernightShifts == "" {
		c.OvernightShifts = def.OvernightShifts
	}
	if c.HolidayStandardHours == "" {
		c.HolidayStandardHours = def.HolidayStandardHours
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// loadDotEnv reads ./.env if present. Variables already set in the
// environment are not overwritten.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}

// envKeys maps environment variables to config keys
var envKeys = map[string]string{
	"PONTAJ_DATABASE_PATH":          "database_path",
	"PONTAJ_HISTORY_PATH":           "history_path",
	"PONTAJ_HOLIDAYS_FILE":          "holidays_file",
	"PONTAJ_OVERNIGHT_SHIFTS":       "overnight_shifts",
	"PONTAJ_HOLIDAY_STANDARD_HOURS": "holiday_standard_hours",
	"PONTAJ_LOG_LEVEL":              "log_level",
	"PONTAJ_LOG_FORMAT":             "log_format",
}

func (c *Config) applyEnv() {
	for env, key := range envKeys {
		if value, ok := os.LookupEnv(env); ok && value != "" {
			_ = c.Set(key, value)
		}
	}
}

// Keys lists the names accepted by Set
func Keys() []string {
	keys := make([]string, 0, len(envKeys))
	for _, key := range envKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Set changes one value by key name
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "database_path":
		c.DatabasePath = value
	case "history_path":
		c.HistoryPath = value
	case "holidays_file":
		c.HolidaysFile = value
	case "overnight_shifts":
		c.OvernightShifts = strings.ToLower(value)
	case "holiday_standard_hours":
		c.HolidayStandardHours = strings.ToLower(value)
	case "log_level":
		c.Log.Level = strings.ToLower(value)
	case "log_format":
		c.Log.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}
	if c.HistoryPath == "" {
		return &ValidationError{Field: "HistoryPath", Message: "History path is required"}
	}

	switch c.OvernightShifts {
	case OvernightClamp, OvernightWrap:
	default:
		return &ValidationError{Field: "OvernightShifts", Message: fmt.Sprintf("must be %s or %s", OvernightClamp, OvernightWrap)}
	}

	switch c.HolidayStandardHours {
	case HolidayZero, HolidayWeekday:
	default:
		return &ValidationError{Field: "HolidayStandardHours", Message: fmt.Sprintf("must be %s or %s", HolidayZero, HolidayWeekday)}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "Log.Level", Message: "must be debug, info, warn or error"}
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return &ValidationError{Field: "Log.Format", Message: "must be console or json"}
	}

	if c.HolidaysFile != "" {
		if _, err := os.Stat(c.HolidaysFile); err != nil {
			return &ValidationError{Field: "HolidaysFile", Message: fmt.Sprintf("cannot read holiday file: %v", err)}
		}
	}

	return nil
}
