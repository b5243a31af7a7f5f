package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNonExistentFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, ".pontaj", "history.db"), cfg.DatabasePath)
	assert.Equal(t, OvernightClamp, cfg.OvernightShifts)
	assert.Equal(t, HolidayZero, cfg.HolidayStandardHours)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	path := filepath.Join(tmpDir, "pontaj.yaml")
	content := "DatabasePath: ~/data/att.db\nOvernightShifts: wrap\nLog:\n  Level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "data", "att.db"), cfg.DatabasePath)
	assert.Equal(t, OvernightWrap, cfg.OvernightShifts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "default kept")
	assert.Equal(t, HolidayZero, cfg.HolidayStandardHours, "default kept")
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("PONTAJ_HOLIDAY_STANDARD_HOURS", "WEEKDAY")
	t.Setenv("PONTAJ_LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, HolidayWeekday, cfg.HolidayStandardHours)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Log: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	path := filepath.Join(tmpDir, "pontaj.yaml")

	cfg := getDefaultConfig()
	require.NoError(t, cfg.Set("overnight_shifts", "wrap"))
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/pontaj.yaml")
	assert.Equal(t, "/etc/pontaj.yaml", DefaultPath())
}

func TestSetUnknownKey(t *testing.T) {
	cfg := getDefaultConfig()
	err := cfg.Set("weekly_goal", "40")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_path")
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"missing database", func(c *Config) { c.DatabasePath = "" }, "DatabasePath"},
		{"missing history", func(c *Config) { c.HistoryPath = "" }, "HistoryPath"},
		{"bad overnight policy", func(c *Config) { c.OvernightShifts = "reject" }, "OvernightShifts"},
		{"bad holiday policy", func(c *Config) { c.HolidayStandardHours = "half" }, "HolidayStandardHours"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "Log.Level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "Log.Format"},
		{"missing holiday file", func(c *Config) { c.HolidaysFile = "/nonexistent/holidays.yaml" }, "HolidaysFile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := getDefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
