package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	watch := t.TempDir()
	backup := t.TempDir()

	t.Run("minimal config gets defaults", func(t *testing.T) {
		path := writeConfig(t, `
watchFolder: `+watch+`
backupLocations:
  - `+backup+`
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if cfg.RetentionDays != 30 {
			t.Errorf("RetentionDays = %d, want default 30", cfg.RetentionDays)
		}
		if cfg.Schedule != "0 * * * *" {
			t.Errorf("Schedule = %q, want hourly default", cfg.Schedule)
		}
		if cfg.Watch.Mode != "auto" {
			t.Errorf("Watch.Mode = %q, want auto", cfg.Watch.Mode)
		}
		if cfg.Watch.PollInterval != 5*time.Minute {
			t.Errorf("Watch.PollInterval = %v, want 5m", cfg.Watch.PollInterval)
		}
	})

	t.Run("env placeholders are expanded", func(t *testing.T) {
		t.Setenv("WARDEN_TEST_BACKUP", backup)
		path := writeConfig(t, `
watchFolder: `+watch+`
backupLocations:
  - $(WARDEN_TEST_BACKUP)
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.BackupLocations[0] != backup {
			t.Errorf("BackupLocations[0] = %q, want %q", cfg.BackupLocations[0], backup)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	newValid := func(t *testing.T) Config {
		cfg := Default()
		cfg.WatchFolder = t.TempDir()
		cfg.BackupLocations = []string{t.TempDir()}
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		cfg := newValid(t)
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config to pass, got: %v", err)
		}
	})

	t.Run("empty watch folder", func(t *testing.T) {
		cfg := newValid(t)
		cfg.WatchFolder = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty watch folder")
		}
	})

	t.Run("missing watch folder", func(t *testing.T) {
		cfg := newValid(t)
		cfg.WatchFolder = filepath.Join(t.TempDir(), "gone")
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing watch folder")
		}
	})

	t.Run("no backup locations", func(t *testing.T) {
		cfg := newValid(t)
		cfg.BackupLocations = nil
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing backup locations")
		}
	})

	t.Run("missing backup location", func(t *testing.T) {
		cfg := newValid(t)
		cfg.BackupLocations = append(cfg.BackupLocations, filepath.Join(t.TempDir(), "gone"))
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing backup location")
		}
	})

	t.Run("non-positive retention", func(t *testing.T) {
		cfg := newValid(t)
		cfg.RetentionDays = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for zero retentionDays")
		}
	})

	t.Run("bad cron schedule", func(t *testing.T) {
		cfg := newValid(t)
		cfg.Schedule = "every hour"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unparseable schedule")
		}
	})

	t.Run("bad watch mode", func(t *testing.T) {
		cfg := newValid(t)
		cfg.Watch.Mode = "psychic"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown watch mode")
		}
	})
}
