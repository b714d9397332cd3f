package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads the YAML config at path, expands $(ENV_VAR) placeholders,
// fills defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces the startup-fatal conditions. Once the loop is
// running, path problems are per-cycle errors, never fatal; here they
// still are.
func (c *Config) Validate() error {
	if c.WatchFolder == "" {
		return fmt.Errorf("watchFolder is required")
	}
	if st, err := os.Stat(c.WatchFolder); err != nil {
		return fmt.Errorf("watchFolder %s: %w", c.WatchFolder, err)
	} else if !st.IsDir() {
		return fmt.Errorf("watchFolder %s is not a directory", c.WatchFolder)
	}

	if len(c.BackupLocations) == 0 {
		return fmt.Errorf("at least one backup location is required")
	}
	for _, loc := range c.BackupLocations {
		st, err := os.Stat(loc)
		if err != nil {
			return fmt.Errorf("backup location %s: %w", loc, err)
		}
		if !st.IsDir() {
			return fmt.Errorf("backup location %s is not a directory", loc)
		}
	}

	if c.RetentionDays <= 0 {
		return fmt.Errorf("retentionDays must be positive, got %d", c.RetentionDays)
	}

	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", c.Schedule, err)
	}

	switch c.Watch.Mode {
	case "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("unknown watch mode %q", c.Watch.Mode)
	}

	return nil
}
