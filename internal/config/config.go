package config

import "time"

type Config struct {
	// WatchFolder is the tree whose state is snapshotted.
	WatchFolder string `yaml:"watchFolder"`

	// BackupLocations are the roots that receive snapshots. At least
	// one is required; each is written independently.
	BackupLocations []string `yaml:"backupLocations"`

	// RetentionDays is the trailing window of daily snapshots to keep.
	// Folders dated exactly RetentionDays ago are retained; strictly
	// older ones are pruned. Monthly snapshots are never pruned.
	RetentionDays int `yaml:"retentionDays"`

	// Schedule is the cron expression driving the backup tick.
	Schedule string `yaml:"schedule"`

	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

type WatchConfig struct {
	Mode           string        `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval   time.Duration `yaml:"pollInterval"`   // e.g. 5m
	DebounceWindow time.Duration `yaml:"debounceWindow"` // e.g. 2s
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

// Default returns a config with every optional field populated.
// WatchFolder and BackupLocations have no defaults.
func Default() Config {
	return Config{
		RetentionDays: 30,
		Schedule:      "0 * * * *",
		Watch: WatchConfig{
			Mode:           "auto",
			PollInterval:   5 * time.Minute,
			DebounceWindow: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
