package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with optional booleans so that an absent key
// leaves the default in place.
type FileConfig struct {
	LogDir        string   `toml:"logdir"`
	Pattern       string   `toml:"pattern"`
	Tags          []string `toml:"tags"`
	Types         []string `toml:"types"`
	StopOnError   *bool    `toml:"stop_on_error"`
	MaxRecordSize uint64   `toml:"max_record_size"`
	Output        string   `toml:"output"`
	LogLevel      string   `toml:"log_level"`
	Stats         *bool    `toml:"stats"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.tfevents/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tfevents", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("logdir", fc.LogDir, &cfg.LogDir)
	s.setString("pattern", fc.Pattern, &cfg.Pattern)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setStrings("tag", fc.Tags, &cfg.Tags)
	s.setStrings("type", fc.Types, &cfg.Types)

	s.setUint64("max-record-size", fc.MaxRecordSize, &cfg.MaxRecordSize)

	s.setBool("stop-on-error", fc.StopOnError, &cfg.StopOnError)
	s.setBool("stats", fc.Stats, &cfg.Stats)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
