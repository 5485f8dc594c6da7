package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bft-labs/tfevents/pkg/summary"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds CLI configuration for tfevents.
type Config struct {
	LogDir  string
	Pattern string

	// Tags restricts output to these tags. Nil keeps every tag.
	Tags  []string
	Types []string

	StopOnError   bool
	MaxRecordSize uint64

	Output   string
	LogLevel string
	Stats    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Pattern:  "*",
		Types:    []string{string(summary.TypeScalar)},
		Output:   OutputTable,
		LogLevel: "warn",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LogDir == "" {
		return fmt.Errorf("logdir is required")
	}
	if c.Pattern == "" {
		c.Pattern = "*"
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("pattern %q: %w", c.Pattern, err)
	}
	if _, err := summary.ParseTypes(c.Types); err != nil {
		return err
	}
	if len(c.Types) == 0 {
		return fmt.Errorf("at least one type is required")
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}
	return nil
}

// ReaderOptions converts the configuration into summary reader options.
func (c Config) ReaderOptions() []summary.Option {
	opts := []summary.Option{
		summary.WithTypeNames(c.Types...),
		summary.WithStopOnError(c.StopOnError),
		summary.WithPattern(c.Pattern),
	}
	if c.Tags != nil {
		opts = append(opts, summary.WithTags(c.Tags...))
	}
	if c.MaxRecordSize > 0 {
		opts = append(opts, summary.WithMaxRecordSize(c.MaxRecordSize))
	}
	return opts
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not nil and flag not changed. An empty,
// non-nil list is applied.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint64 sets a value if positive and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setStringsFromString splits a comma-separated list.
// Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

// setUint64FromString parses a string to uint64 and sets the destination if
// positive.
func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if n == 0 {
		return nil
	}
	*dst = n
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
