package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (TFEVENTS_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("logdir", os.Getenv("TFEVENTS_LOGDIR"), &cfg.LogDir)
	s.setString("pattern", os.Getenv("TFEVENTS_PATTERN"), &cfg.Pattern)
	s.setString("output", os.Getenv("TFEVENTS_OUTPUT"), &cfg.Output)
	s.setString("log-level", os.Getenv("TFEVENTS_LOG_LEVEL"), &cfg.LogLevel)

	s.setStringsFromString("tag", os.Getenv("TFEVENTS_TAGS"), &cfg.Tags)
	s.setStringsFromString("type", os.Getenv("TFEVENTS_TYPES"), &cfg.Types)

	if err := s.setUint64FromString("max-record-size", os.Getenv("TFEVENTS_MAX_RECORD_SIZE"), &cfg.MaxRecordSize); err != nil {
		return err
	}

	s.setBoolFromString("stop-on-error", os.Getenv("TFEVENTS_STOP_ON_ERROR"), &cfg.StopOnError)
	s.setBoolFromString("stats", os.Getenv("TFEVENTS_STATS"), &cfg.Stats)

	return nil
}
