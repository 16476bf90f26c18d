package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvTasksFile       = envPrefix + "FILE"
	EnvDemoFile        = envPrefix + "DEMO_FILE"
	EnvDefaultPriority = envPrefix + "DEFAULT_PRIORITY"
	EnvLogLevel        = envPrefix + "LOG_LEVEL"
	EnvLogFormat       = envPrefix + "LOG_FORMAT"
	EnvLogTimestamps   = envPrefix + "LOG_TIMESTAMPS"
	EnvLogCaller       = envPrefix + "LOG_CALLER"
)

// loadFromEnv overrides config from TASKER_* environment variables.
// Empty variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(env, field string, target *string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*target = v
			sources[field] = SourceEnv
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			sources[field] = SourceEnv
		}
	}

	setString(EnvTasksFile, "tasks_file", &cfg.TasksFile)
	setString(EnvDemoFile, "demo_file", &cfg.DemoFile)
	setString(EnvLogLevel, "log_level", &cfg.LogLevel)
	setString(EnvLogFormat, "log_format", &cfg.LogFormat)
	setBool(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
	setBool(EnvLogCaller, "log_caller", &cfg.LogCaller)

	if v := strings.TrimSpace(os.Getenv(EnvDefaultPriority)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvDefaultPriority, v)
		}
		cfg.DefaultPriority = n
		sources["default_priority"] = SourceEnv
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
