package config

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	logLevels  = []interface{}{"debug", "info", "warn", "warning", "error", "fatal"}
	logFormats = []interface{}{"text", "json", "logfmt"}
)

// Validate checks field values. Errors are keyed by TOML key.
func (c *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	format := strings.ToLower(strings.TrimSpace(c.LogFormat))
	return validation.Errors{
		"tasks_file":       validation.Validate(c.TasksFile, validation.Required),
		"demo_file":        validation.Validate(c.DemoFile, validation.Required),
		"default_priority": validation.Validate(c.DefaultPriority, validation.Required, validation.Min(1), validation.Max(4)),
		"log_level":        validation.Validate(level, validation.In(logLevels...)),
		"log_format":       validation.Validate(format, validation.In(logFormats...)),
	}.Filter()
}
