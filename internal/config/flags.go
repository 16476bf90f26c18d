package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagFile          = "file"
	FlagDemoFile      = "demo-file"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
	FlagLogTimestamps = "log-timestamps"
	FlagLogCaller     = "log-caller"
)

// RegisterFlags defines the global configuration flags on fs. Their
// defaults are zero values; Load only applies flags that were set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagFile, "f", "", "Path to the tasks file (default "+DefaultTasksFile+")")
	fs.String(FlagDemoFile, "", "Path to the demo tasks file (default "+DefaultDemoFile+")")
	fs.String(FlagLogLevel, "", "Log level: debug, info, warn, error")
	fs.String(FlagLogFormat, "", "Log format: text, json, logfmt")
	fs.Bool(FlagLogTimestamps, false, "Include timestamps in log output")
	fs.Bool(FlagLogCaller, false, "Include caller location in log output")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	if fs == nil {
		return nil
	}

	strs := []struct {
		flag   string
		field  string
		target *string
	}{
		{FlagFile, "tasks_file", &cfg.TasksFile},
		{FlagDemoFile, "demo_file", &cfg.DemoFile},
		{FlagLogLevel, "log_level", &cfg.LogLevel},
		{FlagLogFormat, "log_format", &cfg.LogFormat},
	}
	for _, b := range strs {
		if !fs.Changed(b.flag) {
			continue
		}
		v, err := fs.GetString(b.flag)
		if err != nil {
			return err
		}
		*b.target = v
		sources[b.field] = SourceFlag
	}

	bools := []struct {
		flag   string
		field  string
		target *bool
	}{
		{FlagLogTimestamps, "log_timestamps", &cfg.LogTimestamps},
		{FlagLogCaller, "log_caller", &cfg.LogCaller},
	}
	for _, b := range bools {
		if !fs.Changed(b.flag) {
			continue
		}
		v, err := fs.GetBool(b.flag)
		if err != nil {
			return err
		}
		*b.target = v
		sources[b.field] = SourceFlag
	}
	return nil
}
