package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultTasksFile       = "tasks.json"
	DefaultDemoFile        = "demo_tasks.json"
	DefaultPriority        = 2
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	ProjectConfigFile      = "tasker.toml"
	HiddenProjectConfig    = ".tasker.toml"
	UserConfigDir          = ".tasker"
	EnvFile                = ".env"
	envPrefix              = "TASKER_"
	defaultLogTimestamps   = false
	defaultLogCallerReport = false
)

// Config holds the full configuration for tasker.
type Config struct {
	// Paths
	TasksFile string `toml:"tasks_file"`
	DemoFile  string `toml:"demo_file"`

	// Priority rank used by "add" when -p is not given.
	DefaultPriority int `toml:"default_priority"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// fields lists the configurable keys, in display order.
func fields() []string {
	return []string{
		"tasks_file",
		"demo_file",
		"default_priority",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return fields()
}

// Value returns the string form of the field with the given key.
func (c *Config) Value(key string) string {
	switch key {
	case "tasks_file":
		return c.TasksFile
	case "demo_file":
		return c.DemoFile
	case "default_priority":
		return itoa(c.DefaultPriority)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return btoa(c.LogTimestamps)
	case "log_caller":
		return btoa(c.LogCaller)
	}
	return ""
}
