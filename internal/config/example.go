package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasker configuration file
# Values can be overridden by TASKER_* environment variables or CLI flags.

# Tasks file (relative to the working directory, supports ~ expansion)
tasks_file = "tasks.json"

# File used by "tasker demo"
demo_file = "demo_tasks.json"

# Priority given to new tasks when -p is not passed (1 low .. 4 critical)
default_priority = 2

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"

log_timestamps = false
log_caller = false
`
}
