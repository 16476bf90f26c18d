package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Load loads configuration from all sources. flags may be nil; only flags
// the user actually set override lower layers.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cws, err := LoadWithSources(flags)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(flags *pflag.FlagSet) (*ConfigWithSources, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return loadFrom(wd, flags)
}

func loadFrom(dir string, flags *pflag.FlagSet) (*ConfigWithSources, error) {
	cfg := &Config{WorkDir: dir}
	cws := &ConfigWithSources{
		Config:  cfg,
		Sources: make(map[string]ConfigSource),
	}

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range fields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
		cws.Files = append(cws.Files, userFile)
	}

	// 3. Project config file (overrides user config)
	if projectFile := findProjectConfigFile(dir); projectFile != "" {
		if err := loadConfigFile(cfg, projectFile, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
		cws.Files = append(cws.Files, projectFile)
	}

	// 4. .env never overrides variables already set in the environment
	if err := loadDotEnv(filepath.Join(dir, EnvFile)); err != nil {
		return nil, err
	}

	// 5. Environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, err
	}

	// 6. CLI flags
	if err := applyFlags(cfg, flags, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cws, nil
}

func setDefaults(cfg *Config) {
	cfg.TasksFile = DefaultTasksFile
	cfg.DemoFile = DefaultDemoFile
	cfg.DefaultPriority = DefaultPriority
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = defaultLogTimestamps
	cfg.LogCaller = defaultLogCallerReport
}

// loadConfigFile decodes a TOML file into cfg. Only keys present in the file
// are applied and recorded in sources.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	var fileCfg Config
	md, err := toml.DecodeFile(path, &fileCfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	set := func(key string, apply func()) {
		if md.IsDefined(key) {
			apply()
			sources[key] = source
		}
	}
	set("tasks_file", func() { cfg.TasksFile = fileCfg.TasksFile })
	set("demo_file", func() { cfg.DemoFile = fileCfg.DemoFile })
	set("default_priority", func() { cfg.DefaultPriority = fileCfg.DefaultPriority })
	set("log_level", func() { cfg.LogLevel = fileCfg.LogLevel })
	set("log_format", func() { cfg.LogFormat = fileCfg.LogFormat })
	set("log_timestamps", func() { cfg.LogTimestamps = fileCfg.LogTimestamps })
	set("log_caller", func() { cfg.LogCaller = fileCfg.LogCaller })
	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// finalizeConfig validates values and resolves paths against WorkDir.
func finalizeConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.TasksFile = resolvePath(cfg.WorkDir, cfg.TasksFile)
	cfg.DemoFile = resolvePath(cfg.WorkDir, cfg.DemoFile)
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func btoa(b bool) string {
	return strconv.FormatBool(b)
}
