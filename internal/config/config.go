// Package config loads taskboard settings.
//
// Sources are applied in order, each overriding the last:
//  1. Defaults
//  2. TOML file (explicit path, TASKBOARD_CONFIG, or ./taskboard.toml)
//  3. Environment, including variables from a .env file
//
// CLI flags are applied on top by the cli package, which then calls Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"taskboard/internal/logging"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultConfigFile = "taskboard.toml"
	DefaultEnvFile    = ".env"
)

// Config holds all settings.
type Config struct {
	Server ServerConfig `toml:"server"`
	Tasks  TasksConfig  `toml:"tasks"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type TasksConfig struct {
	Dir     string `toml:"dir"`
	File    string `toml:"file"`
	Backend string `toml:"backend"`
	DBPath  string `toml:"db_path"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Tasks: TasksConfig{
			Dir:     ".",
			File:    "tasks.md",
			Backend: BackendFile,
			DBPath:  "./data/taskboard.db",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadOptions selects the files Load reads. Empty fields use the defaults.
type LoadOptions struct {
	// ConfigFile must exist when set.
	ConfigFile string
	// EnvFile is ignored when missing.
	EnvFile string
}

// Load builds the configuration from defaults, the TOML file and the environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	// .env only fills variables that are not already set, so it still ranks below
	// the real environment.
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
	}

	path, required := configPath(opts.ConfigFile)
	if err := loadFile(cfg, path, required); err != nil {
		return nil, err
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func configPath(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if v := os.Getenv("TASKBOARD_CONFIG"); v != "" {
		return v, true
	}
	return DefaultConfigFile, false
}

func loadFile(cfg *Config, path string, required bool) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Tasks.Dir = getEnv("TASKS_DIR", cfg.Tasks.Dir)
	cfg.Tasks.File = getEnv("TASKS_FILE", cfg.Tasks.File)
	cfg.Tasks.Backend = getEnv("TASKS_BACKEND", cfg.Tasks.Backend)
	cfg.Tasks.DBPath = getEnv("DB_PATH", cfg.Tasks.DBPath)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server port is required")
	}

	switch c.Tasks.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Tasks.Dir) == "" {
			return errors.New("tasks directory is required")
		}
		if strings.TrimSpace(c.Tasks.File) == "" {
			return errors.New("tasks file name is required")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Tasks.DBPath) == "" {
			return errors.New("database path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown backend %q: must be %q or %q", c.Tasks.Backend, BackendFile, BackendSQLite)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// LoggingOptions converts the log settings for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Log.Level
	opts.Format = c.Log.Format
	return opts
}
