// Package config resolves fnr's data paths and runtime configuration.
//
// Values are layered by viper: defaults, then an optional config file
// (config.yaml in the data directory, or --config), then FNR_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys, shared by flags, env vars and the config file.
const (
	KeyDir         = "dir"
	KeyLogLevel    = "log_level"
	KeyLogFile     = "log_file"
	KeyInterpreter = "interpreter"
	KeyInteractive = "interactive"
	KeyWorkDir     = "workdir"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Dir is the script directory.
	Dir string
	// LogLevel is one of the level names understood by logging.ParseLevel.
	LogLevel string
	// LogFile is the rotating log file; empty disables file logging.
	LogFile string
	// Interpreter is the interpreter command line; empty selects the default.
	Interpreter string
	// Interactive runs scripts with a PTY stdin when attached to a terminal.
	Interactive bool
	// WorkDir is the working directory for scripts; empty means the parent
	// of Dir.
	WorkDir string
}

// Load resolves the configuration. flags may be nil; only flags whose names
// match a config key (with dashes for underscores) are bound. configFile,
// when non-empty, must exist.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	logFile, err := DefaultLogFile()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault(KeyDir, "functions")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, logFile)
	v.SetDefault(KeyInterpreter, "")
	v.SetDefault(KeyInteractive, false)
	v.SetDefault(KeyWorkDir, "")

	v.SetEnvPrefix("FNR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyDir, KeyLogLevel, KeyLogFile, KeyInterpreter, KeyInteractive, KeyWorkDir} {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if d, err := DataDir(); err == nil {
		v.SetConfigName("config")
		v.AddConfigPath(d)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Dir:         v.GetString(KeyDir),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFile:     v.GetString(KeyLogFile),
		Interpreter: v.GetString(KeyInterpreter),
		Interactive: v.GetBool(KeyInteractive),
		WorkDir:     v.GetString(KeyWorkDir),
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, fmt.Errorf("invalid config: %s cannot be empty", KeyDir)
	}
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve script dir: %w", err)
	}
	cfg.Dir = abs
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Dir(abs)
	}
	return cfg, nil
}
