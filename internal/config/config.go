// Package config loads taskkeep settings from flags, environment, an
// optional YAML file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TASKKEEP_LOG_LEVEL.
const EnvPrefix = "TASKKEEP"

// Keys.
const (
	KeyListen       = "listen"
	KeyDB           = "db"
	KeySeed         = "seed"
	KeyAPI          = "api"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyReadTimeout  = "http.read_timeout"
	KeyWriteTimeout = "http.write_timeout"
)

// Config is the resolved configuration.
type Config struct {
	Listen string
	DB     string
	Seed   bool
	API    string
	Log    *Log
	HTTP   *HTTP
	Viper  *viper.Viper
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// HTTP configures server timeouts.
type HTTP struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListen, "127.0.0.1:7466")
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeySeed, false)
	v.SetDefault(KeyAPI, "http://127.0.0.1:7466")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyReadTimeout, 10*time.Second)
	v.SetDefault(KeyWriteTimeout, 30*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds each named flag to the key of the same name. Flags whose
// name differs from their key are mapped through aliases.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, aliases map[string]string) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if alias, ok := aliases[f.Name]; ok {
			key = alias
		} else if !isKey(key) {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

func isKey(name string) bool {
	switch name {
	case KeyListen, KeyDB, KeySeed, KeyAPI:
		return true
	}
	return false
}

// DefaultPath returns ~/.taskkeep/config.yaml, or "" when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".taskkeep", "config.yaml")
}

// Load reads the optional config file and resolves all keys. An explicit
// path must exist; the default path is used only when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		if def := DefaultPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Listen: v.GetString(KeyListen),
		DB:     v.GetString(KeyDB),
		Seed:   v.GetBool(KeySeed),
		API:    strings.TrimRight(v.GetString(KeyAPI), "/"),
		Log:    getLogConfig(v),
		HTTP:   getHTTPConfig(v),
		Viper:  v,
	}
	if cfg.HTTP.ReadTimeout <= 0 || cfg.HTTP.WriteTimeout <= 0 {
		return nil, fmt.Errorf("http timeouts must be positive")
	}
	return cfg, nil
}

func getLogConfig(v *viper.Viper) *Log {
	return &Log{
		Level:  v.GetString(KeyLogLevel),
		Format: v.GetString(KeyLogFormat),
	}
}

func getHTTPConfig(v *viper.Viper) *HTTP {
	return &HTTP{
		ReadTimeout:  v.GetDuration(KeyReadTimeout),
		WriteTimeout: v.GetDuration(KeyWriteTimeout),
	}
}
