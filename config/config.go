// Package config resolves where an embedding host should keep this
// module's on-disk state: a per-OS default directory, overridable by the
// host, using github.com/spf13/viper for environment-variable and
// optional-file resolution. This is a programmatic configuration surface
// for a host process, not a command-line tool — no flag parsing is
// introduced here.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "UNISCHED"
	defaultStoreName  = "schedules.json"
	defaultSubdirName = "uni-schedule"
)

// Config is the resolved set of knobs a host needs to locate this
// module's reference storage backends.
type Config struct {
	// DataDir is the directory the reference storage backends should use.
	DataDir string `mapstructure:"data_dir"`
	// StoreFile is the file name jsonfile.Store should write within DataDir.
	StoreFile string `mapstructure:"store_file"`
}

// StorePath is the full path jsonfile.New should be given.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, c.StoreFile)
}

// Option customizes config resolution before Load reads the environment.
type Option func(*viper.Viper)

// WithConfigFile points Load at an optional YAML/JSON/TOML file; a missing
// file is not an error, matching viper's own "optional file" idiom.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) { v.SetConfigFile(path) }
}

// Load resolves a Config from, in increasing priority: built-in defaults,
// an optional config file, then UNISCHED_-prefixed environment variables.
// The resolved DataDir is created if it does not already exist.
func Load(opts ...Option) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("store_file", defaultStoreName)

	for _, opt := range opts {
		opt(v)
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg := Config{
		DataDir:   v.GetString("data_dir"),
		StoreFile: v.GetString("store_file"),
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, defaultSubdirName)
}
