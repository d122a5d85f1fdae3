// Package config assembles runtime settings from defaults, an optional YAML
// config file, TALLY_* environment variables, and command-line flags, in
// ascending precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultOutputName is the CSV filename used inside a scanned folder when no
// explicit output path is configured.
const DefaultOutputName = "extracted_amounts.csv"

// Config carries the resolved settings for one invocation.
type Config struct {
	Extension   string        `mapstructure:"extension"`
	Output      string        `mapstructure:"output"`
	ProviderURL string        `mapstructure:"provider-url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Verbose     bool          `mapstructure:"verbose"`
	Dump        bool          `mapstructure:"dump"`
}

var keys = []string{"extension", "output", "provider-url", "timeout", "verbose", "dump"}

// Build resolves configuration. Flags win over environment variables, which
// win over the config file, which wins over defaults. A missing default
// config file is fine; a file named explicitly must exist.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("extension", "pdf")
	v.SetDefault("output", "")
	v.SetDefault("provider-url", "https://api.frankfurter.app")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("verbose", false)
	v.SetDefault("dump", false)

	path := cfgFile
	if path == "" {
		path = "tally.yaml"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range keys {
			flag := flags.Lookup(key)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("error binding flag %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// OutputPath returns the CSV destination for a scanned folder, defaulting to
// DefaultOutputName inside that folder.
func (c *Config) OutputPath(folder string) string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(folder, DefaultOutputName)
}
