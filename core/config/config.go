// Package config loads exif-surgery settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/tags"
)

// Config holds the settings shared by every command.
type Config struct {
	MaxDepth       int    `mapstructure:"max_depth"`
	Strict         bool   `mapstructure:"strict"`
	SkipBadSubIFDs bool   `mapstructure:"skip_bad_subifds"`
	Workers        int    `mapstructure:"workers"`
	Output         string `mapstructure:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_depth", exif.DefaultMaxDepth)
	v.SetDefault("strict", false)
	v.SetDefault("skip_bad_subifds", false)
	v.SetDefault("workers", 4)
	v.SetDefault("output", core.OutputTable)
}

// Load reads configuration into v and returns the merged result. When file
// is empty, surgery.yaml is searched in ".", "$HOME/.surgery" and
// "/etc/surgery"; a missing file is not an error. Environment variables
// use the SURGERY_ prefix, e.g. SURGERY_MAX_DEPTH.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("surgery")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.surgery")
		v.AddConfigPath("/etc/surgery")
	}

	SetDefaults(v)

	// Allow environment variables
	v.SetEnvPrefix("SURGERY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no command can work with.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Output {
	case core.OutputTable, core.OutputJSON, core.OutputYAML:
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output)
	}
	return nil
}

// DecodeOptions returns the codec options described by c.
func (c *Config) DecodeOptions(reg *tags.Registry) exif.DecodeOptions {
	return exif.DecodeOptions{
		MaxDepth:       c.MaxDepth,
		Registry:       reg,
		Strict:         c.Strict,
		SkipBadSubIFDs: c.SkipBadSubIFDs,
	}
}
