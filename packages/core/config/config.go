package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "PMPLUS"

// Config represents the pmplus configuration
type Config struct {
	Domain           string   `json:"domain,omitempty" mapstructure:"domain"`
	MaxIncludeDepth  int      `json:"maxIncludeDepth,omitempty" mapstructure:"maxIncludeDepth"`
	DefaultExtension string   `json:"defaultExtension,omitempty" mapstructure:"defaultExtension"`
	Schema           string   `json:"schema,omitempty" mapstructure:"schema"` // JSON Schema file for validate
	Exclude          []string `json:"exclude,omitempty" mapstructure:"exclude"`
	Verbose          *bool    `json:"verbose,omitempty" mapstructure:"verbose"`
	NoColor          *bool    `json:"noColor,omitempty" mapstructure:"noColor"`

	// File is the config file the values were read from, if any.
	File string `json:"-" mapstructure:"-"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".pmplus.config.json",
	"pmplus.config.json",
	".pmplusrc",
	".pmplusrc.json",
}

// LoadConfig loads configuration from the specified path or searches the
// working directory for a config file.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		return load(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory. When
// none exists only defaults and environment overrides apply.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return load(configPath)
		}
	}
	return load("")
}

func load(path string) (*Config, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("domain", defaults.Domain)
	v.SetDefault("maxIncludeDepth", defaults.MaxIncludeDepth)
	v.SetDefault("defaultExtension", defaults.DefaultExtension)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"schema", "exclude", "verbose", "noColor"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.File = path
	return cfg, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Domain != "" {
		result.Domain = other.Domain
	}
	if other.MaxIncludeDepth > 0 {
		result.MaxIncludeDepth = other.MaxIncludeDepth
	}
	if other.DefaultExtension != "" {
		result.DefaultExtension = other.DefaultExtension
	}
	if other.Schema != "" {
		result.Schema = other.Schema
	}
	if len(other.Exclude) > 0 {
		result.Exclude = append(append([]string(nil), result.Exclude...), other.Exclude...)
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
