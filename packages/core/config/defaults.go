package config

// DefaultDomain is the {{domain}} value used when none is configured.
const DefaultDomain = "http://localhost:3000"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Domain:           DefaultDomain,
		MaxIncludeDepth:  16,
		DefaultExtension: ".yaml",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Domain == defaults.Domain &&
		c.MaxIncludeDepth == defaults.MaxIncludeDepth &&
		c.DefaultExtension == defaults.DefaultExtension &&
		c.Schema == "" &&
		len(c.Exclude) == 0 &&
		c.Verbose == nil &&
		c.NoColor == nil
}
