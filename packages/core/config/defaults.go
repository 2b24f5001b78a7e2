package config

const (
	DefaultOutput      = "console"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultConcurrency = 5
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Concurrency: DefaultConcurrency,
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
		Parallel:    BoolPtr(false),
		Bail:        BoolPtr(false),
		UseMocks:    BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Name == defaults.Name &&
		len(c.Subjects) == 0 &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat &&
		c.Concurrency == defaults.Concurrency &&
		c.Rate == defaults.Rate &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetParallel() == defaults.GetParallel() &&
		c.GetBail() == defaults.GetBail() &&
		c.GetUseMocks() == defaults.GetUseMocks()
}
