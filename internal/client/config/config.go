// Package config assembles runtime settings for the duet CLI from defaults,
// an optional JSON config file, a .env file / environment variables, and
// command-line flags, in that order of precedence.
package config

import "time"

// Config holds runtime settings for the duet CLI.
//
// PollInterval is how often the task lists are refetched while a household
// is active. DatabasePath is the local sqlite session store. MagicLink and
// JoinCode are one-shot startup inputs: a magic link (or bare token) to
// verify immediately, and an invite code to join once authenticated.
type Config struct {
	ServerURL    string
	PollInterval time.Duration
	DatabasePath string
	LogLevel     string
	EnablePush   bool
	MagicLink    string
	JoinCode     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.PollInterval = 5 * time.Second
	c.DatabasePath = "duet.db"
	c.LogLevel = "info"
	c.EnablePush = false
}

// Load constructs a Config, applies defaults, then overlays values from a
// JSON config file (-c/-config), the environment (including a .env file, if
// present) and the given command-line arguments (usually os.Args[1:]).
// Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
