package config

import (
	"encoding/json"
	"fmt"
	"os"

	"duet/internal/flagx"
	"duet/internal/timex"
)

// jsonConfig is the unmarshalling DTO for a config file given with -c or
// -config. timex.Duration lets poll_interval be written as "5s".
type jsonConfig struct {
	ServerURL    string         `json:"server_url"`
	PollInterval timex.Duration `json:"poll_interval"`
	DatabasePath string         `json:"database_path"`
	LogLevel     string         `json:"log_level"`
	EnablePush   *bool          `json:"enable_push"`
}

// parseJSON overlays cfg with values from a JSON config file, when one was
// named on the command line. Fields absent from the file keep their current
// values.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.EnablePush != nil {
		cfg.EnablePush = *jc.EnablePush
	}
	return nil
}
