package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first; real environment variables win over
// it (godotenv.Load never overwrites existing variables).
//
// Recognized variables:
//
//	DUET_SERVER_URL     backend base URL
//	DUET_POLL_INTERVAL  task poll interval, Go duration syntax (e.g. "5s")
//	DUET_DB             path to the local session database
//	DUET_LOG_LEVEL      debug | info | warn | error
//	DUET_PUSH           "1" or "true" enables the websocket change nudge
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("DUET_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DUET_POLL_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DUET_DB")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("DUET_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("DUET_PUSH")); v != "" {
		cfg.EnablePush = v == "1" || strings.EqualFold(v, "true")
	}
}
