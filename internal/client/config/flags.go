package config

import (
	"flag"
	"time"

	"duet/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     backend base URL (default from Config)
//	-i int        task poll interval in seconds (default from Config)
//	-d string     path to the local session database
//	-l string     log level
//	-push         enable the websocket change nudge
//	-link string  magic link or token to verify on startup
//	-join string  invite code to join once authenticated
func parseFlags(cfg *Config, args []string) error {
	// Unknown arguments (the config-file flags, test runner flags) are
	// filtered out instead of failing the parse.
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-l", "-push", "-link", "-join"})

	fs := flag.NewFlagSet("duet", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "address of the backend server")
	pollSeconds := fs.Int("i", int(cfg.PollInterval.Seconds()), "task poll interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.EnablePush, "push", cfg.EnablePush, "enable websocket change notifications")
	fs.StringVar(&cfg.MagicLink, "link", "", "magic link (or token) to verify on startup")
	fs.StringVar(&cfg.JoinCode, "join", "", "household invite code to join after sign-in")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *pollSeconds > 0 {
		cfg.PollInterval = time.Duration(*pollSeconds) * time.Second
	}
	return nil
}
