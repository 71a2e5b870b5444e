package config

import (
	"flag"
	"time"

	"github.com/secure2fa/vault/internal/flagx"
	"github.com/secure2fa/vault/internal/timex"
)

// parseFlags overlays command-line flags onto the config. Only the flags
// listed here are considered, so the -c/-config flag handled earlier does
// not trip the parser.
func (c *Config) parseFlags(args []string) {
	filtered := flagx.FilterArgs(args, []string{"-d", "-data-dir", "-i", "-interval", "-l", "-log-level"})

	var (
		dataDir  string
		interval time.Duration
		logLevel string
	)

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&dataDir, "data-dir", "", "Directory for the database and master key")
	fs.StringVar(&dataDir, "d", "", "Directory for the database and master key (short)")
	fs.DurationVar(&interval, "interval", 0, "Watch view refresh interval")
	fs.DurationVar(&interval, "i", 0, "Watch view refresh interval (short)")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&logLevel, "l", "", "Log level (short)")
	_ = fs.Parse(filtered)

	if dataDir != "" {
		c.DataDir = dataDir
	}
	if interval > 0 {
		c.RefreshInterval = timex.Duration{Duration: interval}
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}
