package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/odsregistry/internal/flagx"
)

// ClientFlags lists the flags parseFlags consumes. Each takes a value.
var ClientFlags = []string{"-a", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the registry server
//	-t int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ClientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the registry server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
