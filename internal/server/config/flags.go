package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/odsregistry/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-p string   HTTP port
//	-g string   gRPC health endpoint address
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token/session validity, minutes
//	-m string   auth strategy: jwt | session
//
// Only these flags are looked at, so -c/-config and -e/-env stay available
// to the other loaders.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-g", "-d", "-s", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPPort, "p", config.HTTPPort, "HTTP port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AuthStrategy, "m", config.AuthStrategy, "auth strategy (jwt|session)")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
