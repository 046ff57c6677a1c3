package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/funrun/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-m string   metrics/health bind address, "" disables
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-t int      session validity, minutes
//	-r int      password reset token validity, minutes
//	-b string   public base URL for reset links
//	-e string   environment name ("production" enables Secure cookies)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and any
// foreign flags do not break parsing. Durations are whole minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-s", "-t", "-r", "-b", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port of the metrics endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session signing secret")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")
	resetValidity := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "password reset token validity (in minutes)")

	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment name")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetValidity) * time.Minute
}
