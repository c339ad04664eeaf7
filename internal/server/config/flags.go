package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/flagx"
)

// parseFlags overlays the command-line flags it owns.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-t int      session TTL, hours
//	-l string   log level
//	-b string   S3 bucket
//	-e string   S3 base endpoint
//
// Other arguments are filtered out with flagx.FilterArgs first so flags
// owned by other loaders (-c) do not collide. Parse errors panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-l", "-b", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session signing secret")
	ttlHours := fs.Int("t", int(config.SessionTTL.Hours()), "session TTL (in hours)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*ttlHours) * time.Hour
		}
	})
}
