package config

import (
	"flag"
	"os"

	"github.com/op47/clipchat/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":2001")
//	-d string   PostgreSQL DSN
//	-i string   Twitch client id
//	-o string   Twitch OAuth token
//	-w string   webhook base URL
//	-z string   clip timezone (IANA name)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-o", "-w", "-z", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TwitchClientID, "i", config.TwitchClientID, "Twitch client id")
	fs.StringVar(&config.TwitchOAuthToken, "o", config.TwitchOAuthToken, "Twitch OAuth token")
	fs.StringVar(&config.WebhookBaseURL, "w", config.WebhookBaseURL, "webhook base URL")
	fs.StringVar(&config.ClipTimezone, "z", config.ClipTimezone, "clip timezone")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
