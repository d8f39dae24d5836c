package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first if present; a missing file is
// not an error.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	overlay := []struct {
		name string
		dst  *string
	}{
		{"ADDRESS", &config.EndpointAddrHTTP},
		{"DATABASE_DSN", &config.DatabaseDSN},
		{"TWITCH_API_BASE_URL", &config.TwitchAPIBaseURL},
		{"TWITCH_CLIENT_ID", &config.TwitchClientID},
		{"TWITCH_OAUTH", &config.TwitchOAuthToken},
		{"WEBHOOK_BASE_URL", &config.WebhookBaseURL},
		{"CLIP_TIMEZONE", &config.ClipTimezone},
		{"S3_ROOT_USER", &config.S3RootUser},
		{"S3_ROOT_PASSWORD", &config.S3RootPassword},
		{"S3_BUCKET", &config.S3Bucket},
		{"S3_REGION", &config.S3Region},
		{"S3_BASE_ENDPOINT", &config.S3BaseEndpoint},
	}

	for _, o := range overlay {
		if v, ok := os.LookupEnv(o.name); ok && v != "" {
			*o.dst = v
		}
	}
}
