package config

import (
	"encoding/json"
	"os"

	"github.com/op47/clipchat/internal/flagx"
	"github.com/op47/clipchat/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, non-empty fields are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	TwitchAPIBaseURL string `json:"twitch_api_base_url"`
	TwitchClientID   string `json:"twitch_client_id"`
	TwitchOAuthToken string `json:"twitch_oauth_token"`
	WebhookBaseURL   string `json:"webhook_base_url"`
	ClipTimezone     string `json:"clip_timezone"`
	S3RootUser       string `json:"s3_root_user"`
	S3RootPassword   string `json:"s3_root_password"`
	S3Bucket         string `json:"s3_bucket"`
	S3Region         string `json:"s3_region"`
	S3BaseEndpoint   string `json:"s3_base_endpoint"`

	// PresignTTL accepts either a duration string ("15m") or an integer
	// number of nanoseconds.
	PresignTTL timex.Duration `json:"presign_ttl"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or
// invalid file panics, matching the other config layers.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay := []struct {
		src string
		dst *string
	}{
		{c.EndpointAddrHTTP, &config.EndpointAddrHTTP},
		{c.DatabaseDSN, &config.DatabaseDSN},
		{c.TwitchAPIBaseURL, &config.TwitchAPIBaseURL},
		{c.TwitchClientID, &config.TwitchClientID},
		{c.TwitchOAuthToken, &config.TwitchOAuthToken},
		{c.WebhookBaseURL, &config.WebhookBaseURL},
		{c.ClipTimezone, &config.ClipTimezone},
		{c.S3RootUser, &config.S3RootUser},
		{c.S3RootPassword, &config.S3RootPassword},
		{c.S3Bucket, &config.S3Bucket},
		{c.S3Region, &config.S3Region},
		{c.S3BaseEndpoint, &config.S3BaseEndpoint},
	}

	for _, o := range overlay {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	if c.PresignTTL.Duration > 0 {
		config.PresignTTL = c.PresignTTL.Duration
	}
}
