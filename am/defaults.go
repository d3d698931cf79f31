package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
// Every key needs a default so BATCHCTL_* variables reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", DefaultBaseURL)

	v.SetDefault("client.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("client.block_private_ip", false) // batch services usually sit on private networks
	v.SetDefault("client.max_redirects", DefaultMaxRedirects)
	v.SetDefault("client.requests_per_second", 0.0)
	v.SetDefault("client.burst", DefaultBurst)
	v.SetDefault("client.user_agent", "")

	v.SetDefault("log.json", false)
}

// Timeout returns the request timeout
func (c *Config) Timeout() time.Duration {
	if c.Client.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Client.TimeoutSeconds) * time.Second
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {BaseURL: %s}, Client: {Timeout: %s, RPS: %g}}",
		c.Server.BaseURL, c.Timeout(), c.Client.RequestsPerSecond)
}
