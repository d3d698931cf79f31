package am

import (
	"net/url"

	"github.com/teranos/batchrest/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.WithHint(errors.New("server.base_url cannot be empty"),
			"set it in batchctl.toml, via BATCHCTL_SERVER_BASE_URL or with --url")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return errors.Wrapf(err, "server.base_url %q is not a URL", c.Server.BaseURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Newf("server.base_url must be an absolute http(s) URL, got %q", c.Server.BaseURL)
	}

	// 0 falls back to the default timeout; negative is invalid
	if c.Client.TimeoutSeconds < 0 {
		return errors.Newf("client.timeout_seconds must be >= 0, got %d", c.Client.TimeoutSeconds)
	}
	if c.Client.MaxRedirects < 0 {
		return errors.Newf("client.max_redirects must be >= 0, got %d", c.Client.MaxRedirects)
	}

	// Rate limiting: 0 = unlimited
	if c.Client.RequestsPerSecond < 0 {
		return errors.Newf("client.requests_per_second must be >= 0, got %g", c.Client.RequestsPerSecond)
	}
	if c.Client.Burst < 0 {
		return errors.Newf("client.burst must be >= 0, got %d", c.Client.Burst)
	}

	return nil
}
