// Package am loads batchctl configuration ("I am") from TOML files and
// BATCHCTL_* environment variables.
package am

// Config represents the batchctl configuration
type Config struct {
	Server ServerConfig `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
	Client ClientConfig `mapstructure:"client" toml:"client" json:"client" yaml:"client"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// ServerConfig locates the batch REST service
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url" toml:"base_url" json:"base_url" yaml:"base_url"` // e.g. "http://localhost:8080/myapp/api"
}

// ClientConfig configures the HTTP transport
type ClientConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	BlockPrivateIP    bool    `mapstructure:"block_private_ip" toml:"block_private_ip" json:"block_private_ip" yaml:"block_private_ip"`
	MaxRedirects      int     `mapstructure:"max_redirects" toml:"max_redirects" json:"max_redirects" yaml:"max_redirects"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" json:"requests_per_second" yaml:"requests_per_second"` // 0 = unlimited
	Burst             int     `mapstructure:"burst" toml:"burst" json:"burst" yaml:"burst"`
	UserAgent         string  `mapstructure:"user_agent" toml:"user_agent" json:"user_agent" yaml:"user_agent"` // empty = batchrest/<version> (<os>/<arch>)
}

// LogConfig configures logger output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"` // JSON lines instead of console output
}

// Defaults
const (
	DefaultBaseURL        = "http://localhost:8080/api"
	DefaultTimeoutSeconds = 30
	DefaultMaxRedirects   = 10
	DefaultBurst          = 1
)

// Config file locations
const (
	SystemConfigPath  = "/etc/batchctl/config.toml"
	UserConfigDir     = ".batchctl"
	UserConfigFile    = "config.toml"
	ProjectConfigFile = "batchctl.toml"
	EnvPrefix         = "BATCHCTL"
)
