// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Config holds the client configuration.
type Config struct {
	// Mode is the preset the configuration started from: device, demo, or dev.
	Mode string `toml:"mode"`

	// BackendURL is the base address every request is resolved against.
	// Example: "https://api.fieldscout.example/api/v1"
	BackendURL string `toml:"backend_url"`

	// Demo configures the offline responder.
	Demo DemoConfig `toml:"demo"`

	// OutboundHTTP configures the real network transport.
	OutboundHTTP OutboundHTTPConfig `toml:"outbound_http"`

	// TokenStore configures local credential storage.
	TokenStore TokenStoreConfig `toml:"token_store"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// DemoConfig holds demo-mode settings.
type DemoConfig struct {
	// Enabled replaces the network transport with canned responses.
	Enabled bool `toml:"enabled"`

	// DelayMS is the artificial latency before each canned response.
	// Default: 300. Must be positive.
	DelayMS int `toml:"delay_ms"`
}

// Delay returns DelayMS as a duration.
func (d DemoConfig) Delay() time.Duration {
	return time.Duration(d.DelayMS) * time.Millisecond
}

// OutboundHTTPConfig holds settings for outbound HTTP requests.
type OutboundHTTPConfig struct {
	// TimeoutMS is the overall request timeout in milliseconds
	TimeoutMS int `toml:"timeout_ms"`

	// ConnectTimeoutMS is the connection timeout in milliseconds
	ConnectTimeoutMS int `toml:"connect_timeout_ms"`

	// MaxResponseBytes caps how much of a response body is read. 0 disables the cap.
	MaxResponseBytes int64 `toml:"max_response_bytes"`

	// InsecureSkipVerify disables TLS certificate verification (dev only)
	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	// HTTP2 enables HTTP/2 negotiation on the network transport.
	HTTP2 bool `toml:"http2"`

	// UserAgent is sent on every request when non-empty.
	UserAgent string `toml:"user_agent"`
}

// TokenStoreConfig holds credential storage settings.
type TokenStoreConfig struct {
	// Driver is the storage driver name: memory, json, or sqlite.
	Driver string `toml:"driver"`

	// DataDir is the directory holding the json file or sqlite database.
	DataDir string `toml:"data_dir"`

	// Drivers holds per-driver options, e.g. [token_store.drivers.sqlite].
	Drivers map[string]map[string]any `toml:"drivers"`
}

// DriverOptions returns the option map for the configured driver.
func (c TokenStoreConfig) DriverOptions() map[string]any {
	if c.Drivers == nil {
		return nil
	}
	return c.Drivers[c.Driver]
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `toml:"level"`

	// AllowSensitive permits logging of bearer tokens.
	// Default: false. Use only for debugging.
	AllowSensitive bool `toml:"allow_sensitive"`
}

// Redacted returns a string representation of the config suitable for logs.
// The backend URL loses any userinfo; driver options are listed by name only.
func (c *Config) Redacted() string {
	var sb strings.Builder
	sb.WriteString("Config{\n")
	sb.WriteString(fmt.Sprintf("  Mode: %q,\n", c.Mode))
	sb.WriteString(fmt.Sprintf("  BackendURL: %q,\n", redactURL(c.BackendURL)))
	sb.WriteString("  Demo: {\n")
	sb.WriteString(fmt.Sprintf("    Enabled: %v,\n", c.Demo.Enabled))
	sb.WriteString(fmt.Sprintf("    DelayMS: %d,\n", c.Demo.DelayMS))
	sb.WriteString("  },\n")
	sb.WriteString("  OutboundHTTP: {\n")
	sb.WriteString(fmt.Sprintf("    TimeoutMS: %d,\n", c.OutboundHTTP.TimeoutMS))
	sb.WriteString(fmt.Sprintf("    ConnectTimeoutMS: %d,\n", c.OutboundHTTP.ConnectTimeoutMS))
	sb.WriteString(fmt.Sprintf("    MaxResponseBytes: %d,\n", c.OutboundHTTP.MaxResponseBytes))
	sb.WriteString(fmt.Sprintf("    InsecureSkipVerify: %v,\n", c.OutboundHTTP.InsecureSkipVerify))
	sb.WriteString(fmt.Sprintf("    HTTP2: %v,\n", c.OutboundHTTP.HTTP2))
	sb.WriteString("  },\n")
	sb.WriteString("  TokenStore: {\n")
	sb.WriteString(fmt.Sprintf("    Driver: %q,\n", c.TokenStore.Driver))
	sb.WriteString(fmt.Sprintf("    DataDir: %q,\n", c.TokenStore.DataDir))
	names := make([]string, 0, len(c.TokenStore.Drivers))
	for name := range c.TokenStore.Drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	sb.WriteString(fmt.Sprintf("    Drivers: %q,\n", names))
	sb.WriteString("  },\n")
	sb.WriteString("  Logging: {\n")
	sb.WriteString(fmt.Sprintf("    Level: %q,\n", c.Logging.Level))
	sb.WriteString(fmt.Sprintf("    AllowSensitive: %v,\n", c.Logging.AllowSensitive))
	sb.WriteString("  },\n")
	sb.WriteString("}")
	return sb.String()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("redacted")
	return u.String()
}
