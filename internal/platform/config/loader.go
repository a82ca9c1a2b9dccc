package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode represents the configuration preset.
type Mode string

const (
	ModeDevice Mode = "device"
	ModeDemo   Mode = "demo"
	ModeDev    Mode = "dev"
)

// Environment variables read by Load. The EXPO_PUBLIC_* names are the ones
// the mobile build already exports; they are consulted when the
// FIELDSCOUT_* names are unset.
const (
	EnvBackendURL     = "FIELDSCOUT_BACKEND_URL"
	EnvDemoMode       = "FIELDSCOUT_DEMO_MODE"
	EnvExpoBackendURL = "EXPO_PUBLIC_BACKEND_URL"
	EnvExpoDemoMode   = "EXPO_PUBLIC_DEMO_MODE"
)

// DefaultDemoDelayMS is the demo latency used by every preset.
const DefaultDemoDelayMS = 300

const defaultTokenDataDir = ".fieldscout"

// ParseMode parses a mode string, returning an error for invalid values.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "device", "":
		return ModeDevice, nil
	case "demo":
		return ModeDemo, nil
	case "dev":
		return ModeDev, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be one of device, demo, dev", s)
	}
}

// LoaderOptions controls how configuration is loaded.
type LoaderOptions struct {
	// ConfigPath is the path to a TOML config file (optional).
	// If provided but file is missing or invalid, loading fails.
	ConfigPath string

	// ModeFlag is the --mode flag value (overrides config file mode).
	ModeFlag string

	// FlagOverrides are CLI flag values that override config file and
	// environment values.
	FlagOverrides FlagOverrides

	// LookupEnv reads environment variables. Nil uses os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Logger is used for warning messages (e.g., undecoded keys).
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// FlagOverrides holds CLI flag values that override config file values.
type FlagOverrides struct {
	BackendURL            *string
	DemoMode              *string // "true", "false", or "" (unset)
	DemoDelayMS           *string
	TokenStoreDriver      *string
	TokenStoreDataDir     *string
	InsecureSkipVerify    *string // "true", "false", or "" (unset)
	LoggingLevel          *string
	LoggingAllowSensitive *string // "true", "false", or "" (unset)
}

// fileConfig mirrors Config but with pointer fields to detect presence.
type fileConfig struct {
	Mode       string `toml:"mode"`
	BackendURL string `toml:"backend_url"`

	Demo         *demoConfig         `toml:"demo"`
	OutboundHTTP *outboundHTTPConfig `toml:"outbound_http"`
	TokenStore   *tokenStoreConfig   `toml:"token_store"`
	Logging      *loggingConfig      `toml:"logging"`
}

type demoConfig struct {
	Enabled *bool `toml:"enabled"`
	DelayMS int   `toml:"delay_ms"`
}

type outboundHTTPConfig struct {
	TimeoutMS          int    `toml:"timeout_ms"`
	ConnectTimeoutMS   int    `toml:"connect_timeout_ms"`
	MaxResponseBytes   *int64 `toml:"max_response_bytes"`
	InsecureSkipVerify *bool  `toml:"insecure_skip_verify"`
	HTTP2              *bool  `toml:"http2"`
	UserAgent          string `toml:"user_agent"`
}

type tokenStoreConfig struct {
	Driver  string                    `toml:"driver"`
	DataDir string                    `toml:"data_dir"`
	Drivers map[string]map[string]any `toml:"drivers"`
}

type loggingConfig struct {
	Level          string `toml:"level"`
	AllowSensitive bool   `toml:"allow_sensitive"`
}

// Load loads configuration with the following precedence:
//  1. Determine effective mode: --mode flag > mode in config file > default (device)
//  2. Start from mode preset defaults
//  3. Overlay TOML config file values
//  4. Overlay environment variables
//  5. Overlay CLI flags
//  6. Validate
//
// The demo decision is final once Load returns; nothing re-reads the
// environment afterwards.
func Load(opts LoaderOptions) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	var fc fileConfig

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigPath, err)
		}
		md, err := toml.Decode(string(data), &fc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", opts.ConfigPath, err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			if len(keys) > 0 {
				logger.Warn("config file contains undecoded keys", "path", opts.ConfigPath, "keys", keys)
			}
		}
	}

	modeStr := "device"
	if fc.Mode != "" {
		modeStr = fc.Mode
	}
	if opts.ModeFlag != "" {
		modeStr = opts.ModeFlag
	}

	mode, err := ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	cfg := presetForMode(mode)

	if opts.ConfigPath != "" {
		overlayFileConfig(cfg, &fc)
	}

	overlayEnv(cfg, lookupEnv)

	if err := overlayFlags(cfg, opts.FlagOverrides); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// presetForMode returns the base config for a given mode.
func presetForMode(mode Mode) *Config {
	switch mode {
	case ModeDemo:
		return DemoPreset()
	case ModeDev:
		return DevPreset()
	default:
		return DevicePreset()
	}
}

// DevicePreset returns the defaults for a production device build.
func DevicePreset() *Config {
	return &Config{
		Mode: string(ModeDevice),
		Demo: DemoConfig{
			Enabled: false,
			DelayMS: DefaultDemoDelayMS,
		},
		OutboundHTTP: OutboundHTTPConfig{
			TimeoutMS:          15000,
			ConnectTimeoutMS:   5000,
			MaxResponseBytes:   10 << 20,
			InsecureSkipVerify: false,
			HTTP2:              true,
			UserAgent:          "fieldscout-go",
		},
		TokenStore: TokenStoreConfig{
			Driver:  "json",
			DataDir: defaultTokenDataDir,
		},
		Logging: LoggingConfig{
			Level:          "info",
			AllowSensitive: false,
		},
	}
}

// DemoPreset returns device defaults with the offline responder enabled.
func DemoPreset() *Config {
	cfg := DevicePreset()
	cfg.Mode = string(ModeDemo)
	cfg.Demo.Enabled = true
	return cfg
}

// DevPreset returns defaults for working against a local backend.
func DevPreset() *Config {
	cfg := DevicePreset()
	cfg.Mode = string(ModeDev)
	cfg.BackendURL = "http://localhost:8000"
	cfg.OutboundHTTP.InsecureSkipVerify = true
	cfg.TokenStore.DataDir = ".fieldscout-dev"
	cfg.Logging.Level = "debug"
	return cfg
}

// overlayFileConfig applies TOML file values onto cfg.
func overlayFileConfig(cfg *Config, fc *fileConfig) {
	if fc.BackendURL != "" {
		cfg.BackendURL = fc.BackendURL
	}

	if fc.Demo != nil {
		if fc.Demo.Enabled != nil {
			cfg.Demo.Enabled = *fc.Demo.Enabled
		}
		if fc.Demo.DelayMS != 0 {
			cfg.Demo.DelayMS = fc.Demo.DelayMS
		}
	}

	if fc.OutboundHTTP != nil {
		if fc.OutboundHTTP.TimeoutMS != 0 {
			cfg.OutboundHTTP.TimeoutMS = fc.OutboundHTTP.TimeoutMS
		}
		if fc.OutboundHTTP.ConnectTimeoutMS != 0 {
			cfg.OutboundHTTP.ConnectTimeoutMS = fc.OutboundHTTP.ConnectTimeoutMS
		}
		if fc.OutboundHTTP.MaxResponseBytes != nil {
			cfg.OutboundHTTP.MaxResponseBytes = *fc.OutboundHTTP.MaxResponseBytes
		}
		if fc.OutboundHTTP.InsecureSkipVerify != nil {
			cfg.OutboundHTTP.InsecureSkipVerify = *fc.OutboundHTTP.InsecureSkipVerify
		}
		if fc.OutboundHTTP.HTTP2 != nil {
			cfg.OutboundHTTP.HTTP2 = *fc.OutboundHTTP.HTTP2
		}
		if fc.OutboundHTTP.UserAgent != "" {
			cfg.OutboundHTTP.UserAgent = fc.OutboundHTTP.UserAgent
		}
	}

	if fc.TokenStore != nil {
		if fc.TokenStore.Driver != "" {
			cfg.TokenStore.Driver = fc.TokenStore.Driver
		}
		if fc.TokenStore.DataDir != "" {
			cfg.TokenStore.DataDir = fc.TokenStore.DataDir
		}
		if len(fc.TokenStore.Drivers) > 0 {
			cfg.TokenStore.Drivers = fc.TokenStore.Drivers
		}
	}

	if fc.Logging != nil {
		if fc.Logging.Level != "" {
			cfg.Logging.Level = fc.Logging.Level
		}
		cfg.Logging.AllowSensitive = fc.Logging.AllowSensitive
	}
}

// overlayEnv applies environment values onto cfg. The demo flag is on only
// for the literal string "true"; any other value that is present turns it off.
func overlayEnv(cfg *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := firstEnv(lookupEnv, EnvBackendURL, EnvExpoBackendURL); ok && v != "" {
		cfg.BackendURL = v
	}
	if v, ok := firstEnv(lookupEnv, EnvDemoMode, EnvExpoDemoMode); ok {
		cfg.Demo.Enabled = v == "true"
	}
}

func firstEnv(lookupEnv func(string) (string, bool), keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := lookupEnv(k); ok {
			return v, true
		}
	}
	return "", false
}

// overlayFlags applies CLI flag values onto cfg.
func overlayFlags(cfg *Config, f FlagOverrides) error {
	if f.BackendURL != nil && *f.BackendURL != "" {
		cfg.BackendURL = *f.BackendURL
	}
	if f.DemoMode != nil && *f.DemoMode != "" {
		cfg.Demo.Enabled = *f.DemoMode == "true"
	}
	if f.DemoDelayMS != nil && *f.DemoDelayMS != "" {
		ms, err := strconv.Atoi(*f.DemoDelayMS)
		if err != nil {
			return fmt.Errorf("invalid demo delay %q: %w", *f.DemoDelayMS, err)
		}
		cfg.Demo.DelayMS = ms
	}
	if f.TokenStoreDriver != nil && *f.TokenStoreDriver != "" {
		cfg.TokenStore.Driver = *f.TokenStoreDriver
	}
	if f.TokenStoreDataDir != nil && *f.TokenStoreDataDir != "" {
		cfg.TokenStore.DataDir = *f.TokenStoreDataDir
	}
	if f.InsecureSkipVerify != nil && *f.InsecureSkipVerify != "" {
		cfg.OutboundHTTP.InsecureSkipVerify = *f.InsecureSkipVerify == "true"
	}
	if f.LoggingLevel != nil && *f.LoggingLevel != "" {
		cfg.Logging.Level = *f.LoggingLevel
	}
	if f.LoggingAllowSensitive != nil && *f.LoggingAllowSensitive != "" {
		cfg.Logging.AllowSensitive = *f.LoggingAllowSensitive == "true"
	}
	return nil
}

// validate checks enum fields, numeric bounds and the backend URL.
func validate(cfg *Config) error {
	switch cfg.TokenStore.Driver {
	case "memory":
		// valid, no data dir needed
	case "json", "sqlite":
		if strings.TrimSpace(cfg.TokenStore.DataDir) == "" {
			return fmt.Errorf("token_store.data_dir is required for driver %q", cfg.TokenStore.Driver)
		}
	default:
		return fmt.Errorf("invalid token_store.driver %q: must be one of memory, json, sqlite", cfg.TokenStore.Driver)
	}

	switch cfg.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid logging.level %q: must be one of trace, debug, info, warn, error", cfg.Logging.Level)
	}

	if cfg.Demo.Enabled && cfg.Demo.DelayMS <= 0 {
		return fmt.Errorf("invalid demo.delay_ms %d: must be positive", cfg.Demo.DelayMS)
	}

	if cfg.OutboundHTTP.TimeoutMS < 0 {
		return fmt.Errorf("invalid outbound_http.timeout_ms %d: must not be negative", cfg.OutboundHTTP.TimeoutMS)
	}
	if cfg.OutboundHTTP.ConnectTimeoutMS < 0 {
		return fmt.Errorf("invalid outbound_http.connect_timeout_ms %d: must not be negative", cfg.OutboundHTTP.ConnectTimeoutMS)
	}
	if cfg.OutboundHTTP.MaxResponseBytes < 0 {
		return fmt.Errorf("invalid outbound_http.max_response_bytes %d: must not be negative", cfg.OutboundHTTP.MaxResponseBytes)
	}

	return validateBackendURL(cfg)
}

// validateBackendURL checks backend_url. It may be empty only in demo mode,
// where no request reaches the network.
func validateBackendURL(cfg *Config) error {
	raw := cfg.BackendURL
	if raw == "" {
		if cfg.Demo.Enabled {
			return nil
		}
		return fmt.Errorf("backend_url is required (set %s or backend_url in the config file)", EnvBackendURL)
	}

	if raw != strings.TrimSpace(raw) {
		return fmt.Errorf("invalid backend_url %q: must not contain leading or trailing whitespace", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid backend_url %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http", "https":
		// valid
	default:
		return fmt.Errorf("invalid backend_url %q: scheme must be http or https", raw)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must include a host", raw)
	}

	if u.RawQuery != "" {
		return fmt.Errorf("invalid backend_url %q: must not include a query string", raw)
	}

	if u.Fragment != "" {
		return fmt.Errorf("invalid backend_url %q: must not include a fragment", raw)
	}

	return nil
}
