package client

import (
	"errors"
	"log/slog"

	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/config"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

// Provider holds the two clients the application talks to the backend with.
// Build it once at startup and pass it to whatever issues requests.
type Provider struct {
	// Plain never sets Authorization. Use it for login, registration and
	// account recovery.
	Plain *Client

	// Authenticated attaches the stored access token to every request.
	Authenticated *Client
}

// NewProvider builds both clients from opts. The transport is created once
// and shared; only the authenticated client reads tokens.
func NewProvider(opts Options, tokens tokenstore.Reader, allowSensitive bool) (*Provider, error) {
	if tokens == nil {
		return nil, errors.New("token store is required")
	}
	logger := logutil.NoopIfNil(opts.Logger)

	if opts.Transport == nil {
		httpCfg := opts.HTTP
		if httpCfg == nil {
			preset := config.DevicePreset().OutboundHTTP
			httpCfg = &preset
		}
		transport, err := NewTransport(opts.Strategy, httpCfg, opts.DemoDelay, logger)
		if err != nil {
			return nil, err
		}
		opts.Transport = transport
	}

	plainOpts := opts
	plainOpts.Logger = logger.With("client", "plain")
	plain, err := New(plainOpts)
	if err != nil {
		return nil, err
	}

	authOpts := opts
	authOpts.Logger = logger.With("client", "authenticated")
	authenticated, err := New(authOpts, BearerToken(tokens, authOpts.Logger, allowSensitive))
	if err != nil {
		return nil, err
	}

	return &Provider{Plain: plain, Authenticated: authenticated}, nil
}

// OptionsFromConfig maps loaded configuration onto client options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	strategy := StrategyNetwork
	if cfg.Demo.Enabled {
		strategy = StrategyDemo
	}
	httpCfg := cfg.OutboundHTTP
	return Options{
		BaseURL:   cfg.BackendURL,
		Strategy:  strategy,
		HTTP:      &httpCfg,
		DemoDelay: cfg.Demo.Delay(),
		Logger:    logger,
	}
}
