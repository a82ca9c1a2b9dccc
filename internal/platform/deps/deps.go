// Package deps assembles the objects the application shares: the loaded
// configuration, the token store and the client provider. There is no
// package-level instance; Build returns a value the caller owns and passes on.
package deps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/config"
	httpclient "github.com/MahdiBaghbani/fieldscout-go/internal/platform/http/client"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"

	// Register token store drivers
	_ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/loader"
)

// Deps holds the shared dependencies.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger

	// Tokens is the open token store. Deps owns it; Close releases it.
	Tokens tokenstore.Store

	// Clients holds the plain and authenticated clients.
	Clients *httpclient.Provider
}

// Build opens the configured token store and constructs the clients.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger = logutil.NoopIfNil(logger)

	store, err := tokenstore.Open(ctx, &tokenstore.DriverConfig{
		Driver:  cfg.TokenStore.Driver,
		DataDir: cfg.TokenStore.DataDir,
		Options: cfg.TokenStore.DriverOptions(),
	})
	if err != nil {
		return nil, err
	}

	provider, err := httpclient.NewProvider(
		httpclient.OptionsFromConfig(cfg, logger),
		store,
		cfg.Logging.AllowSensitive,
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build clients: %w", err)
	}

	logger.Info("dependencies ready",
		"token_store", store.Name(),
		"strategy", provider.Plain.Strategy().String(),
		"backend_url", provider.Plain.BaseURL())

	return &Deps{
		Config:  cfg,
		Logger:  logger,
		Tokens:  store,
		Clients: provider,
	}, nil
}

// Close releases the token store.
func (d *Deps) Close() error {
	if d == nil || d.Tokens == nil {
		return nil
	}
	return d.Tokens.Close()
}
