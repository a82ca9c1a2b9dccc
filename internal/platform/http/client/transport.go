package client

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"

	"github.com/MahdiBaghbani/fieldscout-go/internal/demo"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/config"
)

// NewTransport returns the round tripper for strategy.
func NewTransport(strategy Strategy, cfg *config.OutboundHTTPConfig, demoDelay time.Duration, logger *slog.Logger) (http.RoundTripper, error) {
	switch strategy {
	case StrategyNetwork:
		return NewNetworkTransport(cfg)
	case StrategyDemo:
		return demo.NewResponder(demo.Options{Delay: demoDelay, Logger: logger}), nil
	default:
		return nil, fmt.Errorf("unknown transport strategy %d", int(strategy))
	}
}

// NewNetworkTransport builds the real transport. Proxy settings come from
// the environment, since field devices often sit behind carrier proxies.
func NewNetworkTransport(cfg *config.OutboundHTTPConfig) (*http.Transport, error) {
	if cfg == nil {
		preset := config.DevicePreset().OutboundHTTP
		cfg = &preset
	}

	dialer := &net.Dialer{
		Timeout:   time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		TLSHandshakeTimeout: time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}

	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("failed to enable HTTP/2: %w", err)
		}
	}

	return transport, nil
}
