// Package main is the developer entrypoint for fieldscout-go. It issues
// single requests through the plain or authenticated client and manages the
// stored access token.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/config"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/deps"
	httpclient "github.com/MahdiBaghbani/fieldscout-go/internal/platform/http/client"
	"github.com/MahdiBaghbani/fieldscout-go/internal/platform/logutil"
	"github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore"
)

const usage = `Usage: fieldscout [flags] <command> [args]

Commands:
  request [-auth] [-H "Key: Value"]... [-data BODY] [METHOD] PATH
  token set VALUE | token clear | token show [-reveal]

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr))
}

// run parses args, builds dependencies and dispatches the command. It returns
// the process exit code.
func run(ctx context.Context, args []string, lookupEnv func(string) (string, bool), stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fieldscout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to TOML config file (optional)")
	modeFlag := fs.String("mode", "", "Operating mode: device, demo, or dev (overrides config)")
	backendURL := fs.String("backend-url", "", "Backend base URL (overrides config and environment)")
	demoMode := fs.String("demo", "", "Demo mode: true or false (overrides config and environment)")
	demoDelay := fs.String("demo-delay-ms", "", "Demo response delay in milliseconds (overrides config)")
	storeDriver := fs.String("token-store-driver", "", "Token store driver: memory, json, or sqlite (overrides config)")
	storeDataDir := fs.String("token-store-data-dir", "", "Token store data directory (overrides config)")
	insecure := fs.String("insecure-skip-verify", "", "Skip TLS verification: true or false (overrides config)")
	loggingLevel := fs.String("logging-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	loggingAllowSensitive := fs.String("logging-allow-sensitive", "", "Allow tokens in logs: true or false (overrides config)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// Bootstrap logger for config loading errors (uses default level)
	bootstrapLogger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPath: *configPath,
		ModeFlag:   *modeFlag,
		FlagOverrides: config.FlagOverrides{
			BackendURL:            backendURL,
			DemoMode:              demoMode,
			DemoDelayMS:           demoDelay,
			TokenStoreDriver:      storeDriver,
			TokenStoreDataDir:     storeDataDir,
			InsecureSkipVerify:    insecure,
			LoggingLevel:          loggingLevel,
			LoggingAllowSensitive: loggingAllowSensitive,
		},
		LookupEnv: lookupEnv,
		Logger:    bootstrapLogger,
	})
	if err != nil {
		bootstrapLogger.Error("failed to load config", "error", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: logutil.ParseLevel(cfg.Logging.Level),
	}))
	logger.Debug("effective configuration", "config", cfg.Redacted())

	d, err := deps.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return 1
	}
	defer d.Close()

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "request":
		err = runRequest(ctx, d, cmdArgs, stdout, stderr)
	case "token":
		err = runToken(ctx, d, cmdArgs, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, ue.Error())
		return 2
	default:
		logger.Error(cmd+" failed", "error", err)
		return 1
	}
}

// usageError marks bad command-line input.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// headerFlags collects repeated -H values.
type headerFlags http.Header

func (h headerFlags) String() string { return "" }

func (h headerFlags) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header %q must be \"Key: Value\"", v)
	}
	http.Header(h).Add(strings.TrimSpace(name), strings.TrimSpace(value))
	return nil
}

// requestOutput is what the request command prints.
type requestOutput struct {
	Status     int             `json:"status"`
	StatusText string          `json:"status_text"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func runRequest(ctx context.Context, d *deps.Deps, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(stderr)
	auth := fs.Bool("auth", false, "Use the authenticated client")
	data := fs.String("data", "", "Request body (sent as is)")
	header := headerFlags{}
	fs.Var(header, "H", "Extra header \"Key: Value\" (repeatable)")
	if err := fs.Parse(args); err != nil {
		return usageError{msg: err.Error()}
	}

	method, path := http.MethodGet, ""
	switch fs.NArg() {
	case 1:
		path = fs.Arg(0)
	case 2:
		method, path = fs.Arg(0), fs.Arg(1)
	default:
		return usageError{msg: "request needs [METHOD] PATH"}
	}

	var c httpclient.Requester = d.Clients.Plain
	if *auth {
		c = d.Clients.Authenticated
	}

	rc := &httpclient.RequestConfig{
		Method: method,
		URL:    path,
		Header: http.Header(header),
	}
	if *data != "" {
		rc.Body = *data
	}

	resp, err := c.Do(ctx, rc)
	if err != nil {
		return err
	}

	out := requestOutput{Status: resp.Status, StatusText: resp.StatusText}
	if json.Valid(resp.Data) {
		out.Data = resp.Data
	} else if len(resp.Data) > 0 {
		quoted, _ := json.Marshal(string(resp.Data))
		out.Data = quoted
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runToken(ctx context.Context, d *deps.Deps, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return usageError{msg: "token needs set, clear or show"}
	}

	switch args[0] {
	case "set":
		if len(args) != 2 || args[1] == "" {
			return usageError{msg: "token set needs a VALUE"}
		}
		if err := d.Tokens.Set(ctx, tokenstore.AccessTokenKey, args[1]); err != nil {
			return err
		}
		d.Logger.Info("access token stored", "token_store", d.Tokens.Name())
		return nil

	case "clear":
		if err := d.Tokens.Delete(ctx, tokenstore.AccessTokenKey); err != nil {
			return err
		}
		d.Logger.Info("access token cleared", "token_store", d.Tokens.Name())
		return nil

	case "show":
		fs := flag.NewFlagSet("token show", flag.ContinueOnError)
		fs.SetOutput(stderr)
		reveal := fs.Bool("reveal", false, "Print the token unredacted")
		if err := fs.Parse(args[1:]); err != nil {
			return usageError{msg: err.Error()}
		}
		token, ok, err := d.Tokens.Get(ctx, tokenstore.AccessTokenKey)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "no access token stored")
			return nil
		}
		fmt.Fprintln(stdout, logutil.Redact(token, *reveal || d.Config.Logging.AllowSensitive))
		return nil

	default:
		return usageError{msg: fmt.Sprintf("unknown token command %q", args[0])}
	}
}
