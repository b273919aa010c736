package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/graphsheet/graphsheet/internal/auth"
	"github.com/graphsheet/graphsheet/internal/config"
	"github.com/graphsheet/graphsheet/internal/graph"
	"github.com/graphsheet/graphsheet/internal/resolve"
	"github.com/graphsheet/graphsheet/internal/stream"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultConfigPath is used when neither --config nor GRAPHSHEET_CONFIG is set.
const defaultConfigPath = "graphsheet.toml"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath  string
	flagJSON        bool
	flagVerbose     bool
	flagQuiet       bool
	flagParallelism int
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Config

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "graphsheet",
		Short:   "Extract Excel Online worksheets as record streams",
		Long:    "graphsheet reads Excel workbooks hosted in SharePoint/OneDrive via the Microsoft Graph API and exposes each configured worksheet as a stream of row records.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")
	cmd.PersistentFlags().IntVar(&flagParallelism, "parallelism", 1, "number of streams to extract concurrently")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newDiscoverCmd())
	cmd.AddCommand(newReadCmd())

	return cmd
}

// loadConfig resolves the config file path (flag > env > default) and loads
// it, storing the result in resolvedCfg for use by subcommands.
func loadConfig() error {
	env := config.ReadEnvOverrides()

	path := defaultConfigPath
	if env.ConfigPath != "" {
		path = env.ConfigPath
	}

	if flagConfigPath != "" {
		path = flagConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = cfg

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win. Format "auto" uses the
// text handler on a terminal and JSON otherwise, so piped logs stay
// machine-readable.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo
	format := "auto"

	if resolvedCfg != nil {
		switch resolvedCfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		if resolvedCfg.Logging.LogFormat != "" {
			format = resolvedCfg.Logging.LogFormat
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	useText := format == "text" ||
		(format == "auto" && isatty.IsTerminal(os.Stderr.Fd()))
	if useText {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// connector bundles the shared dependencies a subcommand needs: one token
// provider, one rate limiter, and one Graph client for the whole run.
type connector struct {
	extractor *stream.Extractor
	defs      []stream.Definition
	logger    *slog.Logger
}

// buildConnector wires the dependency graph from the resolved config.
func buildConnector() *connector {
	logger := buildLogger()
	cfg := resolvedCfg

	httpClient := &http.Client{Timeout: cfg.Network.RequestTimeoutDuration()}

	tokens := auth.NewProvider(auth.Credentials{
		TenantID:     cfg.TenantID,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}, httpClient, logger)

	limiter := graph.NewLimiter(cfg.Network.RequestsPerSecond, cfg.Network.Burst)

	client := graph.NewClient(cfg.GraphBaseURL, httpClient, tokens, limiter, graph.RetryPolicy{
		MaxRetries:     cfg.Network.MaxRetries,
		InitialBackoff: cfg.Network.InitialBackoffDuration(),
		MaxBackoff:     cfg.Network.MaxBackoffDuration(),
	}, logger)

	resolver := resolve.NewResolver(client, logger)

	return &connector{
		extractor: stream.NewExtractor(client, resolver, logger),
		defs:      stream.BuildCatalog(cfg.Workbooks),
		logger:    logger,
	}
}
