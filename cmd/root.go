package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wikitrail/trail/internal/config"
	"wikitrail/trail/internal/ctxlog"
	"wikitrail/trail/internal/explorer"
	"wikitrail/trail/internal/linkdb"
	"wikitrail/trail/internal/linksource"
	"wikitrail/trail/internal/metrics"
)

var (
	configPath  string
	dbPath      string
	logLevel    string
	logFormat   string
	logFile     string
	metricsAddr string
	demoSource  bool

	cfg       *config.Config
	logOutput *os.File
)

var rootCmd = &cobra.Command{
	Use:           "wikitrail",
	Short:         "Explore Wikipedia as a graph of links",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		w, err := openLogOutput(logFile, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, w).With("session", uuid.NewString())
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnFinalize(closeLogOutput)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default $XDG_CONFIG_HOME/wikitrail/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to a .wikitrail.db link dump")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	rootCmd.PersistentFlags().BoolVar(&demoSource, "demo", false, "Use a small built-in link source instead of the network")
}

// openLogOutput returns fallback when path is empty, else opens path for
// appending. The file stays open until closeLogOutput.
func openLogOutput(path string, fallback io.Writer) (io.Writer, error) {
	closeLogOutput()
	if path == "" {
		return fallback, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logOutput = f
	return f, nil
}

func closeLogOutput() {
	if logOutput == nil {
		return
	}
	logOutput.Close()
	logOutput = nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Log.Format = logFormat
	}
	if flags.Changed("metrics-addr") {
		c.Metrics.Addr = metricsAddr
	}
	if flags.Changed("db") {
		c.Source.Kind = "sqlite"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DiscoverDB finds the link dump using priority: env > flag > config > walk-up
func DiscoverDB() (string, error) {
	// 1. Environment variable
	if envPath := os.Getenv("WIKITRAIL_DB"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	// 2. CLI flag
	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}
		return "", fmt.Errorf("database not found at --db path: %s", dbPath)
	}

	// 3. Config file
	if cfg != nil && cfg.Source.Database != "" {
		if _, err := os.Stat(cfg.Source.Database); err == nil {
			return cfg.Source.Database, nil
		}
		return "", fmt.Errorf("database not found at configured path: %s", cfg.Source.Database)
	}

	// 4. Walk up from CWD
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ".wikitrail.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", fmt.Errorf("no .wikitrail.db found (set WIKITRAIL_DB, use --db, or run from a directory containing .wikitrail.db)")
}

// OpenDatabase discovers and opens the link dump
func OpenDatabase() (*linkdb.DB, error) {
	path, err := DiscoverDB()
	if err != nil {
		return nil, err
	}
	d, err := linkdb.OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureSchema(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// openSource returns the configured link source and a func releasing it.
func openSource() (linksource.Source, func(), error) {
	if demoSource {
		return demo(), func() {}, nil
	}
	switch cfg.Source.Kind {
	case "sqlite":
		d, err := OpenDatabase()
		if err != nil {
			return nil, nil, err
		}
		return d, func() { d.Close() }, nil
	default:
		mw := linksource.NewMediaWiki(cfg.Source.Endpoint, cfg.Source.UserAgent, cfg.Source.TimeoutDuration())
		mw.MaxLinks = cfg.Source.MaxLinks
		return mw, func() {}, nil
	}
}

// newExplorer builds an explorer over src reporting to surface. It starts
// the metrics listener when one is configured; stop shuts it down.
func newExplorer(ctx context.Context, src linksource.Source, surface explorer.Surface) (x *explorer.Explorer, stop func()) {
	logger := ctxlog.FromContext(ctx)
	var reg *metrics.Registry
	stop = func() {}
	if cfg.Metrics.Addr != "" {
		reg = metrics.NewRegistry()
		stop = serveMetrics(logger, cfg.Metrics.Addr, reg)
	}
	x = explorer.New(src, explorer.Options{
		Surface:    surface,
		LabelWidth: cfg.Explore.LabelWidth,
		Metrics:    reg,
		Logger:     logger,
	})
	return x, stop
}

func serveMetrics(logger *slog.Logger, addr string, reg *metrics.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
