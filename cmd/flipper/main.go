package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/config"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/adapters/notify"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/adapters/scrape"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/adapters/storage"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/application/agent"
	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one flip cycle and exit")
	dryRun := flag.Bool("dry-run", false, "mock sources only, no persistence")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("flipper starting",
		"config", *configPath,
		"budget", cfg.Agent.BudgetUSD,
		"interval", cfg.CycleInterval(),
		"dry_run", *dryRun,
		"once", *once,
	)

	sources, err := buildSources(cfg, *dryRun)
	if err != nil {
		slog.Error("failed to build sources", "err", err)
		os.Exit(1)
	}

	var store ports.BucketStore
	if !*dryRun {
		sqlStore, err := storage.NewSQLiteStore(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	agentCfg := agent.Config{
		Budget:           cfg.Agent.BudgetUSD,
		MaxPerSource:     cfg.Agent.MaxPerMarketplace,
		CycleInterval:    cfg.CycleInterval(),
		ValuationWorkers: cfg.Agent.ValuationWorkers,
		Once:             *once || *dryRun,
	}

	a := agent.New(agentCfg, sources, store, notify.NewConsole(), nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.WarmState(ctx); err != nil {
		slog.Error("failed to warm state from storage", "err", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		slog.Error("agent exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("flipper stopped cleanly")
}

// buildSources assembles the enabled listing sources. A dry run uses only
// the mock source, so no credentials are needed.
func buildSources(cfg *config.Config, dryRun bool) ([]ports.ListingSource, error) {
	seed := cfg.Sources.Facebook.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mock := scrape.NewMock("facebook", cfg.Sources.Facebook.Location, cfg.Sources.Facebook.Category, seed)

	if dryRun {
		return []ports.ListingSource{mock}, nil
	}

	var sources []ports.ListingSource

	if cfg.Sources.Craigslist.Enabled {
		sources = append(sources, scrape.NewCraigslist(
			cfg.Sources.Craigslist.BaseURL,
			cfg.Sources.Craigslist.City,
			cfg.Sources.Craigslist.Category,
		))
	}

	if cfg.Sources.Ebay.Enabled {
		if cfg.Sources.Ebay.APIToken == "" {
			return nil, errMissingEbayToken
		}
		sources = append(sources, scrape.NewEbay(
			cfg.Sources.Ebay.BaseURL,
			cfg.Sources.Ebay.Category,
			cfg.Sources.Ebay.APIToken,
		))
	}

	if cfg.Sources.Facebook.Enabled {
		sources = append(sources, mock)
	}

	return sources, nil
}

var errMissingEbayToken = errors.New("EBAY_API_TOKEN not set; required when the eBay source is enabled")

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
