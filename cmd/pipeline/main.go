package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/leonberkemeier/financial-data-pipeline/internal/config"
	"github.com/leonberkemeier/financial-data-pipeline/internal/database"
	"github.com/leonberkemeier/financial-data-pipeline/internal/orchestrator"
	"github.com/leonberkemeier/financial-data-pipeline/internal/pipeline"
	"github.com/leonberkemeier/financial-data-pipeline/internal/provider"
	"github.com/leonberkemeier/financial-data-pipeline/internal/version"
	"github.com/leonberkemeier/financial-data-pipeline/internal/warehouse"
)

func main() {
	configPath := flag.String("config", "configs/pipeline.local.yaml", "path to config file")
	only := flag.String("pipelines", "", "comma-separated subset of pipelines to run (default: all enabled)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pipeline",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Initialize the star schema and shared warehouse components
	store := warehouse.NewPostgresStore(pool, logger)
	if err := store.Init(ctx); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if cfg.Run.DatePreloadDays > 0 {
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -cfg.Run.DatePreloadDays)
		if err := warehouse.EnsureDateRange(ctx, store, from, to); err != nil {
			logger.Error("failed to pre-populate date dimension", "error", err)
			os.Exit(1)
		}
		logger.Info("date dimension pre-populated", "days", cfg.Run.DatePreloadDays)
	}

	deps := pipeline.Deps{
		Resolver:     warehouse.NewResolver(store, logger),
		Upserter:     warehouse.NewUpserter(store, logger),
		MinPassRatio: cfg.Run.MinPassRatio,
		Logger:       logger,
	}

	pipelines := buildPipelines(cfg, deps, logger)
	pipelines = filterPipelines(pipelines, *only)
	if len(pipelines) == 0 {
		logger.Error("no pipelines selected")
		os.Exit(1)
	}

	orch := orchestrator.New(orchestrator.Options{
		StopOnFirstError: cfg.Run.StopOnFirstError,
		Concurrency:      cfg.Run.Concurrency,
	}, logger)

	report := orch.RunAll(ctx, pipelines)
	report.Log(logger)

	if !report.Succeeded() {
		os.Exit(1)
	}
}

// buildPipelines constructs every enabled pipeline with its provider client.
func buildPipelines(cfg *config.Config, deps pipeline.Deps, logger *slog.Logger) []pipeline.Pipeline {
	var pipelines []pipeline.Pipeline

	if !cfg.Pipelines.Stocks.Disabled {
		av := provider.NewAlphaVantage(newClient("alphavantage", cfg.Providers.AlphaVantage, logger))
		pipelines = append(pipelines, pipeline.NewStocks(deps, av, cfg.Pipelines.Stocks.Tickers, cfg.Pipelines.Stocks.Days))
	}

	if !cfg.Pipelines.Crypto.Disabled {
		cg := provider.NewCoinGecko(newClient("coingecko", cfg.Providers.CoinGecko, logger))
		pipelines = append(pipelines, pipeline.NewCrypto(deps, cg, cfg.Pipelines.Crypto.Symbols, cfg.Pipelines.Crypto.Days))
	}

	// Bonds, economic and commodities share one FRED client so the rate
	// limit applies across all three.
	var fred *provider.FRED
	if !cfg.Pipelines.Bonds.Disabled || !cfg.Pipelines.Economic.Disabled || !cfg.Pipelines.Commodities.Disabled {
		fred = provider.NewFRED(newClient("fred", cfg.Providers.FRED, logger))
	}
	if !cfg.Pipelines.Bonds.Disabled {
		pipelines = append(pipelines, pipeline.NewBonds(deps, fred, cfg.Pipelines.Bonds.Maturities, cfg.Pipelines.Bonds.Days))
	}
	if !cfg.Pipelines.Economic.Disabled {
		pipelines = append(pipelines, pipeline.NewEconomic(deps, fred, cfg.Pipelines.Economic.Indicators, cfg.Pipelines.Economic.Days))
	}
	if !cfg.Pipelines.Commodities.Disabled {
		pipelines = append(pipelines, pipeline.NewCommodities(deps, fred, cfg.Pipelines.Commodities.Series, cfg.Pipelines.Commodities.Days))
	}

	if !cfg.Pipelines.Filings.Disabled {
		edgar := provider.NewEDGAR(newClient("edgar", cfg.Providers.EDGAR, logger), cfg.Providers.EDGAR.UserAgent)
		pipelines = append(pipelines, pipeline.NewFilings(deps, edgar, cfg.Pipelines.Filings.CIKs, cfg.Pipelines.Filings.Forms))
	}

	return pipelines
}

func newClient(name string, cfg config.ProviderConfig, logger *slog.Logger) *provider.Client {
	return provider.NewClient(name, cfg.BaseURL,
		provider.WithAPIKey(cfg.APIKey),
		provider.WithTimeout(cfg.Timeout),
		provider.WithRetries(cfg.MaxRetries, time.Second),
		provider.WithRateLimit(cfg.RateDelay),
		provider.WithLogger(logger),
	)
}

// filterPipelines keeps only the pipelines named in the comma-separated
// subset. An empty subset keeps everything.
func filterPipelines(pipelines []pipeline.Pipeline, subset string) []pipeline.Pipeline {
	subset = strings.TrimSpace(subset)
	if subset == "" {
		return pipelines
	}

	wanted := make(map[string]bool)
	for _, name := range strings.Split(subset, ",") {
		wanted[strings.TrimSpace(name)] = true
	}

	var selected []pipeline.Pipeline
	for _, p := range pipelines {
		if wanted[p.Name()] {
			selected = append(selected, p)
		}
	}
	return selected
}
