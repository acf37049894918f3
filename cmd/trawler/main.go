package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evemarkets/crest-trawler/internal/api"
	"github.com/evemarkets/crest-trawler/internal/archive"
	"github.com/evemarkets/crest-trawler/internal/config"
	"github.com/evemarkets/crest-trawler/internal/database"
	"github.com/evemarkets/crest-trawler/internal/emdr"
	"github.com/evemarkets/crest-trawler/internal/pool"
	"github.com/evemarkets/crest-trawler/internal/stats"
	"github.com/evemarkets/crest-trawler/internal/trawler"
	"github.com/evemarkets/crest-trawler/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/trawler.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting trawler",
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

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"upload_url", cfg.Upload.URL,
	)

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

	// Statistics collector with periodic file snapshots
	collector := stats.NewCollector()
	collector.Start()
	defer collector.Stop()

	statsWriter := stats.NewWriter(collector, cfg.Stats.File, logger)
	statsWriter.Start()
	defer statsWriter.Stop()

	// API client pool, one handle per polling worker
	userAgent := cfg.API.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	clients := pool.New(cfg.Polling.Workers, func() *api.Client {
		return api.NewClient(
			cfg.API.BaseURL,
			api.WithTimeout(cfg.API.Timeout),
			api.WithUserAgent(userAgent),
			api.WithLogger(logger),
		)
	}, logger)

	// Upload pipeline
	uploader := emdr.New(emdr.Config{
		EndpointURL: cfg.Upload.URL,
		Workers:     cfg.Upload.Workers,
		Timeout:     cfg.Upload.Timeout,
	}, collector, logger)
	uploader.Start()

	// Trawler
	tr := trawler.New(trawler.Config{
		Workers:           cfg.Polling.Workers,
		RequestsPerSecond: cfg.Polling.RequestsPerSecond,
	}, clients, collector, logger)
	tr.AddListener(uploader)

	// Optional local order archive
	var archiveWriter *archive.Writer
	if cfg.Archive.Enabled {
		logger.Info("connecting to archive database",
			"host", cfg.Archive.Postgres.Host,
			"port", cfg.Archive.Postgres.Port,
			"database", cfg.Archive.Postgres.Name,
		)

		dbPool, err := database.Connect(ctx, cfg.Archive.Postgres)
		if err != nil {
			logger.Error("failed to connect to archive database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		archiveWriter = archive.NewWriter(archive.DefaultConfig(), dbPool, collector, logger)
		if err := archiveWriter.Start(ctx); err != nil {
			logger.Error("failed to start archive writer", "error", err)
			os.Exit(1)
		}
		tr.AddListener(archiveWriter)

		logger.Info("archive database connected")
	}

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(collector, tr, uploader, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Start trawling (seeds the item queue, so this can take a while)
	logger.Info("starting trawler (initial item discovery)...")
	if err := tr.Start(ctx); err != nil {
		logger.Error("failed to start trawler", "error", err)
		os.Exit(1)
	}

	logger.Info("trawler running",
		"instance_id", cfg.Instance.ID,
		"items", tr.QueueLen(),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	tr.Stop(shutdownCtx)
	uploader.Stop()
	if archiveWriter != nil {
		archiveWriter.Stop(shutdownCtx)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("trawler stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(collector *stats.Collector, tr *trawler.Trawler, uploader *emdr.Uploader, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		health.Components["scheduler"] = map[string]interface{}{
			"items_queued": tr.QueueLen(),
		}
		if tr.QueueLen() == 0 {
			health.Status = "degraded"
		}

		depth := uploader.QueueDepth()
		health.Components["upload"] = map[string]interface{}{
			"queue_depth": depth,
		}
		if depth > 100 {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(collector.GetSummary())
	})

	return mux
}
