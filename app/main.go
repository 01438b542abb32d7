package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/api"
	"github.com/feedscope/feedscope/app/cfg"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/feed"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/tasks"
	"github.com/feedscope/feedscope/app/watchlist"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Feedscope server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	watch := watchlist.New(appCfg.WatchlistFile)
	if err := watch.Run(); err != nil {
		slog.Error("Failed to load watchlist", "path", appCfg.WatchlistFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Watchlist loaded", "feeds", watch.Count())

	// Core components
	analysisRepo := database.NewAnalysisRepository(db)
	feedFetcher := fetcher.New(appCfg.UserAgent, time.Duration(appCfg.FetchTimeout)*time.Second)
	feedAnalyzer := analyzer.New(feed.NewParser())

	// Background watchlist scheduler
	scheduler := tasks.NewScheduler(watch, feedFetcher, feedAnalyzer, analysisRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	// HTTP server
	apiHandler := api.NewHandler(feedFetcher, feedAnalyzer, analysisRepo, watch)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
