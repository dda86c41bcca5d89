package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/mention-comb/app/api"
	"github.com/lysyi3m/mention-comb/app/cfg"
	"github.com/lysyi3m/mention-comb/app/composer"
	"github.com/lysyi3m/mention-comb/app/config"
	"github.com/lysyi3m/mention-comb/app/generator"
	"github.com/lysyi3m/mention-comb/app/matcher"
	"github.com/lysyi3m/mention-comb/app/poller"
	"github.com/lysyi3m/mention-comb/app/state"
	"github.com/lysyi3m/mention-comb/app/tasks"
	"github.com/lysyi3m/mention-comb/app/twitter"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Mention Comb", "version", appCfg.Version)

	keywordsLoader := config.NewLoader(appCfg.KeywordsFile)
	keywords, err := keywordsLoader.Load()
	if err != nil {
		log.Fatalf("Failed to load keywords: %v", err)
	}
	slog.Info("Keywords loaded", "terms", len(keywords.Terms), "threshold", keywords.Threshold)

	if appCfg.DryRun {
		runDryRun(appCfg, keywords)
		return
	}

	if missing := appCfg.MissingCredentials(); len(missing) > 0 {
		slog.Error("Missing required credentials", "status", "error", "missing", missing)
		os.Exit(1)
	}
	slog.Debug("Credentials present",
		"bearer_token", cfg.Mask(appCfg.BearerToken),
		"consumer_key", cfg.Mask(appCfg.ConsumerKey),
		"access_token", cfg.Mask(appCfg.AccessToken),
		"generator_key", cfg.Mask(appCfg.GeneratorKey))

	store, err := state.Open(appCfg.StateFile)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	slog.Info("State loaded", "file", appCfg.StateFile, "cursor", store.Cursor(), "processed_ids", store.ProcessedCount())

	// Initialize core components
	httpClient := &http.Client{Timeout: 30 * time.Second}
	twitterClient := twitter.NewClient(httpClient)
	generatorClient := generator.NewClient()
	mentionPoller := poller.NewPoller(twitterClient, twitterClient, generatorClient, store, keywords)

	// Initialize and start scheduler
	slog.Info("Starting scheduler", "interval", appCfg.PollInterval)
	scheduler := tasks.NewScheduler(mentionPoller)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	handler := api.NewHandler(store, keywords, scheduler)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// runDryRun exercises the matcher and composer against fixed sample mentions
// using the real generation endpoint, without touching the feed client, the
// poller or the state store.
func runDryRun(appCfg *cfg.Cfg, keywords *config.Keywords) {
	if appCfg.GeneratorKey == "" {
		slog.Error("Missing GENERATOR_API_KEY for dry run", "status", "error")
		os.Exit(1)
	}

	samples := []struct {
		text   string
		author string
	}{
		{"Thinking of switching from GitHub Copilot to something faster.", "dev_alex"},
		{"Does Claude Code work well in VSCode?", "jane_codes"},
		{"Tried tabnine for Python. Any alternatives?", "py_guru"},
	}

	m := matcher.NewMatcher()
	comp := composer.NewComposer(appCfg.ReferralURL)
	gen := generator.NewClient()
	ctx := context.Background()

	for _, sample := range samples {
		decision := m.Run(sample.text, keywords.Terms, keywords.Threshold)
		if !decision.Matched {
			slog.Info("No match", "author", sample.author, "text", sample.text)
			continue
		}

		slog.Info("Matched", "author", sample.author, "keyword", decision.Keyword, "confidence", decision.Confidence)

		reply, err := comp.Run(ctx, gen, sample.text, sample.author, decision.Keyword)
		if err != nil {
			slog.Error("Failed to compose reply", "author", sample.author, "error", err)
			continue
		}

		fmt.Printf("@%s -> %s\n", sample.author, reply)
	}
}
