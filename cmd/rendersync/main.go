package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/nguyentantai21042004/rendersync/internal/config"
	"github.com/nguyentantai21042004/rendersync/internal/diagrams"
	"github.com/nguyentantai21042004/rendersync/internal/logger"
	"github.com/nguyentantai21042004/rendersync/internal/mermaid"
	"github.com/nguyentantai21042004/rendersync/internal/processor"
	"github.com/nguyentantai21042004/rendersync/internal/store"
	"github.com/nguyentantai21042004/rendersync/internal/timeline"
	"github.com/nguyentantai21042004/rendersync/internal/watcher"
	"github.com/nguyentantai21042004/rendersync/pkg/executor"
)

func main() {
	ctx := context.Background()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Render Timeline Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Jobs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Error(ctx, "Failed to open job store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	// Diagram generation is optional: without a Gemini key the pipeline still
	// produces captions, highlights and pre-rendered diagram assignments.
	var preparer processor.AssetPreparer
	var generator *mermaid.Client
	if keys := geminiKeys(cfg); len(keys) > 0 {
		generator = mermaid.NewClient(keys, cfg.Gemini.Model, cfg.Mermaid.BinaryPath, cfg.Paths.Temp, executor.New(), log)
		preparer = generator
		log.Info(ctx, "Diagram generation enabled (%d API key(s), model %s)", len(keys), cfg.Gemini.Model)
	} else {
		log.Warn(ctx, "No Gemini API key configured; diagram generation disabled")
	}

	eng := timeline.New(cfg, generatorOrNil(generator), log)
	proc := processor.New(cfg, eng, preparer, st, log)

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Render Timeline Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Render Timeline Pipeline stopped")
}

// geminiKeys collects API keys from config, falling back to the environment.
func geminiKeys(cfg *config.Config) []string {
	if len(cfg.Gemini.APIKeys) > 0 {
		return cfg.Gemini.APIKeys
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return []string{key}
	}
	return nil
}

// generatorOrNil keeps the engine's generator interface nil when no client
// exists, instead of a non-nil interface wrapping a nil pointer.
func generatorOrNil(c *mermaid.Client) diagrams.Generator {
	if c == nil {
		return nil
	}
	return c
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
