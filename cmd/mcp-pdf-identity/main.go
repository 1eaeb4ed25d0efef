package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-pdf-identity/internal/config"
	"github.com/a3tai/mcp-pdf-identity/internal/extract"
	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/mcp"
	"github.com/a3tai/mcp-pdf-identity/internal/ner"
	"github.com/a3tai/mcp-pdf-identity/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Logs always go to stderr; in stdio
// mode stdout carries the protocol.
func newLogger(cfg *config.Config) logger.Logger {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(cfg.LogLevel)
	lc.JSON = cfg.LogFormat == "json"
	lc.Prefix = cfg.ServerName
	return logger.New(lc)
}

// newRecognizer returns the NER fallback, or nil when no endpoint is set.
func newRecognizer(cfg *config.Config) (ner.Recognizer, error) {
	if cfg.NERURL == "" {
		return nil, nil
	}
	return ner.NewHTTPRecognizer(ner.HTTPConfig{
		URL:     cfg.NERURL,
		Timeout: cfg.NERTimeout,
		Retries: cfg.NERRetries,
	})
}

// buildServer wires the document service, the engine and the MCP server.
func buildServer(cfg *config.Config, log logger.Logger) (*mcp.Server, error) {
	extCfg, err := cfg.Extraction()
	if err != nil {
		return nil, err
	}
	opts := []extract.Option{extract.WithLogger(log.With("component", "engine"))}
	recognizer, err := newRecognizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create NER client: %w", err)
	}
	if recognizer != nil {
		opts = append(opts, extract.WithRecognizer(recognizer))
	}
	engine, err := extract.NewEngine(extCfg, opts...)
	if err != nil {
		return nil, err
	}

	docCfg := pdf.DefaultConfig()
	docCfg.MaxFileSize = cfg.MaxFileSize
	docCfg.MinTextChars = cfg.MinTextChars
	docCfg.CacheBytes = cfg.CacheSize
	docs, err := pdf.NewService(docCfg, cfg.DocumentDirectory, log.With("component", "documents"))
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(cfg, docs, engine, log.With("component", "mcp"))
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, log logger.Logger) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		if err := <-serverErrCh; err != nil {
			log.Error("server shutdown with error", "error", err)
			return 1
		}
	case err := <-serverErrCh:
		if err != nil {
			log.Error("server error", "error", err)
			return 1
		}
	}

	log.Info("server stopped")
	return 0
}

// runStdioMode handles stdio mode execution; the parent process owns our
// lifecycle and closes stdin when done.
func runStdioMode(ctx context.Context, server *mcp.Server, log logger.Logger) int {
	if err := server.Run(ctx); err != nil {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}
	log := newLogger(cfg)
	log.Debug("configuration loaded", "config", cfg.String())

	server, err := buildServer(cfg, log)
	if err != nil {
		log.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	code := 0
	if cfg.IsServerMode() {
		code = runServerMode(ctx, cancel, server, log)
	} else {
		code = runStdioMode(ctx, server, log)
	}
	if code != 0 {
		cancel()
		os.Exit(code)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP PDF Identity\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
