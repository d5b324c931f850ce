package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brunobiangulo/quizpdf"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := quizpdf.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = quizpdf.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Override from environment variables.
	cfg.ApplyEnv()
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	apiKey := os.Getenv("QUIZPDF_API_KEY")
	corsOrigins := os.Getenv("QUIZPDF_CORS_ORIGINS")

	uploadDir, err := filepath.Abs(filepath.Join(cfg.SourceDir, "uploads"))
	if err != nil {
		slog.Error("resolving upload dir", "error", err)
		os.Exit(1)
	}

	engine, err := quizpdf.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newRouter(newHandler(engine, uploadDir), apiKey, corsOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // directory ingest can be long
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
