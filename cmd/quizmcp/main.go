// Command quizmcp serves the quiz tools over MCP on stdio.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/brunobiangulo/quizpdf"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
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
	cfg.ApplyEnv()

	engine, err := quizpdf.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	srv := mcp.NewServer(&mcp.Implementation{Name: "quizpdf", Version: "0.1.0"}, nil)
	quizpdf.RegisterMCP(srv, engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("mcp server starting", "transport", "stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
