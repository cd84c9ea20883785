package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"drivewatch/internal/app"
	"drivewatch/internal/config"
	"drivewatch/internal/logger"
)

const usage = `usage:
  drivewatch watch            poll the configured Drive folder and ingest changes
  drivewatch query <question> answer a question from the ingested documents`

func main() {
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "watch":
		if err := runWatch(ctx, cfg); err != nil {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
	case "query":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		runQuery(ctx, cfg, strings.Join(os.Args[2:], " "))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateWatcher(); err != nil {
		return err
	}

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}

	a, err := app.NewWatchApp(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func runQuery(ctx context.Context, cfg *config.Config, question string) {
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	svc := app.NewQueryService(cfg, deps)

	answer, err := svc.Answer(ctx, question, cfg.SourceTag)
	if err != nil {
		slog.Error("query failed", "error", err)
		fmt.Println("Sorry, I couldn't answer that right now. Please try again.")
		os.Exit(1)
	}
	fmt.Println(answer)
}
