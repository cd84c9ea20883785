// Package app wires the configured components into the two entrypoints
// the binary exposes: the long-running folder watcher and the one-shot
// query pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"drivewatch/internal/adapter/gdrive"
	"drivewatch/internal/bus"
	"drivewatch/internal/config"
	"drivewatch/internal/ingest"
	"drivewatch/internal/retrieval"
	"drivewatch/internal/text"
	"drivewatch/internal/watcher"
)

// App is the assembled watch pipeline: the router that carries file
// events and the watcher that produces them.
type App struct {
	Router  *bus.Router
	Watcher *watcher.Watcher
}

// NewWatchApp builds the watch pipeline and registers every topic
// handler. Subscriptions happen here, before the router runs, so no
// event published by the first poll cycle can be dropped.
func NewWatchApp(ctx context.Context, cfg *config.Config, deps *Dependencies) (*App, error) {
	drive, err := gdrive.NewClient(ctx, cfg.GoogleCredentials)
	if err != nil {
		return nil, fmt.Errorf("drive client error: %w", err)
	}

	state, err := watcher.LoadState(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state error: %w", err)
	}

	router := bus.NewRouter()

	chunkStore := ingest.NewStore(deps.Embedder, deps.VectorStore)
	splitter := text.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	ingestHandler := ingest.NewHandler(drive, chunkStore, deps.VectorStore, splitter, router, cfg.RequestTimeout())

	w := watcher.New(drive, router, state, cfg.FolderID, cfg.PollInterval(), cfg.RequestTimeout())

	router.Subscribe(config.TopicNewFile, ingestHandler.HandleNewFile)
	router.Subscribe(config.TopicFileProcessed, w.HandleFileProcessed)
	router.Subscribe(config.TopicFileError, w.HandleFileError)

	return &App{Router: router, Watcher: w}, nil
}

// Run drives the router and the watcher until ctx is cancelled. Both
// loops return ctx.Err() on shutdown, which is not a failure.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Router.Run(gCtx)
	})
	g.Go(func() error {
		return a.Watcher.Run(gCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// NewQueryService assembles the retrieval pipeline for one-shot
// questions against the stored chunks.
func NewQueryService(cfg *config.Config, deps *Dependencies) *retrieval.Service {
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}

	return retrieval.NewService(deps.Embedder, deps.VectorStore, deps.Generator, queryLogger, cfg.SearchLimit)
}
