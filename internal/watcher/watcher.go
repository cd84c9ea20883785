// Package watcher polls a Drive folder on a fixed interval and
// reconciles the listing against persisted per-file state, publishing
// events for files that need (re)processing and pruning files that
// disappeared from the folder.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"drivewatch/internal/config"
	"drivewatch/internal/logger"
)

// FileRecord describes one remote file as returned by the listing
// collaborator. ModifiedTime is an opaque change marker; it is compared
// for equality, never parsed.
type FileRecord struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
}

// FileEvent is the payload published on config.TopicNewFile.
type FileEvent struct {
	File FileRecord
}

// ProcessedEvent is published on config.TopicFileProcessed by the
// ingest handler once every chunk of the file is stored. Marker is the
// ModifiedTime the file carried when it was dispatched, so the state
// records exactly the version that was processed.
type ProcessedEvent struct {
	FileID string
	Marker string
}

// ErrorEvent is published on config.TopicFileError when a file fails
// mid-ingestion. The state is left untouched so the next poll retries.
type ErrorEvent struct {
	FileID string
	Name   string
	Err    string
}

type Lister interface {
	ListFolder(ctx context.Context, folderID string) ([]FileRecord, error)
}

type Publisher interface {
	Publish(topic string, payload any)
}

type Watcher struct {
	lister   Lister
	pub      Publisher
	state    *State
	folderID string
	interval time.Duration
	timeout  time.Duration
}

func New(lister Lister, pub Publisher, state *State, folderID string, interval, timeout time.Duration) *Watcher {
	return &Watcher{
		lister:   lister,
		pub:      pub,
		state:    state,
		folderID: folderID,
		interval: interval,
		timeout:  timeout,
	}
}

// Run polls until ctx is cancelled. The first pass happens immediately.
func (w *Watcher) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "watcher starting", "folder_id", w.folderID, "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		cycleCtx := logger.WithCorrelationID(ctx, "")
		if err := w.CheckOnce(cycleCtx); err != nil {
			// Next tick retries; no state was mutated.
			slog.ErrorContext(cycleCtx, "poll cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "watcher stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CheckOnce runs a single reconciliation pass: list, diff, dispatch,
// prune. A listing failure aborts the pass before any state mutation.
func (w *Watcher) CheckOnce(ctx context.Context) error {
	listCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	files, err := w.lister.ListFolder(listCtx, w.folderID)
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(files))
	dispatched := 0
	for _, f := range files {
		current[f.ID] = struct{}{}

		marker, ok := w.state.Marker(f.ID)
		if ok && marker == f.ModifiedTime {
			continue
		}

		slog.InfoContext(ctx, "dispatching file", "file_id", f.ID, "name", f.Name, "known", ok)
		w.pub.Publish(config.TopicNewFile, FileEvent{File: f})
		dispatched++
	}

	// Ids we track but the folder no longer lists were deleted remotely.
	for _, id := range w.state.IDs() {
		if _, ok := current[id]; ok {
			continue
		}
		slog.InfoContext(ctx, "file deleted remotely", "file_id", id)
		if err := w.state.Forget(id); err != nil {
			slog.ErrorContext(ctx, "failed to persist deletion", "file_id", id, "error", err)
		}
	}

	slog.DebugContext(ctx, "poll cycle complete", "listed", len(files), "dispatched", dispatched)
	return nil
}

// HandleFileProcessed records the processed marker. This is the only
// place a file becomes "seen": markers are never written at dispatch.
func (w *Watcher) HandleFileProcessed(ctx context.Context, payload any) error {
	evt, ok := payload.(ProcessedEvent)
	if !ok {
		slog.ErrorContext(ctx, "unexpected payload on processed topic", "payload", payload)
		return nil
	}

	if err := w.state.MarkProcessed(evt.FileID, evt.Marker); err != nil {
		return err
	}
	slog.InfoContext(ctx, "file processed", "file_id", evt.FileID, "marker", evt.Marker)
	return nil
}

// HandleFileError logs the failure and leaves the marker stale, so the
// file is re-dispatched on the next poll.
func (w *Watcher) HandleFileError(ctx context.Context, payload any) error {
	evt, ok := payload.(ErrorEvent)
	if !ok {
		slog.ErrorContext(ctx, "unexpected payload on error topic", "payload", payload)
		return nil
	}

	slog.ErrorContext(ctx, "file processing failed", "file_id", evt.FileID, "name", evt.Name, "error", evt.Err)
	return nil
}
