// Package ingest turns a dispatched Drive file into embedded chunks in
// the vector store: download or export, split, embed, persist, then
// report completion back through the bus so the watcher can record the
// file's marker.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"drivewatch/internal/config"
	"drivewatch/internal/text"
	"drivewatch/internal/watcher"
)

// Google Workspace MIME types, which must be exported rather than
// downloaded.
const (
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeGoogleSlides = "application/vnd.google-apps.presentation"
	mimeGoogleFolder = "application/vnd.google-apps.folder"

	exportMimeText = "text/plain"
	exportMimeCSV  = "text/csv"
)

type Handler struct {
	downloader Downloader
	store      Upserter
	vectors    VectorStore
	splitter   text.Splitter
	pub        Publisher
	timeout    time.Duration
}

func NewHandler(d Downloader, store Upserter, vectors VectorStore, splitter text.Splitter, pub Publisher, timeout time.Duration) *Handler {
	return &Handler{
		downloader: d,
		store:      store,
		vectors:    vectors,
		splitter:   splitter,
		pub:        pub,
		timeout:    timeout,
	}
}

// HandleNewFile processes one file end to end. Any failure publishes a
// file.error event and leaves the watcher state untouched, so the file
// is retried on the next poll. Success publishes file.processed with
// the marker the file carried when dispatched.
func (h *Handler) HandleNewFile(ctx context.Context, payload any) error {
	evt, ok := payload.(watcher.FileEvent)
	if !ok {
		slog.ErrorContext(ctx, "unexpected payload on new-file topic", "payload", payload)
		return nil
	}
	file := evt.File

	slog.InfoContext(ctx, "processing file", "file_id", file.ID, "name", file.Name, "mime_type", file.MimeType)

	chunks, skipped, err := h.extract(ctx, file)
	if err != nil {
		h.pub.Publish(config.TopicFileError, watcher.ErrorEvent{FileID: file.ID, Name: file.Name, Err: err.Error()})
		return fmt.Errorf("extract %s: %w", file.ID, err)
	}

	if skipped {
		// Unsupported types are acknowledged so they are not
		// re-dispatched every cycle.
		slog.WarnContext(ctx, "unsupported file type, skipping", "file_id", file.ID, "mime_type", file.MimeType)
		h.pub.Publish(config.TopicFileProcessed, watcher.ProcessedEvent{FileID: file.ID, Marker: file.ModifiedTime})
		return nil
	}

	// Clear the document's previous chunks so re-ingesting a changed
	// file never leaves duplicates behind.
	sourceURL := sourceURLFor(file.Name)
	if err := h.withTimeout(ctx, func(opCtx context.Context) error {
		return h.vectors.DeleteChunksByURL(opCtx, sourceURL)
	}); err != nil {
		h.pub.Publish(config.TopicFileError, watcher.ErrorEvent{FileID: file.ID, Name: file.Name, Err: err.Error()})
		return fmt.Errorf("clear old chunks for %s: %w", file.ID, err)
	}

	for i, chunk := range chunks {
		err := h.withTimeout(ctx, func(opCtx context.Context) error {
			_, err := h.store.Upsert(opCtx, chunk)
			return err
		})
		if err != nil {
			h.pub.Publish(config.TopicFileError, watcher.ErrorEvent{FileID: file.ID, Name: file.Name, Err: err.Error()})
			return fmt.Errorf("upsert chunk %d of %s: %w", i+1, file.ID, err)
		}
	}

	slog.InfoContext(ctx, "file ingested", "file_id", file.ID, "name", file.Name, "chunks", len(chunks))
	h.pub.Publish(config.TopicFileProcessed, watcher.ProcessedEvent{FileID: file.ID, Marker: file.ModifiedTime})
	return nil
}

// extract fetches the file's content and cuts it into chunks according
// to its MIME type. skipped is true for types we cannot turn into text.
func (h *Handler) extract(ctx context.Context, file watcher.FileRecord) (chunks []text.Chunk, skipped bool, err error) {
	sourceURL := sourceURLFor(file.Name)

	fetch := func(f func(opCtx context.Context) ([]byte, error)) ([]byte, error) {
		var data []byte
		err := h.withTimeout(ctx, func(opCtx context.Context) error {
			var ferr error
			data, ferr = f(opCtx)
			return ferr
		})
		return data, err
	}

	switch file.MimeType {
	case mimeGoogleFolder:
		return nil, true, nil

	case mimeGoogleDoc, mimeGoogleSlides:
		data, err := fetch(func(opCtx context.Context) ([]byte, error) {
			return h.downloader.Export(opCtx, file.ID, exportMimeText)
		})
		if err != nil {
			return nil, false, fmt.Errorf("export file: %w", err)
		}
		return h.splitter.Split(string(data), sourceURL, file.Name), false, nil

	case mimeGoogleSheet:
		data, err := fetch(func(opCtx context.Context) ([]byte, error) {
			return h.downloader.Export(opCtx, file.ID, exportMimeCSV)
		})
		if err != nil {
			return nil, false, fmt.Errorf("export sheet: %w", err)
		}
		chunks, err := rowChunks(string(data), sourceURL, file.Name)
		return chunks, false, err

	case exportMimeCSV:
		data, err := fetch(func(opCtx context.Context) ([]byte, error) {
			return h.downloader.Download(opCtx, file.ID)
		})
		if err != nil {
			return nil, false, fmt.Errorf("download file: %w", err)
		}
		chunks, err := rowChunks(string(data), sourceURL, file.Name)
		return chunks, false, err

	default:
		if !isTextMime(file.MimeType) {
			return nil, true, nil
		}
		data, err := fetch(func(opCtx context.Context) ([]byte, error) {
			return h.downloader.Download(opCtx, file.ID)
		})
		if err != nil {
			return nil, false, fmt.Errorf("download file: %w", err)
		}
		return h.splitter.Split(string(data), sourceURL, file.Name), false, nil
	}
}

func (h *Handler) withTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return f(opCtx)
}

func sourceURLFor(name string) string {
	return "gdrive://" + name
}

func isTextMime(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml", "application/javascript":
		return true
	}
	return false
}
