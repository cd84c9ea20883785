// Package gdrive adapts the Google Drive v3 API to the watcher's
// listing contract and the ingest pipeline's download contract. It
// expects an already-authorized credentials file; no interactive auth
// happens here.
package gdrive

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"drivewatch/internal/watcher"
)

// MaxFetchSize caps downloaded and exported content at 5MB.
const MaxFetchSize = 5 * 1024 * 1024

const listFields = "nextPageToken, files(id, name, mimeType, modifiedTime)"

type Client struct {
	svc *drive.Service
}

func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	all := append([]option.ClientOption{
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	}, opts...)

	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewClientFromService wraps an existing Drive service, used in tests.
func NewClientFromService(svc *drive.Service) *Client {
	return &Client{svc: svc}
}

// ListFolder returns every non-trashed file directly under folderID.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]watcher.FileRecord, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)

	var records []watcher.FileRecord
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Fields(listFields).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}

		for _, f := range res.Files {
			records = append(records, watcher.FileRecord{
				ID:           f.Id,
				Name:         f.Name,
				MimeType:     f.MimeType,
				ModifiedTime: f.ModifiedTime,
			})
		}

		if res.NextPageToken == "" {
			return records, nil
		}
		pageToken = res.NextPageToken
	}
}

// Download fetches the raw bytes of a regular file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileID, err)
	}
	return data, nil
}

// Export converts a Google Workspace file to the requested MIME type
// and returns the converted bytes.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	res, err := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("export file %s as %s: %w", fileID, mimeType, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", fileID, err)
	}
	return data, nil
}
