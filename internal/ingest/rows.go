package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"

	"drivewatch/internal/text"
)

// rowChunks turns tabular data into one chunk per row, each rendered as
// "column: value" lines. Rows are small and self-contained, so they
// skip the window splitter entirely.
func rowChunks(data, sourceURL, title string) ([]text.Chunk, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		// Header only, or nothing at all.
		return nil, nil
	}

	header := records[0]
	var chunks []text.Chunk
	for n, row := range records[1:] {
		var sb strings.Builder
		for i, val := range row {
			col := fmt.Sprintf("col%d", i+1)
			if i < len(header) {
				col = header[i]
			}
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%s: %s", col, val)
		}

		chunks = append(chunks, text.Chunk{
			SourceURL: sourceURL,
			Title:     title,
			Summary:   fmt.Sprintf("Row %d of %s", n+1, title),
			Content:   sb.String(),
		})
	}
	return chunks, nil
}
