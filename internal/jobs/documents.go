package jobs

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/repository"
)

// deletePageSize bounds the per-transaction footprint of bulk deletion.
// Each page commits independently; a failed page does not roll back the
// pages already deleted.
const deletePageSize = 1000

// DeleteDocuments removes every document of a project in pages.
func DeleteDocuments(documents repository.DocumentRepository, projectID int64) Func {
	return func(ctx context.Context) error {
		ids, err := documents.ListIDs(ctx, projectID)
		if err != nil {
			return fmt.Errorf("listing document ids: %w", err)
		}
		for start := 0; start < len(ids); start += deletePageSize {
			end := start + deletePageSize
			if end > len(ids) {
				end = len(ids)
			}
			if err := documents.DeleteByIDs(ctx, ids[start:end]); err != nil {
				return fmt.Errorf("deleting documents %d-%d: %w", start, end, err)
			}
		}
		return nil
	}
}

// UploadRecord is one parsed upload row.
type UploadRecord struct {
	SourceID string
	Text     string
}

// UploadDocuments ingests parsed upload records into a project. Text is
// normalized once here; documents are immutable afterwards.
func UploadDocuments(documents repository.DocumentRepository, projectID int64, records []UploadRecord) Func {
	return func(ctx context.Context) error {
		for i, rec := range records {
			doc := &document.Document{
				ProjectID: projectID,
				SourceID:  rec.SourceID,
				Text:      document.Normalize(rec.Text),
				CreatedAt: time.Now(),
			}
			if err := documents.Create(ctx, doc); err != nil {
				return fmt.Errorf("creating document %d: %w", i, err)
			}
		}
		return nil
	}
}

// ParseUpload reads upload records from CSV (header row with id and text
// columns, case-insensitive) or JSONL (one object per line with id and
// text keys). The format is chosen by filename extension.
func ParseUpload(r io.Reader, filename string) ([]UploadRecord, error) {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return parseCSV(r)
	case strings.HasSuffix(filename, ".jsonl"):
		return parseJSONL(r)
	default:
		return nil, fmt.Errorf("unsupported upload format: %s", filename)
	}
}

func parseCSV(r io.Reader) ([]UploadRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idCol, textCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			idCol = i
		case "text":
			textCol = i
		}
	}
	if idCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("csv header must contain id and text columns")
	}

	var records []UploadRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		records = append(records, UploadRecord{SourceID: row[idCol], Text: row[textCol]})
	}
	return records, nil
}

func parseJSONL(r io.Reader) ([]UploadRecord, error) {
	var records []UploadRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("parsing jsonl line %d: %w", line, err)
		}
		id, okID := stringField(row, "id")
		text, okText := stringField(row, "text")
		if !okID || !okText {
			return nil, fmt.Errorf("jsonl line %d: missing id or text", line)
		}
		records = append(records, UploadRecord{SourceID: id, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading jsonl: %w", err)
	}
	return records, nil
}

// stringField fetches a key case-insensitively and renders scalars as
// strings, matching the permissive id columns of upload files.
func stringField(row map[string]any, key string) (string, bool) {
	for k, v := range row {
		if !strings.EqualFold(k, key) {
			continue
		}
		switch value := v.(type) {
		case string:
			return value, true
		case float64:
			return fmt.Sprintf("%v", value), true
		default:
			return "", false
		}
	}
	return "", false
}
