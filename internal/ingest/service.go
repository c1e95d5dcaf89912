package ingest

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"smartnotes-backend/internal/extract"
	"smartnotes-backend/internal/notes"
	"smartnotes-backend/internal/shared/metrics"
	"smartnotes-backend/internal/shared/storage/object"
	"smartnotes-backend/internal/shared/telemetry"
	"smartnotes-backend/internal/shared/util"
)

const (
	defaultTitle  = "Imported PDF"
	maxTitleRunes = 80
	spoolFallback = "upload.pdf"
)

// OperationError reports a failed ingestion. Error returns the cause unchanged.
type OperationError struct {
	Err error
}

func (e *OperationError) Error() string { return e.Err.Error() }

func (e *OperationError) Unwrap() error { return e.Err }

// NoteCreator persists the imported note.
type NoteCreator interface {
	Create(ctx context.Context, ownerID, title, content string) (notes.Note, error)
}

// Extractor pulls text from a spooled object.
type Extractor func(ctx context.Context, store object.ObjectStore, key string) (string, error)

// Service turns uploaded PDFs into notes.
type Service struct {
	Spool   object.ObjectStore
	Notes   NoteCreator
	Extract Extractor
}

func NewService(spool object.ObjectStore, creator NoteCreator) *Service {
	return &Service{Spool: spool, Notes: creator, Extract: extract.PDFTextFromStore}
}

// Result is the extracted text and the note created from it.
type Result struct {
	Text string
	Note notes.Note
}

// Ingest spools the upload, extracts its text and saves it as a note owned by
// userID. The spooled copy is removed whether or not extraction succeeds.
func (s *Service) Ingest(ctx context.Context, userID, fileName string, r io.Reader) (Result, error) {
	start := time.Now()
	key, size, _, err := s.Spool.Save(ctx, userID, spoolName(fileName), r)
	if err != nil {
		metrics.IncPDFIngest("spool_error")
		return Result{}, fmt.Errorf("spool upload: %w", err)
	}
	defer func() {
		if err := s.Spool.Delete(context.WithoutCancel(ctx), key); err != nil {
			telemetry.Warn("pdf.spool.cleanup_failed", map[string]any{
				"user_id": userID,
				"error":   err,
			})
		}
	}()

	text, err := s.Extract(ctx, s.Spool, key)
	if err != nil {
		metrics.IncPDFIngest("extract_error")
		telemetry.Warn("pdf.ingest", map[string]any{
			"user_id":    userID,
			"size_bytes": size,
			"outcome":    "extract_error",
			"error":      err,
		})
		return Result{}, &OperationError{Err: err}
	}

	note, err := s.Notes.Create(ctx, userID, DeriveTitle(fileName, text), text)
	if err != nil {
		metrics.IncPDFIngest("store_error")
		return Result{}, fmt.Errorf("create note: %w", err)
	}

	metrics.IncPDFIngest("ok")
	telemetry.Info("pdf.ingest", map[string]any{
		"user_id":     userID,
		"note_id":     note.ID,
		"size_bytes":  size,
		"text_chars":  len(text),
		"outcome":     "ok",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Result{Text: text, Note: note}, nil
}

// DeriveTitle prefers the filename stem, then the first line of the text
// (truncated to 80 runes), then a fixed default.
func DeriveTitle(fileName, text string) string {
	if stem := strings.TrimSpace(fileStem(fileName)); stem != "" {
		return stem
	}
	trimmed := strings.TrimSpace(text)
	if trimmed != "" {
		line := strings.SplitN(trimmed, "\n", 2)[0]
		line = strings.TrimSuffix(line, "\r")
		if runes := []rune(line); len(runes) > maxTitleRunes {
			line = string(runes[:maxTitleRunes])
		}
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return defaultTitle
}

func fileStem(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.TrimSpace(name) == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	ext := path.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

func spoolName(fileName string) string {
	name, err := util.SanitizeFileName(path.Base(strings.ReplaceAll(fileName, "\\", "/")))
	if err != nil || name == "." || name == "/" {
		return spoolFallback
	}
	return name
}
