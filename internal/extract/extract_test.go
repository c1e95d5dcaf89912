package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartnotes-backend/internal/shared/storage/object/local"
)

func TestPDFTextRejectsEmptyInput(t *testing.T) {
	_, err := PDFText(context.Background(), nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestPDFTextRejectsGarbage(t *testing.T) {
	inputs := [][]byte{
		[]byte("this is definitely not a pdf"),
		[]byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF"),
	}
	for _, data := range inputs {
		if _, err := PDFText(context.Background(), data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestPDFTextHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.4")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPDFTextFromStorePropagatesParseFailure(t *testing.T) {
	store := local.New(t.TempDir())
	key, _, _, err := store.Save(context.Background(), "user-1", "broken.pdf", strings.NewReader("not a pdf"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := PDFTextFromStore(context.Background(), store, key); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := PDFTextFromStore(context.Background(), store, "missing/key.pdf"); err == nil {
		t.Fatalf("expected open error")
	}
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "notes.pdf"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestPDFTextExtractsPageText(t *testing.T) {
	text, err := PDFText(context.Background(), readFixture(t))
	if err != nil {
		t.Fatalf("PDFText: %v", err)
	}
	want := "Photosynthesis notes\nChlorophyll absorbs light."
	if got := strings.TrimSpace(text); got != want {
		t.Fatalf("PDFText = %q, want %q", got, want)
	}
}

func TestPDFTextFromStoreReadsSpooledPDF(t *testing.T) {
	store := local.New(t.TempDir())
	key, _, _, err := store.Save(context.Background(), "user-1", "notes.pdf", strings.NewReader(string(readFixture(t))))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	text, err := PDFTextFromStore(context.Background(), store, key)
	if err != nil {
		t.Fatalf("PDFTextFromStore: %v", err)
	}
	if !strings.Contains(text, "Chlorophyll absorbs light.") {
		t.Fatalf("unexpected text %q", text)
	}
}
