package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

func TestExtractCorruptedDocumentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 not really a pdf"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	extractor := New()

	_, err := extractor.Extract(context.Background(), &domain.Artifact{
		Filename:  "broken.pdf",
		MediaType: domain.MediaPDF,
		Path:      path,
	})
	if err == nil {
		t.Fatal("expected error for corrupted document")
	}
}

func TestExtractMissingFileFails(t *testing.T) {
	extractor := New()
	artifact := &domain.Artifact{Path: filepath.Join(t.TempDir(), "absent.pdf")}

	if _, err := extractor.Extract(context.Background(), artifact); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}
