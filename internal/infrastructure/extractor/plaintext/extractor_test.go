package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

func writeArtifact(t *testing.T, data []byte) *domain.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return &domain.Artifact{
		Filename:  "notes.txt",
		MediaType: domain.MediaPlainText,
		Size:      int64(len(data)),
		Path:      path,
	}
}

func TestExtractTrimsAndLabels(t *testing.T) {
	extractor := New()

	content, err := extractor.Extract(context.Background(), writeArtifact(t, []byte("  hello\nworld \n")))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if content == nil || content.Text == nil {
		t.Fatal("expected text content")
	}
	if content.Text.Label != "File content" {
		t.Fatalf("unexpected label %q", content.Text.Label)
	}
	if content.Text.Text != "hello\nworld" {
		t.Fatalf("unexpected text %q", content.Text.Text)
	}
}

func TestExtractBlankFileYieldsNoContent(t *testing.T) {
	extractor := New()

	content, err := extractor.Extract(context.Background(), writeArtifact(t, []byte("  \n\t\n")))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if content != nil {
		t.Fatalf("expected absent content, got %+v", content)
	}
}

func TestExtractRejectsInvalidUTF8(t *testing.T) {
	extractor := New()

	if _, err := extractor.Extract(context.Background(), writeArtifact(t, []byte{0xff, 0xfe, 0x41})); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestExtractMissingFileFails(t *testing.T) {
	extractor := New()
	artifact := &domain.Artifact{Path: filepath.Join(t.TempDir(), "absent.txt")}

	if _, err := extractor.Extract(context.Background(), artifact); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}
