package image

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

type describerFake struct {
	desc string
	err  error
}

func (f *describerFake) Describe(context.Context, string, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.desc, nil
}

func writeArtifact(t *testing.T, data []byte) *domain.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return &domain.Artifact{
		Filename:  "pic.png",
		MediaType: domain.MediaPNG,
		Size:      int64(len(data)),
		Path:      path,
	}
}

func TestExtractEncodesImageWithDescription(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	extractor := New(&describerFake{desc: "a small logo"})

	content, err := extractor.Extract(context.Background(), writeArtifact(t, raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if content == nil || content.Image == nil {
		t.Fatal("expected image content")
	}
	if content.Image.MIMEType != "image/png" {
		t.Fatalf("unexpected mime type %q", content.Image.MIMEType)
	}
	decoded, err := base64.StdEncoding.DecodeString(content.Image.Base64Data)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatal("base64 payload must round-trip the raw bytes")
	}
	if content.Image.Description != "a small logo" {
		t.Fatalf("unexpected description %q", content.Image.Description)
	}
}

func TestExtractVisionFailureDegradesToNotice(t *testing.T) {
	extractor := New(&describerFake{err: errors.New("vision quota exceeded")})

	content, err := extractor.Extract(context.Background(), writeArtifact(t, []byte{1, 2, 3}))
	if err != nil {
		t.Fatalf("vision failure must not fail extraction, got %v", err)
	}
	if content.Image.Description != DescriptionUnavailable {
		t.Fatalf("expected degradation notice, got %q", content.Image.Description)
	}
	if content.Image.Base64Data == "" {
		t.Fatal("image must still be included")
	}
}

func TestExtractWithoutDescriber(t *testing.T) {
	extractor := New(nil)

	content, err := extractor.Extract(context.Background(), writeArtifact(t, []byte{1}))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if content.Image.Description != "" {
		t.Fatalf("expected empty description, got %q", content.Image.Description)
	}
}

func TestExtractMissingFileFails(t *testing.T) {
	extractor := New(nil)
	artifact := &domain.Artifact{Path: filepath.Join(t.TempDir(), "absent.png")}

	if _, err := extractor.Extract(context.Background(), artifact); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}
