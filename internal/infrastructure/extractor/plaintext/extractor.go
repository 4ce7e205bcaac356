package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

const label = "File content"

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, artifact *domain.Artifact) (*domain.ExtractedContent, error) {
	raw, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("artifact %s is not valid UTF-8 text", artifact.Filename)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}
	return &domain.ExtractedContent{
		Text: &domain.TextContent{Label: label, Text: text},
	}, nil
}
