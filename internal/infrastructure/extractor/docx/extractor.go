package docx

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gonfva/docxlib"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

const label = "Document content"

// Extractor pulls run text out of a stored DOCX. docxlib parses from a file
// handle plus size, so the artifact must still resolve at artifact.Path when
// Extract runs. The transient file may not be removed before extraction.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, artifact *domain.Artifact) (*domain.ExtractedContent, error) {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docxlib.Parse(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var text strings.Builder
	for _, paragraph := range doc.Paragraphs() {
		line := paragraphText(paragraph)
		if line == "" {
			continue
		}
		text.WriteString(line)
		text.WriteString("\n")
	}

	extracted := strings.TrimSpace(text.String())
	if extracted == "" {
		return nil, nil
	}
	return &domain.ExtractedContent{
		Text: &domain.TextContent{Label: label, Text: extracted},
	}, nil
}

func paragraphText(paragraph *docxlib.Paragraph) string {
	var line strings.Builder
	for _, child := range paragraph.Children() {
		if child.Run != nil && child.Run.Text != nil {
			line.WriteString(child.Run.Text.Text)
		}
		if child.Link != nil && child.Link.Run.Text != nil {
			line.WriteString(child.Link.Run.Text.Text)
		}
	}
	return strings.TrimSpace(line.String())
}
