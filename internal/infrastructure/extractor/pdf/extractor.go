package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

const label = "PDF content"

// Extractor pulls plain text out of a stored PDF. Individual unreadable pages
// are skipped; a document with no extractable text yields absent content.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, artifact *domain.Artifact) (*domain.ExtractedContent, error) {
	f, reader, err := pdf.Open(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
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
