package knowledge

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// qaRowPattern matches one table row of the curated Q&A documents:
// |id|category|question|answer|.
var qaRowPattern = regexp.MustCompile(`\|(\d+)\|([^|]+)\|([^|]+)\|([^|]+)\|`)

// Base holds curated background text injected into every prompt.
type Base struct {
	text string
}

// Load reads the configured knowledge documents and builds the background
// text. Unreadable documents are logged and skipped so a bad file never
// blocks startup.
func Load(paths []string, maxChars int) *Base {
	var sections []string
	for _, path := range paths {
		text, err := extractPDFText(path)
		if err != nil {
			slog.Warn("knowledge_document_skipped", "path", path, "error", err)
			continue
		}
		if section := formatSection(text); section != "" {
			sections = append(sections, section)
		}
	}

	combined := strings.Join(sections, "\n\n")
	if maxChars > 0 && len(combined) > maxChars {
		combined = combined[:maxChars]
	}
	return &Base{text: strings.TrimSpace(combined)}
}

// BackgroundText returns the combined knowledge text, empty when no documents
// loaded.
func (b *Base) BackgroundText() string {
	if b == nil {
		return ""
	}
	return b.text
}

// formatSection prefers the structured Q&A rows when the document contains
// them, otherwise keeps the raw text.
func formatSection(text string) string {
	entries := ParseQA(text)
	if len(entries) > 0 {
		return strings.Join(entries, "\n\n")
	}
	return strings.TrimSpace(text)
}

// ParseQA extracts question and answer pairs from table-formatted text.
func ParseQA(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	rows := qaRowPattern.FindAllStringSubmatch(normalized, -1)

	entries := make([]string, 0, len(rows))
	for _, row := range rows {
		question := strings.TrimSpace(row[3])
		answer := strings.TrimSpace(row[4])
		if question == "" || answer == "" {
			continue
		}
		entries = append(entries, fmt.Sprintf("Q: %s\nA: %s", question, answer))
	}
	return entries
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
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
	return text.String(), nil
}
