package usecase

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

// PlaceholderMessage substitutes the user message whenever it is empty, so the
// completion API always receives at least one segment.
const PlaceholderMessage = "No message provided. Please analyze the following content."

const (
	knowledgeLabel = "Background knowledge:"
	snapshotLabel  = "Website snapshot:"
	linkLabel      = "Link shared by user: "
	imageDescLabel = "Image description: "
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// AssemblyInput collects everything one request contributes to the prompt.
type AssemblyInput struct {
	Framing   string
	Knowledge string
	Snapshot  string
	Message   string
	Content   *domain.ExtractedContent
}

// AssemblePrompt builds the ordered segment sequence sent to the completion
// API. The order is fixed: framing, labeled background, links detected in the
// message, the message itself (or the placeholder), then extracted file
// content. Identical inputs always yield identical output.
func AssemblePrompt(in AssemblyInput) []domain.Segment {
	segments := make([]domain.Segment, 0, 8)

	if framing := strings.TrimSpace(in.Framing); framing != "" {
		segments = append(segments, domain.TextSegment(framing))
	}
	if knowledge := strings.TrimSpace(in.Knowledge); knowledge != "" {
		segments = append(segments, domain.TextSegment(knowledgeLabel+"\n"+knowledge))
	}
	if snapshot := strings.TrimSpace(in.Snapshot); snapshot != "" {
		segments = append(segments, domain.TextSegment(snapshotLabel+"\n"+snapshot))
	}

	message := strings.TrimSpace(in.Message)

	// Links are appended alongside the message, never instead of it.
	for _, link := range urlPattern.FindAllString(message, -1) {
		segments = append(segments, domain.TextSegment(linkLabel+link))
	}

	if message == "" {
		message = PlaceholderMessage
	}
	segments = append(segments, domain.TextSegment(message))

	segments = appendContent(segments, in.Content)

	if len(segments) == 0 {
		segments = append(segments, domain.TextSegment(PlaceholderMessage))
	}
	return segments
}

func appendContent(segments []domain.Segment, content *domain.ExtractedContent) []domain.Segment {
	if content == nil {
		return segments
	}

	if text := content.Text; text != nil && strings.TrimSpace(text.Text) != "" {
		return append(segments, domain.TextSegment(text.Label+":\n"+text.Text))
	}

	if image := content.Image; image != nil {
		// The description joins the preceding text segment so the single
		// binary part stays associated with its context.
		if desc := strings.TrimSpace(image.Description); desc != "" && len(segments) > 0 {
			last := &segments[len(segments)-1]
			last.Text = last.Text + "\n\n" + imageDescLabel + desc
		}
		raw, err := base64.StdEncoding.DecodeString(image.Base64Data)
		if err != nil || len(raw) == 0 {
			return segments
		}
		return append(segments, domain.BlobSegment(image.MIMEType, raw))
	}

	return segments
}
