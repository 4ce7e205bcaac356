package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/core/ports"
)

// DescriptionUnavailable is embedded when the vision pass fails; the image
// itself is still forwarded.
const DescriptionUnavailable = "Image description unavailable."

// Extractor encodes an image for inline transport and asks the vision model
// for descriptive text. The describer is optional.
type Extractor struct {
	describer ports.ImageDescriber
}

func New(describer ports.ImageDescriber) *Extractor {
	return &Extractor{describer: describer}
}

func (e *Extractor) Extract(ctx context.Context, artifact *domain.Artifact) (*domain.ExtractedContent, error) {
	raw, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	content := &domain.ImageContent{
		Base64Data: base64.StdEncoding.EncodeToString(raw),
		MIMEType:   string(artifact.MediaType),
	}

	if e.describer != nil {
		desc, err := e.describer.Describe(ctx, content.MIMEType, raw)
		if err != nil {
			slog.Warn("image_description_failed", "filename", artifact.Filename, "error", err)
			content.Description = DescriptionUnavailable
		} else {
			content.Description = desc
		}
	}

	return &domain.ExtractedContent{Image: content}, nil
}
