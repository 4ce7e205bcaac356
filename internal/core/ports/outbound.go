package ports

import (
	"context"
	"io"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

// TransientStorage persists an upload for the duration of one request.
// Save must produce a unique key per call; Remove is called exactly once
// after extraction resolves.
type TransientStorage interface {
	Save(ctx context.Context, filename string, data io.Reader) (*domain.StoredArtifact, error)
	Remove(ctx context.Context, key string) error
}

// ContentExtractor turns one stored artifact into extracted content.
// Implementations may require artifact.Path to still resolve on disk at
// extraction time (the DOCX extractor does).
type ContentExtractor interface {
	Extract(ctx context.Context, artifact *domain.Artifact) (*domain.ExtractedContent, error)
}

// ImageDescriber derives descriptive text from raw image bytes via a
// vision-capable model. Failures degrade locally, never the request.
type ImageDescriber interface {
	Describe(ctx context.Context, mimeType string, data []byte) (string, error)
}

// CompletionClient sends an ordered segment sequence under a single user role
// and returns the text completion.
type CompletionClient interface {
	Generate(ctx context.Context, segments []domain.Segment) (string, error)
}

// SnapshotFetcher supplies best-effort background text from the configured
// web page. An error means "no snapshot available", not a request failure.
type SnapshotFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// KnowledgeBase exposes background text pre-extracted at startup.
type KnowledgeBase interface {
	BackgroundText() string
}
