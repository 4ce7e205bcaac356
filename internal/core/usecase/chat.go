package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/core/ports"
)

// PipelineObserver receives pipeline events for metrics. All methods must be
// safe to call on a nil implementation holder.
type PipelineObserver interface {
	UploadAccepted(mediaType string, size int64)
	ExtractionFailure(mediaType string)
	SnapshotMiss()
	CompletionDuration(d time.Duration)
}

// ChatConfig is the static part of the pipeline.
type ChatConfig struct {
	Framing        string
	MaxUploadBytes int64
	LLMTimeout     time.Duration
}

// ChatUseCase runs one request through validate -> store -> extract ->
// assemble -> generate, with the transient artifact removed after extraction
// resolves on every exit path.
type ChatUseCase struct {
	cfg        ChatConfig
	storage    ports.TransientStorage
	extractors map[domain.MediaType]ports.ContentExtractor
	completion ports.CompletionClient
	snapshot   ports.SnapshotFetcher
	knowledge  ports.KnowledgeBase
	observer   PipelineObserver
}

func NewChatUseCase(
	cfg ChatConfig,
	storage ports.TransientStorage,
	extractors map[domain.MediaType]ports.ContentExtractor,
	completion ports.CompletionClient,
	snapshot ports.SnapshotFetcher,
	knowledge ports.KnowledgeBase,
	observer PipelineObserver,
) *ChatUseCase {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 15 << 20
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	return &ChatUseCase{
		cfg:        cfg,
		storage:    storage,
		extractors: extractors,
		completion: completion,
		snapshot:   snapshot,
		knowledge:  knowledge,
		observer:   observer,
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	content, err := uc.extractUpload(ctx, req.Upload)
	if err != nil {
		return "", err
	}

	segments := AssemblePrompt(AssemblyInput{
		Framing:   uc.cfg.Framing,
		Knowledge: uc.backgroundText(),
		Snapshot:  uc.snapshotText(ctx),
		Message:   req.Message,
		Content:   content,
	})

	llmCtx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	answer, err := uc.completion.Generate(llmCtx, segments)
	if uc.observer != nil {
		uc.observer.CompletionDuration(time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	return answer, nil
}

// extractUpload validates, stores, extracts and finally removes the upload.
// Extraction failures degrade to absent content; validation failures abort
// before any transient write.
func (uc *ChatUseCase) extractUpload(ctx context.Context, upload *domain.Upload) (content *domain.ExtractedContent, err error) {
	if upload == nil {
		return nil, nil
	}

	mediaType, err := domain.ParseMediaType(upload.DeclaredType)
	if err != nil {
		return nil, err
	}
	if upload.Size > uc.cfg.MaxUploadBytes {
		return nil, domain.WrapError(
			domain.ErrPayloadTooLarge,
			"validate upload",
			fmt.Errorf("%d bytes exceeds limit of %d", upload.Size, uc.cfg.MaxUploadBytes),
		)
	}
	if uc.observer != nil {
		uc.observer.UploadAccepted(string(mediaType), upload.Size)
	}

	stored, err := uc.storage.Save(ctx, upload.Filename, upload.Body)
	if err != nil {
		return nil, fmt.Errorf("save to transient storage: %w", err)
	}
	defer func() {
		// Removal runs on every exit path and is best-effort only.
		if removeErr := uc.storage.Remove(ctx, stored.Key); removeErr != nil {
			slog.Warn("transient_cleanup_failed", "key", stored.Key, "error", removeErr)
		}
	}()

	artifact := &domain.Artifact{
		Filename:  upload.Filename,
		MediaType: mediaType,
		Size:      upload.Size,
		Key:       stored.Key,
		Path:      stored.Path,
	}

	extractor, ok := uc.extractors[mediaType]
	if !ok {
		// Unreachable after allow-list validation, kept as a safe default.
		slog.Warn("no_extractor_registered", "media_type", mediaType)
		return nil, nil
	}

	content, extractErr := extractor.Extract(ctx, artifact)
	if extractErr != nil {
		slog.Warn("extraction_failed",
			"media_type", mediaType,
			"filename", upload.Filename,
			"error", extractErr,
		)
		if uc.observer != nil {
			uc.observer.ExtractionFailure(string(mediaType))
		}
		return nil, nil
	}
	return content, nil
}

func (uc *ChatUseCase) backgroundText() string {
	if uc.knowledge == nil {
		return ""
	}
	return uc.knowledge.BackgroundText()
}

func (uc *ChatUseCase) snapshotText(ctx context.Context) string {
	if uc.snapshot == nil {
		return ""
	}
	text, err := uc.snapshot.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("snapshot_unavailable", "error", err)
		}
		if uc.observer != nil {
			uc.observer.SnapshotMiss()
		}
		return ""
	}
	return text
}
