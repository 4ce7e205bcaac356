package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/chat-gateway/internal/config"
	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/core/ports"
	"github.com/kirillkom/chat-gateway/internal/core/usecase"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/extractor/image"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/knowledge"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/resilience"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/snapshot"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/chat-gateway/internal/observability/metrics"
)

const ServiceName = "chat-gateway"

type App struct {
	Config  config.Config
	ChatUC  ports.ChatService
	Metrics *metrics.ServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	persona, err := config.LoadPersona(cfg.PersonaPath)
	if err != nil {
		return nil, fmt.Errorf("load persona: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init transient storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())
	geminiClient, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		VisionModel: cfg.GeminiVisionModel,
		Temperature: cfg.GeminiTemperature,
		TopP:        cfg.GeminiTopP,
	}, executor)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	knowledgeBase := knowledge.Load(persona.KnowledgeDocuments, persona.KnowledgeMaxChars)
	snapshotFetcher := snapshot.New(
		cfg.SnapshotURL,
		time.Duration(cfg.SnapshotTTLSeconds)*time.Second,
		time.Duration(cfg.SnapshotTimeoutSeconds)*time.Second,
	)

	imageExtractor := image.New(geminiClient)
	extractors := map[domain.MediaType]ports.ContentExtractor{
		domain.MediaJPEG:      imageExtractor,
		domain.MediaPNG:       imageExtractor,
		domain.MediaWEBP:      imageExtractor,
		domain.MediaPDF:       pdf.New(),
		domain.MediaDOCX:      docx.New(),
		domain.MediaPlainText: plaintext.New(),
	}

	serverMetrics := metrics.NewServerMetrics(ServiceName)
	chatUC := usecase.NewChatUseCase(
		usecase.ChatConfig{
			Framing:        persona.Framing,
			MaxUploadBytes: cfg.MaxUploadBytes,
			LLMTimeout:     time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		},
		storage,
		extractors,
		geminiClient,
		snapshotFetcher,
		knowledgeBase,
		&metricsObserver{service: ServiceName, metrics: serverMetrics},
	)

	return &App{
		Config:  cfg,
		ChatUC:  chatUC,
		Metrics: serverMetrics,

		closeFn: func() {
			_ = geminiClient.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// metricsObserver forwards pipeline events from the use case to Prometheus.
type metricsObserver struct {
	service string
	metrics *metrics.ServerMetrics
}

func (o *metricsObserver) UploadAccepted(mediaType string, size int64) {
	o.metrics.RecordUploadSize(o.service, mediaType, size)
}

func (o *metricsObserver) ExtractionFailure(mediaType string) {
	o.metrics.RecordExtractionFailure(o.service, mediaType)
}

func (o *metricsObserver) SnapshotMiss() {
	o.metrics.RecordSnapshotMiss(o.service)
}

func (o *metricsObserver) CompletionDuration(d time.Duration) {
	o.metrics.RecordCompletionDuration(o.service, d)
}
