package ports

import (
	"context"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

// ChatService is the inbound contract for the multimodal chat pipeline.
type ChatService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (string, error)
}
