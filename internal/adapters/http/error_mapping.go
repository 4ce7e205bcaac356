package httpadapter

import (
	"net/http"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func genericMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnsupportedMediaType:
		return "unsupported file type"
	case http.StatusRequestEntityTooLarge:
		return "file too large"
	case http.StatusServiceUnavailable:
		return "assistant temporarily unavailable"
	default:
		return "internal error"
	}
}
