package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/core/ports"
	"github.com/kirillkom/chat-gateway/internal/observability/metrics"
)

// multipartOverheadBytes leaves room for form boundaries and the message
// field on top of the upload limit.
const multipartOverheadBytes = 1 << 20

type Options struct {
	Service           string
	MaxUploadBytes    int64
	CORSAllowedOrigin string
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int
	QueueTimeout      time.Duration
}

type Router struct {
	chat    ports.ChatService
	opts    Options
	metrics *metrics.ServerMetrics
}

func NewRouter(chat ports.ChatService, opts Options, serverMetrics *metrics.ServerMetrics) *Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 15 << 20
	}
	if opts.QueueTimeout <= 0 {
		opts.QueueTimeout = 5 * time.Second
	}
	return &Router{
		chat:    chat,
		opts:    opts,
		metrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/chat", rt.handleChat)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.opts.Service, handler)
	}
	if rt.opts.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.opts.MaxConcurrent, rt.opts.QueueTimeout)
	}
	if rt.opts.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)

	corsOptions := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
	}
	if rt.opts.CORSAllowedOrigin != "" {
		corsOptions.AllowedOrigins = []string{rt.opts.CORSAllowedOrigin}
	}
	return cors.New(corsOptions).Handler(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.opts.MaxUploadBytes+multipartOverheadBytes)
	if err := r.ParseMultipartForm(rt.opts.MaxUploadBytes + multipartOverheadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := domain.ChatRequest{Message: r.FormValue("message")}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		req.Upload = &domain.Upload{
			Filename:     header.Filename,
			DeclaredType: header.Header.Get("Content-Type"),
			Size:         header.Size,
			Body:         file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// message-only request
	default:
		writeError(w, http.StatusBadRequest, "invalid file field")
		return
	}

	answer, err := rt.chat.Chat(r.Context(), req)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		rt.recordChatOutcome(outcomeForStatus(status))
		writeErrorWithDetails(w, status, genericMessage(status), err.Error())
		return
	}

	rt.recordChatOutcome("ok")
	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

func (rt *Router) recordChatOutcome(outcome string) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordChatOutcome(rt.opts.Service, outcome)
}

func outcomeForStatus(status int) string {
	switch {
	case status >= 500:
		return "upstream_error"
	case status >= 400:
		return "rejected"
	default:
		return "ok"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeErrorWithDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]string{"error": message, "details": details})
}
