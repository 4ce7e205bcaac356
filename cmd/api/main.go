package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/kirillkom/chat-gateway/internal/adapters/http"
	"github.com/kirillkom/chat-gateway/internal/bootstrap"
	"github.com/kirillkom/chat-gateway/internal/config"
	"github.com/kirillkom/chat-gateway/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(bootstrap.ServiceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(app.ChatUC, httpadapter.Options{
		Service:           bootstrap.ServiceName,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimitRPS:      float64(cfg.APIRateLimitRPS),
		RateLimitBurst:    cfg.APIRateLimitBurst,
		MaxConcurrent:     cfg.MaxConcurrentChats,
	}, app.Metrics)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
