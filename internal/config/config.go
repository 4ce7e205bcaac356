package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	GeminiAPIKey      string
	GeminiModel       string
	GeminiVisionModel string
	GeminiTemperature float64
	GeminiTopP        float64
	LLMTimeoutSeconds int

	MaxUploadBytes int64
	StoragePath    string

	SnapshotURL            string
	SnapshotTTLSeconds     int
	SnapshotTimeoutSeconds int

	PersonaPath string

	CORSAllowedOrigin  string
	APIRateLimitRPS    int
	APIRateLimitBurst  int
	MaxConcurrentChats int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		GeminiAPIKey:      mustEnv("GEMINI_API_KEY", ""),
		GeminiModel:       mustEnv("GEMINI_MODEL", "gemini-1.5-pro-002"),
		GeminiVisionModel: mustEnv("GEMINI_VISION_MODEL", "gemini-1.5-flash-002"),
		GeminiTemperature: mustEnvFloat("GEMINI_TEMPERATURE", 0.7),
		GeminiTopP:        mustEnvFloat("GEMINI_TOP_P", 0.95),
		LLMTimeoutSeconds: mustEnvInt("LLM_TIMEOUT_SECONDS", 60),

		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 15<<20),
		StoragePath:    mustEnv("STORAGE_PATH", "./data/uploads"),

		SnapshotURL:            mustEnv("SNAPSHOT_URL", ""),
		SnapshotTTLSeconds:     mustEnvInt("SNAPSHOT_TTL_SECONDS", 600),
		SnapshotTimeoutSeconds: mustEnvInt("SNAPSHOT_TIMEOUT_SECONDS", 5),

		PersonaPath: mustEnv("PERSONA_PATH", ""),

		CORSAllowedOrigin:  mustEnv("CORS_ALLOWED_ORIGIN", "*"),
		APIRateLimitRPS:    mustEnvInt("API_RATE_LIMIT_RPS", 10),
		APIRateLimitBurst:  mustEnvInt("API_RATE_LIMIT_BURST", 20),
		MaxConcurrentChats: mustEnvInt("MAX_CONCURRENT_CHATS", 32),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
