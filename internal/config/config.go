package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env        string
	ListenAddr string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	BlobDir string

	OpenAIKey   string
	OpenAIModel string

	PaymentWebhookSecret string

	PipelineWorkers  int
	CollectorTimeout time.Duration

	LogLevel  string
	LogFormat string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:                  getenv("APP_ENV", "development"),
		ListenAddr:           getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		BlobDir:              getenv("BLOB_DIR", "./data/blobs"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getenv("OPENAI_MODEL", "gpt-4o-mini"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PipelineWorkers:      getenvInt("PIPELINE_WORKERS", 2),
		CollectorTimeout:     time.Duration(getenvInt("COLLECTOR_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogFormat:            getenv("LOG_FORMAT", "console"),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
