package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host      string `env:"HOST,required=true"`
	Port      int    `env:"PORT,required=true"`
	DebugPort int    `env:"DEBUG_PORT"`
	LogLevel  string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`

	RateLimit  int           `env:"RATE_LIMIT,default=30"`
	RateWindow time.Duration `env:"RATE_WINDOW,default=60s"`
	// TypingRateLimit bounds chat.typing per RATE_WINDOW apart from RATE_LIMIT. 0 disables it.
	TypingRateLimit int `env:"TYPING_RATE_LIMIT,default=120"`

	TranslationCacheSize int           `env:"TRANSLATION_CACHE_SIZE,default=10000"`
	ProviderTimeout      time.Duration `env:"PROVIDER_TIMEOUT,default=5s"`
	TranscriptionTimeout time.Duration `env:"TRANSCRIPTION_TIMEOUT,default=30s"`
	EnrichmentWorkers    int           `env:"ENRICHMENT_WORKERS,default=4"`
	EnrichmentQueueSize  int           `env:"ENRICHMENT_QUEUE_SIZE,default=256"`

	SyncLimit      int    `env:"SYNC_LIMIT,default=100"`
	BotContextSize int    `env:"BOT_CONTEXT_SIZE,default=10"`
	BotPrefix      string `env:"BOT_PREFIX,default=@@"`

	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=1m"`

	LibreTranslateURL    string `env:"LIBRETRANSLATE_URL"`
	LibreTranslateAPIKey string `env:"LIBRETRANSLATE_API_KEY"`
	MyMemoryURL          string `env:"MYMEMORY_URL"`
	MyMemoryEmail        string `env:"MYMEMORY_EMAIL"`
	LLMURL               string `env:"LLM_URL"`
	LLMAPIKey            string `env:"LLM_API_KEY"`
	LLMModel             string `env:"LLM_MODEL,default=gpt-4o-mini"`
	STTURL               string `env:"STT_URL"`
	STTAPIKey            string `env:"STT_API_KEY"`
	STTModel             string `env:"STT_MODEL,default=whisper-1"`
	BlobBaseURL          string `env:"BLOB_BASE_URL"`
}

// Validate rejects values the relay cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.TypingRateLimit < 0 {
		return fmt.Errorf("TYPING_RATE_LIMIT must not be negative, got %d", c.TypingRateLimit)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.BotPrefix == "" {
		return fmt.Errorf("BOT_PREFIX must not be empty")
	}
	return nil
}
