package main

import (
	"chat-relay/auth"
	"chat-relay/clock"
	"chat-relay/infrastructure/grpc/server"
	"chat-relay/infrastructure/providers"
	"chat-relay/infrastructure/storage"
	"chat-relay/internal"
	"chat-relay/ratelimit"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/transcription"
	"chat-relay/translation"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every defer (database close, worker stop) run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	realClock := clock.Real()
	conversationRepository := storage.NewConversationRepository(db, logger)
	messageRepository := storage.NewMessageRepository(db, logger, realClock)
	profileRepository := storage.NewProfileRepository(db)

	// 3. Admission, delivery and enrichment
	limiter := ratelimit.NewLimiter(config.RateLimit, config.RateWindow, realClock)
	registry := runtime.NewRegistry(logger)
	resolver := services.NewProfileResolver(logger, profileRepository)
	broadcaster := services.NewBroadcaster(registry, resolver)
	pool := workers.NewEnrichmentPool(logger, config.EnrichmentWorkers, config.EnrichmentQueueSize)

	httpClient := providers.NewHTTPClient()
	translators, llm := buildTranslators(config, httpClient)
	translator := translation.NewPipeline(logger, translation.NewCache(config.TranslationCacheSize), config.ProviderTimeout, translators...)
	logger.Info("Translation chain ready", "providers", len(translators))

	chatService := services.NewChatService(
		logger, realClock, limiter,
		services.NewConversationDirectory(logger, conversationRepository, realClock),
		services.NewFirewall(logger, conversationRepository),
		conversationRepository, messageRepository, profileRepository,
		registry, resolver, broadcaster, pool, translator,
		services.ChatServiceConfig{
			SyncLimit:      config.SyncLimit,
			BotPrefix:      config.BotPrefix,
			BotContextSize: config.BotContextSize,
		},
	)
	var typingLimiter *ratelimit.Limiter
	if config.TypingRateLimit > 0 {
		typingLimiter = ratelimit.NewLimiter(config.TypingRateLimit, config.RateWindow, realClock)
		chatService.WithTypingLimiter(typingLimiter)
	}
	if llm != nil {
		chatService.WithResponder(llm)
	}
	if config.STTURL != "" {
		if config.BlobBaseURL == "" {
			logger.Warn("STT_URL set without BLOB_BASE_URL, every audio pointer will be refused")
		}
		chatService.WithAudio(transcription.NewPipeline(
			logger,
			providers.NewHTTPBlobStore(httpClient, config.BlobBaseURL),
			providers.NewWhisper(httpClient, config.STTURL, config.STTAPIKey, config.STTModel),
			translator, messageRepository, resolver, broadcaster,
			config.TranscriptionTimeout,
		))
	}

	// 4. Supervision
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(pool.Workers()...)
	supervisor.Add(
		ratelimit.NewSweepWorker(limiter, realClock, logger),
		workers.NewTelemetryWorker(logger, config.MetricInterval, translator, limiter, registry, pool),
	)
	if typingLimiter != nil {
		supervisor.Add(ratelimit.NewSweepWorker(typingLimiter, realClock, logger))
	}

	if config.DebugPort > 0 {
		endpoint := "/inspect"
		debugServer := internal.StartDebugServer(logger, db, config.DebugPort, endpoint, storage.Describe, func() map[string]any {
			stats := translator.Stats()
			return map[string]any{
				"connections":         registry.Connected(),
				"tracked_identities":  limiter.Tracked(),
				"translation_hits":    stats.Hits,
				"translation_misses":  stats.Misses,
				"translation_entries": stats.Size,
				"enrichment_depth":    pool.Depth(),
				"enrichment_dropped":  pool.Dropped(),
			}
		})
		defer internal.StopDebugServer(debugServer)
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		logger.Info("Starting supervisor...")
		supervisor.Run(ctx)
	}()

	// 6. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	tokens := auth.NewTokenManager(config.JWTSecret)
	chatServer := server.NewChatServer(logger, chatService, services.NewDispatcher(logger, chatService),
		config.ConnectionBufferSize, config.DeliveryTimeout)
	s, healthServer := server.NewGRPCServer(logger, tokens, chatServer)

	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("📡 gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// Streams end first so no connection publishes into a stopped pool.
	logger.Info("Shutting down gracefully...")
	server.StopGRPCServer(logger, s, healthServer, config.ShutdownTimeout)
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

// buildTranslators returns the configured providers in fallback order.
// The LLM adapter is also returned on its own since it answers bot queries.
func buildTranslators(config internal.Config, client *http.Client) ([]translation.Translator, *providers.LLM) {
	var chain []translation.Translator
	if config.LibreTranslateURL != "" {
		chain = append(chain, providers.NewLibreTranslate(client, config.LibreTranslateURL, config.LibreTranslateAPIKey))
	}
	if config.MyMemoryURL != "" {
		chain = append(chain, providers.NewMyMemory(client, config.MyMemoryURL, config.MyMemoryEmail))
	}
	var llm *providers.LLM
	if config.LLMURL != "" {
		llm = providers.NewLLM(client, config.LLMURL, config.LLMAPIKey, config.LLMModel)
		chain = append(chain, llm)
	}
	return chain, llm
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
