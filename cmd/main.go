package main

import (
	"chat-hub/auth"
	"chat-hub/contract"
	"chat-hub/infrastructure/http/server"
	"chat-hub/internal"
	"chat-hub/moderation"
	"chat-hub/observability"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"chat-hub/runtime/workers"
	"chat-hub/services"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-hub terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves until a signal or a server failure, then shuts down in order.
// Returning instead of exiting lets every defer (Badger, Bluge) run.
func run() (int, error) {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitConfig, fmt.Errorf("cannot read .env: %w", err)
	}
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage (Badger + Bluge)
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	userRepository := repositories.NewUserRepository(db, repositories.NewUserIndex(blugeWriter), logger)
	chatRepository := repositories.NewChatRepository(db, logger, userRepository, config.ChatListLimit)
	messageRepository := repositories.NewMessageRepository(db, logger)

	indexed, err := userRepository.Reindex()
	if err != nil {
		return exitRuntime, fmt.Errorf("user index rebuild failed: %w", err)
	}
	logger.Info("User search index ready", "users", indexed)

	// 3. Moderation
	censor, err := buildCensor(config, logger)
	if err != nil {
		return exitConfig, err
	}

	// 4. Realtime core & services
	registry := runtime.NewRegistry(logger)
	authService := services.NewAuthService(userRepository,
		auth.NewTokenizer(config.JwtSecret, config.AuthTokenDuration), logger)
	chatService := services.NewChatService(logger,
		chatRepository, messageRepository,
		registry, runtime.NewBroadcaster(registry, logger), runtime.NewChatLocks(),
		censor,
		services.Pagination{DefaultPageSize: config.DefaultPageSize, MaxPageSize: config.MaxPageSize})

	// 5. Supervision
	monitor, err := observability.NewMonitor(logger, registry)
	if err != nil {
		return exitRuntime, err
	}
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(workers.NewTelemetryWorker(logger, monitor, config.MetricInterval))
	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supervisorDone)
	}()

	errChan := make(chan error, 3)

	// 6. HTTP API + websocket
	if !logger.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	api := server.NewServer(logger, authService, chatService, server.Config{
		ConnectionBufferSize: config.ConnectionBufferSize,
		MaxUploadSize:        config.MaxUploadSize,
		CorsOrigins:          config.Origins(),
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. gRPC health
	healthAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcHealthPort)
	healthListener, err := net.Listen("tcp", healthAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", healthAddress, err)
	}
	health := observability.NewHealthServer(logger)
	go func() {
		if err := health.Serve(healthListener); err != nil {
			errChan <- fmt.Errorf("gRPC health server error: %w", err)
		}
	}()
	health.SetServing(true)

	// 8. Debug inspector, loopback only
	var debugServer *http.Server
	if config.DebugPort > 0 {
		debugServer = internal.NewDebugServer(logger, db, config.DebugPort, func() any { return monitor.Latest() })
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://%s/inspect", debugServer.Addr))
		go func() {
			if err := debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("debug server error: %w", err)
			}
		}()
	}

	// 9. Wait for Stop or Error
	exitCode, exitErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case exitErr = <-errChan:
		exitCode = exitRuntime
	}

	// 10. Graceful shutdown: stop advertising, stop accepting, drop sessions, stop workers
	logger.Info("Shutting down gracefully...")
	health.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	logger.Info("Realtime sessions closed", "count", registry.CloseAll())
	if debugServer != nil {
		_ = debugServer.Shutdown(shutdownCtx)
	}
	health.Stop()
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return exitCode, exitErr
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// buildCensor returns nil when moderation is disabled.
func buildCensor(config internal.Config, logger *slog.Logger) (contract.Censor, error) {
	if !config.ModerationEnabled {
		return nil, nil
	}
	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	censored, err := moderation.LoadCensored()
	if err != nil {
		return nil, fmt.Errorf("cannot load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, replacement, logger)
	if err != nil {
		return nil, fmt.Errorf("cannot build moderator: %w", err)
	}
	logger.Info("Moderation enabled", "words", len(censored.Words), "languages", censored.Languages)
	return moderator, nil
}
