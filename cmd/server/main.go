// Package main is the entry point for the reference backend server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist-ai/support-chat/internal/assistant"
	"github.com/shopassist-ai/support-chat/internal/config"
	"github.com/shopassist-ai/support-chat/internal/server"
	"github.com/shopassist-ai/support-chat/internal/store"
	"github.com/shopassist-ai/support-chat/pkg/logger"
	"github.com/shopassist-ai/support-chat/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting support-chat backend")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "support-chat-backend", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	st, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	var completer assistant.Completer
	switch {
	case cfg.AnthropicAPIKey != "" && cfg.LLMProvider != string(assistant.ProviderOpenAI):
		completer, err = assistant.NewCompleter(assistant.ProviderAnthropic, cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		completer, err = assistant.NewCompleter(assistant.ProviderOpenAI, cfg.OpenAIAPIKey)
	}
	if err != nil {
		log.Warn("failed to create LLM client, small talk uses canned replies", zap.Error(err))
		completer = nil
	}

	responder := assistant.NewResponder(st, completer, log)
	handler := server.NewHandler(st, responder, log)

	router := server.NewRouter(handler, st, log, server.Options{
		JWTSecret:         cfg.JWTSecret,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
