package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/escape-engine/internal/config"
	"github.com/jwebster45206/escape-engine/internal/handlers"
	"github.com/jwebster45206/escape-engine/internal/logger"
	"github.com/jwebster45206/escape-engine/internal/middleware"
	"github.com/jwebster45206/escape-engine/internal/services"
	"github.com/jwebster45206/escape-engine/internal/services/events"
	"github.com/jwebster45206/escape-engine/internal/services/queue"
	"github.com/jwebster45206/escape-engine/internal/storage"
	"github.com/jwebster45206/escape-engine/pkg/scenario"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Escape Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"time_limit", cfg.TimeLimit,
		"content_rating", cfg.ContentRating)

	sessionStore, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	if err != nil {
		log.Error("Failed to create session storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := sessionStore.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	cache := services.NewRedisService(queueClient.GetRedisClient(), log)
	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)
	requestQueue := queue.NewRequestQueue(queueClient)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cache, sessionStore, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(sessionStore, requestQueue, broadcaster, log, cfg.TimeLimit, cfg.MessageLimit)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	eventsHandler := handlers.NewEventsHandler(queueClient.GetRedisClient(), log)
	mux.Handle("/v1/events/sessions/", eventsHandler)

	scenarioHandler := handlers.NewScenarioHandler(log, scenario.EscapeRoom())
	mux.Handle("/v1/scenario", scenarioHandler)

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the event stream holds connections open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := sessionStore.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
