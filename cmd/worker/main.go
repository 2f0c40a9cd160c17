package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/escape-engine/internal/config"
	"github.com/jwebster45206/escape-engine/internal/logger"
	"github.com/jwebster45206/escape-engine/internal/services"
	"github.com/jwebster45206/escape-engine/internal/services/events"
	"github.com/jwebster45206/escape-engine/internal/services/queue"
	"github.com/jwebster45206/escape-engine/internal/storage"
	"github.com/jwebster45206/escape-engine/internal/worker"
	"github.com/jwebster45206/escape-engine/pkg/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Escape Engine Worker",
		"environment", cfg.Environment,
		"worker_id", cfg.WorkerID,
		"redis_url", cfg.RedisURL)

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

	requestQueue := queue.NewRequestQueue(queueClient)
	log.Info("Queue service initialized successfully")

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
	log.Info("Storage service initialized successfully")

	processor := worker.NewSessionProcessor(sessionStore, game.ForRating(cfg.ContentRating), log,
		game.WithTimeLimit(cfg.TimeLimit),
		game.WithMessageLimit(cfg.MessageLimit),
	)

	// Locks and events share the queue connection
	locks := services.NewRedisService(queueClient.GetRedisClient(), log)
	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)

	w := worker.New(requestQueue, processor, broadcaster, locks, log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give worker time to finish current request
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("Worker did not stop in time")
	}

	if err := sessionStore.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Worker exited")
}
