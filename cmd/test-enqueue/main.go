package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/jwebster45206/escape-engine/internal/services/queue"
	"github.com/jwebster45206/escape-engine/internal/storage"
	"github.com/jwebster45206/escape-engine/pkg/game"
	queuePkg "github.com/jwebster45206/escape-engine/pkg/queue"
)

// walkthrough is the shortest spoken route from the intro screen to the exit.
var walkthrough = []string{
	"start",
	"take red book",
	"enter passage",
	"use key card",
	"mix chemicals",
	"enter code",
	"look behind portrait",
	"enter password",
	"exit office",
	"use symbol sequence",
	"enter vault",
	"read riddle",
	"password",
	"escape",
}

func main() {
	redisURL := flag.String("redis", "redis://localhost:6379", "redis URL")
	steps := flag.Int("steps", len(walkthrough), "number of walkthrough utterances to queue")
	flag.Parse()

	if *steps < 0 || *steps > len(walkthrough) {
		log.Fatalf("steps must be between 0 and %d", len(walkthrough))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	client, err := queue.NewClient(*redisURL, logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer func() {
		_ = client.Close()
	}()
	fmt.Println("Connected to Redis successfully!")

	store := storage.NewRedisStorageWithClient(client.GetRedisClient(), storage.DefaultSessionTTL, logger)
	s := game.NewSession(1200, 5)
	if err := store.SaveSession(ctx, s); err != nil {
		log.Fatal("Failed to create session: ", err)
	}
	fmt.Printf("Created session %s\n", s.ID)

	rq := queue.NewRequestQueue(client)
	for _, text := range walkthrough[:*steps] {
		req := queuePkg.NewRequest(queuePkg.RequestTypeUtterance, s.ID)
		req.Text = text
		if err := rq.Enqueue(ctx, req); err != nil {
			log.Fatal("Failed to enqueue request: ", err)
		}
		fmt.Printf("Enqueued %q (%s)\n", text, req.RequestID)
	}

	depth, err := rq.Depth(ctx, s.ID)
	if err != nil {
		log.Fatal("Failed to get queue depth: ", err)
	}

	fmt.Printf("\nSession queue depth: %d requests\n", depth)
	fmt.Println("\nNow start the worker to see it process these requests!")
	fmt.Println("   Run: go run ./cmd/worker")
	fmt.Printf("   Then: curl localhost:8080/v1/sessions/%s\n", s.ID)
}
