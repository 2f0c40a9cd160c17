package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/escape-engine/pkg/game"
)

type ConsoleConfig struct {
	TimeLimit     float64
	MessageLimit  int
	ContentRating string
	LogFile       string
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}
	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := game.New(
		game.WithLogger(log),
		game.WithTimeLimit(cfg.TimeLimit),
		game.WithMessageLimit(cfg.MessageLimit),
	)
	voice := game.NewVoice(c, game.ForRating(cfg.ContentRating))

	p := tea.NewProgram(NewConsoleUI(c, voice),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*ConsoleConfig, error) {
	cfg := &ConsoleConfig{
		ContentRating: getEnv("CONTENT_RATING", "PG13"),
		LogFile:       os.Getenv("LOG_FILE"),
	}
	var err error
	if cfg.TimeLimit, err = strconv.ParseFloat(getEnv("TIME_LIMIT_SECONDS", "1200"), 64); err != nil || cfg.TimeLimit <= 0 {
		return nil, fmt.Errorf("invalid TIME_LIMIT_SECONDS %q", os.Getenv("TIME_LIMIT_SECONDS"))
	}
	if cfg.MessageLimit, err = strconv.Atoi(getEnv("MESSAGE_LIMIT", "5")); err != nil || cfg.MessageLimit <= 0 {
		return nil, fmt.Errorf("invalid MESSAGE_LIMIT %q", os.Getenv("MESSAGE_LIMIT"))
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
