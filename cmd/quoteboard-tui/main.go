// Package main runs the quote board in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quoteboard/internal/adapters/clients"
	"github.com/jsamuelsen/quoteboard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quoteboard/internal/adapters/tui"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

// Version is injected via ldflags.
var Version = "dev"

// defaultLogPath is used when the config leaves log.file.path empty.
const defaultLogPath = "./logs/quoteboard-tui.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logPath := cfg.Log.File.Path
	if logPath == "" {
		logPath = defaultLogPath
	}

	// The terminal belongs to the UI, so records only go to the file.
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "json",
		Service: cfg.App.Name + "-tui",
		Version: Version,
		File: logging.FileConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, io.Discard)
	logging.SetDefault(logger)

	logger.Info("starting terminal board", slog.String("store", cfg.Services.Quotes.BaseURL))

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quotes.BaseURL,
		ServiceName: cfg.Services.Quotes.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating quote store client: %w", err)
	}

	store := acl.NewQuoteStore(acl.QuoteStoreConfig{
		Client: httpClient,
		Logger: logger,
	})

	board := app.NewSynchronizer(app.SynchronizerConfig{
		Store:  store,
		Logger: logger,
	})

	model := tui.New(ctx, tui.Config{Board: board})

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running terminal board: %w", err)
	}

	logger.Info("terminal board closed")

	return nil
}
