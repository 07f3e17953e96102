// Package backend assembles a record store from configuration: SQLite
// with optional AMQP event publishing, or plain in-memory for local
// runs and tests.
package backend

import (
	"fmt"
	"log/slog"

	"spendlog/internal/amqp"
	"spendlog/internal/config"
	"spendlog/internal/services"
	"spendlog/internal/storage"
	"spendlog/internal/storage/memory"
	"spendlog/internal/store"
)

type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result bundles the assembled store with its cleanup function. Cleanup
// may be nil when the backend holds nothing to release.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Build assembles the store selected by cfg.DataBackend.
func Build(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backendType := Type(cfg.DataBackend)
	switch backendType {
	case SQLiteBackend:
		return buildSQLite(cfg, logger)
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func buildSQLite(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// AMQP is optional; the API works without the export pipeline.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewExpenseService(repo, publisher)

	logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	cleanup := func() error {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		return repo.Close()
	}

	return &Result{Store: svc, Cleanup: cleanup}, nil
}
