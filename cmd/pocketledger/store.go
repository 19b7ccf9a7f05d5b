package main

import (
	"context"
	"fmt"
	"log/slog"

	database "github.com/sebuszqo/PocketLedger/db"
	"github.com/sebuszqo/PocketLedger/internal/config"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
)

// ledgerStore is the record store selected by DB_DRIVER together with what
// the server needs to report on it and release it.
type ledgerStore struct {
	store  domain.RecordStore
	health func() map[string]string
	close  func() error
}

func openStore(ctx context.Context, cfg *config.Config, migrate bool) (*ledgerStore, error) {
	if cfg.DBDriver == config.DriverMemory {
		slog.Warn("Using in-memory store, data is lost on exit")
		return &ledgerStore{
			store: infrastructure.NewMemoryStore(),
			health: func() map[string]string {
				return map[string]string{"status": "up", "driver": config.DriverMemory}
			},
			close: func() error { return nil },
		}, nil
	}

	dialect, err := infrastructure.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	dbService, err := database.NewDBService(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}
	if migrate {
		if err := dbService.Migrate(ctx); err != nil {
			_ = dbService.Close()
			return nil, fmt.Errorf("could not apply schema: %w", err)
		}
	}
	return &ledgerStore{
		store:  infrastructure.NewSQLStore(dbService.DB, dialect),
		health: dbService.Health,
		close:  dbService.Close,
	}, nil
}
