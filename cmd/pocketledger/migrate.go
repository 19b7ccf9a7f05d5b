package main

import (
	"fmt"
	"log/slog"

	database "github.com/sebuszqo/PocketLedger/db"
	"github.com/sebuszqo/PocketLedger/internal/config"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the ledger tables",
		Long:  `Apply the embedded schema for the configured driver. Existing tables are left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DBDriver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for driver %s", cfg.DBDriver)
			}
			dbService, err := database.NewDBService(cfg)
			if err != nil {
				return fmt.Errorf("could not initialize database: %w", err)
			}
			defer dbService.Close()

			if err := dbService.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Schema applied", "driver", dbService.Driver)
			return nil
		},
	}
}
