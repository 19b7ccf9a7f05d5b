package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sebuszqo/PocketLedger/internal/config"
)

// DBService represents a service that interacts with a database.
type DBService struct {
	DB     *sql.DB
	Driver string
}

// NewDBService opens the configured database and verifies the connection.
func NewDBService(cfg *config.Config) (*DBService, error) {
	if cfg.DBDriver != config.DriverPostgres && cfg.DBDriver != config.DriverSQLite {
		return nil, fmt.Errorf("driver %s has no database connection", cfg.DBDriver)
	}
	if cfg.DBConnection == "" {
		return nil, fmt.Errorf("missing DB_CONNECTION_STRING in environment variables")
	}

	db, err := sql.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %v", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// one writer; a second connection would also see a different :memory: database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to the database: %v", err)
	}

	return &DBService{DB: db, Driver: cfg.DBDriver}, nil
}

// Migrate applies the embedded schema for the service's driver.
func (s *DBService) Migrate(ctx context.Context) error {
	return ApplySchema(ctx, s.DB, s.Driver)
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health() map[string]string {
	stats := make(map[string]string)

	err := s.DB.Ping()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = s.Driver
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	slog.Info("Closing database connection", "driver", s.Driver)
	return s.DB.Close()
}
