package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Config describes the export database. The exporter is the only writer and
// runs once, so the file stays in rollback-journal mode and can be copied
// around as a single file once the run ends.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DefaultConfig writes next to the CSV export unless RECIPEHUB_DB_PATH says
// otherwise.
func DefaultConfig() Config {
	path := os.Getenv("RECIPEHUB_DB_PATH")
	if path == "" {
		path = filepath.Join("data", "catalog.db")
	}
	return Config{Path: path, BusyTimeout: 5 * time.Second}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

func Open(cfg Config) (*sql.DB, error) {
	if err := EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=DELETE&_busy_timeout=%d", cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps the export transaction and the schema on the same
	// handle
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
