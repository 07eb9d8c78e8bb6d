package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"recipehub/internal/catalog"
	"recipehub/internal/recipes"
	"recipehub/pkg/database"
	"recipehub/pkg/utils"
)

// catalog-export warms the catalog once and writes every enriched record to
// SQLite and/or CSV for offline inspection.
func main() {
	var (
		dbPath  = flag.String("db", database.DefaultConfig().Path, "SQLite output path (empty to skip)")
		csvPath = flag.String("csv", "data/catalog.csv", "CSV output path (empty to skip)")
		timeout = flag.Duration("timeout", 90*time.Second, "overall deadline")
	)
	flag.Parse()

	utils.LoadDotEnv()
	logger := utils.MustLogger(utils.LoadLogConfig())
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := recipes.Build(utils.LoadCatalogConfig(), logger)
	snap, err := svc.Cache.Snapshot(ctx)
	if err != nil {
		logger.Fatal("warm-up failed", zap.Error(err))
	}

	if *dbPath != "" {
		if err := exportSQLite(ctx, *dbPath, snap); err != nil {
			logger.Fatal("sqlite export failed", zap.Error(err))
		}
		logger.Info("exported to sqlite", zap.String("path", *dbPath), zap.Int("records", snap.Len()))
	}

	if *csvPath != "" {
		if err := exportCSV(*csvPath, snap); err != nil {
			logger.Fatal("csv export failed", zap.Error(err))
		}
		logger.Info("exported to csv", zap.String("path", *csvPath), zap.Int("records", snap.Len()))
	}
}

func exportSQLite(ctx context.Context, path string, snap *catalog.Snapshot) error {
	db, err := database.Open(database.Config{Path: path})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	return catalog.SaveToDatabase(ctx, db, snap)
}

func exportCSV(path string, snap *catalog.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := catalog.WriteCSV(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
