package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"recipehub/pkg/models"
)

// ExportColumns is the column order shared by the SQLite and CSV exports.
var ExportColumns = []string{"kind", "id", "name", "thumbnail", "category", "calories", "diet", "created_at", "popularity"}

// SaveToDatabase upserts every record of snap into the `recipes` table (see
// pkg/database/schema.sql). It is an offline export; the running service
// never reads it.
func SaveToDatabase(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (kind, id, name, thumbnail, category, calories, diet, created_at, popularity, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
		  name = excluded.name,
		  thumbnail = excluded.thumbnail,
		  category = excluded.category,
		  calories = excluded.calories,
		  diet = excluded.diet,
		  created_at = excluded.created_at,
		  popularity = excluded.popularity,
		  exported_at = excluded.exported_at
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	exportedAt := time.Now().UTC().Format(time.RFC3339)
	for _, r := range snap.Collection("") {
		if _, err := stmt.ExecContext(ctx,
			string(r.Kind), r.ID, r.Name, r.Thumbnail, r.Category,
			r.Calories, string(r.Diet), r.CreatedAt, r.Popularity, exportedAt,
		); err != nil {
			return fmt.Errorf("exec upsert for %s %s: %w", r.Kind, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, snap *Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, r := range snap.Collection("") {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r models.Recipe) []string {
	return []string{
		string(r.Kind),
		r.ID,
		r.Name,
		r.Thumbnail,
		r.Category,
		strconv.Itoa(r.Calories),
		string(r.Diet),
		strconv.FormatInt(r.CreatedAt, 10),
		strconv.Itoa(r.Popularity),
	}
}
