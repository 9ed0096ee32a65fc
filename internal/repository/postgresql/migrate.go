package postgresql

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql/migrations"
	"github.com/jackc/pgx/v5"
)

// migrationLockKey serializes concurrent migrators across processes.
const migrationLockKey = 7_413_205_991

// Migrate applies the embedded migrations that have not run yet.
func Migrate(ctx context.Context, db *database.DB) error {
	return applyMigrations(ctx, db, migrations.FS)
}

func applyMigrations(ctx context.Context, db *database.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	return WithTransaction(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(migrationLockKey)); err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				name TEXT PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`); err != nil {
			return fmt.Errorf("ensure migration table: %w", err)
		}

		for _, file := range sqlFiles {
			var applied bool
			if err := tx.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", file,
			).Scan(&applied); err != nil {
				return fmt.Errorf("check migration %s: %w", file, err)
			}
			if applied {
				continue
			}

			content, err := fs.ReadFile(migrationFS, file)
			if err != nil {
				return fmt.Errorf("read migration %s: %w", file, err)
			}

			upSQL := extractUpMigration(string(content))
			if strings.TrimSpace(upSQL) != "" {
				if _, err := tx.Exec(ctx, upSQL); err != nil {
					return fmt.Errorf("exec migration %s: %w", file, err)
				}
			}

			if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", file); err != nil {
				return fmt.Errorf("record migration %s: %w", file, err)
			}
		}

		return nil
	})
}

// extractUpMigration returns the SQL in the -- +migrate Up section.
func extractUpMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"

	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, down)
	if downIdx == -1 {
		return content[upIdx+len(up):]
	}
	return content[upIdx+len(up) : downIdx]
}
