package db

import (
	"context"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/clinicprep/internal/sql"
)

const migrationsTable = `
CREATE SCHEMA IF NOT EXISTS prep;
CREATE TABLE IF NOT EXISTS prep.schema_migrations (
    name       text PRIMARY KEY,
    applied_at timestamptz NOT NULL DEFAULT now()
)`

// ApplyMigrations runs the embedded label store migrations in filename
// order. Each file runs in its own transaction and is recorded in
// prep.schema_migrations, so a second call applies nothing.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, migrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := 0
	for _, name := range names {
		data, err := fs.ReadFile(embedsql.Migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		ran, err := applyOne(ctx, pool, name, string(data))
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if ran {
			log.Debug().Str("migration", name).Msg("applied migration")
			applied++
		}
	}

	log.Info().Int("applied", applied).Int("known", len(names)).Msg("label store migrations up to date")
	return nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func applyOne(ctx context.Context, pool *pgxpool.Pool, name, ddl string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var done bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM prep.schema_migrations WHERE name = $1)", name,
	).Scan(&done); err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, "INSERT INTO prep.schema_migrations (name) VALUES ($1)", name); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}
