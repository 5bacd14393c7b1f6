package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/database"
)

//go:embed sql/*.sql
var embedded embed.FS

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"

	createTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
)

// Runner applies versioned SQL files in lexical order, one transaction per file.
type Runner struct {
	db    *sqlx.DB
	files fs.FS
}

// NewRunner returns a Runner over the schema files compiled into the binary.
func NewRunner(db *sqlx.DB) *Runner {
	sub, _ := fs.Sub(embedded, "sql")
	return &Runner{db: db, files: sub}
}

// NewRunnerFS is NewRunner with a caller-supplied file set.
func NewRunnerFS(db *sqlx.DB, files fs.FS) *Runner {
	return &Runner{db: db, files: files}
}

// Up applies every pending migration and returns the versions it applied.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := r.Status(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	versions, err := r.versions()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, version := range versions {
		if done[version] {
			continue
		}
		body, err := fs.ReadFile(r.files, version+upSuffix)
		if err != nil {
			return ran, fmt.Errorf("read %s: %w", version, err)
		}

		err = database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("apply migration %s: %w", version, err)
		}

		log.Info().Str("version", version).Msg("Migration applied")
		ran = append(ran, version)
	}

	return ran, nil
}

// Down reverts the most recently applied migration.
func (r *Runner) Down(ctx context.Context) (string, error) {
	applied, err := r.Status(ctx)
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", errors.New("no migrations applied")
	}

	last := applied[len(applied)-1]
	body, err := fs.ReadFile(r.files, last+downSuffix)
	if err != nil {
		return "", fmt.Errorf("missing down migration for %s", last)
	}

	err = database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, last)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("rollback migration %s: %w", last, err)
	}

	return last, nil
}

// Status lists applied versions in the order they were applied.
func (r *Runner) Status(ctx context.Context) ([]string, error) {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var versions []string
	if err := r.db.SelectContext(ctx, &versions,
		`SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

func (r *Runner) versions() ([]string, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), upSuffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), upSuffix))
	}
	sort.Strings(out)
	return out, nil
}
