package db

import (
	"database/sql"
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migration is one embedded schema step. Files are named NNN_description.sql
// and run in version order; 000 creates schema_migrations itself.
type migration struct {
	version string
	file    string
}

func listMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, errors.Newf("migration %s has no version prefix", name)
		}
		out = append(out, migration{version: version, file: name})
	}
	slices.SortFunc(out, func(a, b migration) int { return strings.Compare(a.version, b.version) })
	return out, nil
}

// appliedVersions returns the recorded versions, or an empty set on a fresh
// database where schema_migrations does not exist yet.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	applied := map[string]bool{}

	var tables int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'").Scan(&tables)
	if err != nil {
		return nil, errors.Wrap(err, "check schema_migrations")
	}
	if tables == 0 {
		return applied, nil
	}

	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errors.Wrap(err, "query schema_migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(db *sql.DB, fsys fs.FS, m migration) error {
	body, err := fs.ReadFile(fsys, path.Join(migrationsDir, m.file))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.file)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", m.file)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", m.file)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", m.file)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", m.file)
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, each in its own transaction.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	return migrate(db, migrations, logger)
}

func migrate(db *sql.DB, fsys fs.FS, logger *zap.SugaredLogger) error {
	pending, err := listMigrations(fsys)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 && len(pending) > 0 && pending[0].version != "000" {
		return errors.Newf("schema_migrations table missing, but first migration is %s", pending[0].file)
	}

	count := 0
	for _, m := range pending {
		if applied[m.version] {
			continue
		}
		if logger != nil {
			logger.Debugw("Applying migration", "migration", m.file, "version", m.version)
		}
		if err := apply(db, fsys, m); err != nil {
			return err
		}
		count++
	}

	if logger != nil {
		logger.Debugw("Migrations complete",
			"symbol", sym.DB,
			"applied", count,
			"total_migrations", len(pending),
		)
	}
	return nil
}
