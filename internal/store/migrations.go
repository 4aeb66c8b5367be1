package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	sql     string
}

func (m migration) String() string {
	return fmt.Sprintf("%04d_%s", m.version, m.name)
}

// migrator applies embedded schema migrations in version order, recording each one in
// schema_migrations so it runs once per database.
type migrator struct {
	db     *sql.DB
	source fs.FS
}

func runMigrations(db *sql.DB) error {
	m := migrator{db: db, source: migrationsFS}
	return m.up(context.Background())
}

func (m migrator) up(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	pending, err := m.pending(ctx)
	if err != nil {
		return err
	}

	for _, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}

// pending returns the migrations not yet recorded, lowest version first.
func (m migrator) pending(ctx context.Context) ([]migration, error) {
	all, err := readMigrations(m.source)
	if err != nil {
		return nil, err
	}

	current, err := m.version(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]migration, 0, len(all))
	for _, mig := range all {
		if mig.version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// version returns the highest applied migration, or 0 for a fresh database.
func (m migrator) version(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := m.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

func (m migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", mig, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.sql); err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", mig, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, mig.version, mig.name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", mig, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", mig, err)
	}
	return nil
}

// readMigrations loads every migrations/<version>_<name>.sql file from source.
func readMigrations(source fs.FS) ([]migration, error) {
	files, err := fs.Glob(source, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	migrations := make([]migration, 0, len(files))
	seen := make(map[int]string, len(files))

	for _, file := range files {
		version, name, err := parseMigrationFilename(path.Base(file))
		if err != nil {
			return nil, err
		}
		if other, exists := seen[version]; exists {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", version, other, file)
		}
		seen[version] = file

		content, err := fs.ReadFile(source, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		migrations = append(migrations, migration{version: version, name: name, sql: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func parseMigrationFilename(filename string) (int, string, error) {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	version, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: expected '<version>_<name>.sql'", filename)
	}

	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, "", fmt.Errorf("invalid migration version in %q: %w", filename, err)
	}
	return v, name, nil
}
