package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskboard/internal/models"
	"taskboard/internal/taskfile"
)

// SQLiteBackend stores tasks in an SQLite database. Rows keep their id across
// renames and reorders.
type SQLiteBackend struct {
	db       *sql.DB
	path     string
	location *time.Location
}

// NewSQLiteBackend opens (and migrates) the database at dbPath.
func NewSQLiteBackend(dbPath string, loc *time.Location) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if loc == nil {
		loc = time.Local
	}
	return &SQLiteBackend{db: db, path: dbPath, location: loc}, nil
}

// NewSQLiteStore creates a TaskStore backed by the database at dbPath.
func NewSQLiteStore(dbPath string, opts ...Option) (*TaskStore, error) {
	o := buildOptions(opts)
	b, err := NewSQLiteBackend(dbPath, o.location)
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// Path returns the database path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// LockFile returns the sidecar lock taken around each read-modify-write. A mutation reads
// before it opens the write transaction, so the database lock alone would let two processes
// replace from the same snapshot. In-memory databases are private to the process and have none.
func (b *SQLiteBackend) LockFile() string {
	if isMemoryDSN(b.path) {
		return ""
	}
	return b.path + ".lock"
}

func isMemoryDSN(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Read returns all tasks ordered by sort_order.
func (b *SQLiteBackend) Read(ctx context.Context) ([]models.Task, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, description, kind, freq, last_completed
		FROM tasks ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		var lastCompleted sql.NullString

		err := rows.Scan(
			&task.ID,
			&task.Description,
			&task.Kind,
			&task.Frequency,
			&lastCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if lastCompleted.Valid {
			t, err := time.ParseInLocation(taskfile.TimeLayout, lastCompleted.String, b.location)
			if err != nil {
				return nil, fmt.Errorf("invalid last_completed for task %d: %w", task.ID, err)
			}
			task.LastCompleted = &t
		}

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// Replace makes the table match tasks in one transaction: known ids are updated in place,
// new tasks are inserted and rows missing from tasks are deleted.
func (b *SQLiteBackend) Replace(ctx context.Context, tasks []models.Task) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := taskIDs(ctx, tx)
	if err != nil {
		return err
	}

	update, err := tx.PrepareContext(ctx, `
		UPDATE tasks
		SET description = ?, kind = ?, freq = ?, last_completed = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer update.Close()

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (description, kind, freq, last_completed, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer insert.Close()

	now := time.Now()
	kept := make(map[int64]bool, len(tasks))
	for i, task := range tasks {
		var lastCompleted interface{}
		if task.LastCompleted != nil {
			lastCompleted = task.LastCompleted.Format(taskfile.TimeLayout)
		}

		if task.ID != 0 && existing[task.ID] {
			_, err := update.ExecContext(ctx, task.Description, task.Kind, task.Frequency, lastCompleted, i+1, now, task.ID)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			kept[task.ID] = true
			continue
		}

		if _, err := insert.ExecContext(ctx, task.Description, task.Kind, task.Frequency, lastCompleted, i+1, now, now); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
	}

	for id := range existing {
		if kept[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
	}

	return tx.Commit()
}

func taskIDs(ctx context.Context, tx *sql.Tx) (map[int64]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}
