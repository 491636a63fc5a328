package medium

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kiosk/internal/logging"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLite stores keys in a single kv table.
type SQLite struct {
	db     *sql.DB
	dbPath string
}

// NewSQLite opens (or creates) the database at path. ":memory:" gives a
// private in-memory database.
func NewSQLite(path string, busyTimeout time.Duration) (*SQLite, error) {
	timer := logging.StartTimer(logging.CategoryMedium, "NewSQLite")
	defer timer.Stop()

	log := logging.Get(logging.CategoryMedium)
	log.Info("opening sqlite medium", zap.String("path", path))

	if path == "" {
		return nil, errors.New("sqlite medium requires a path")
	}
	if path != memoryDSN {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error("failed to create directory", zap.String("dir", dir), zap.Error(err))
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			log.Debug("pragma failed", zap.String("pragma", p), zap.Error(err))
		}
	}

	m := &SQLite{db: db, dbPath: path}
	if err := m.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("sqlite schema ready")
	return m, nil
}

func (m *SQLite) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

// Path returns the database path.
func (m *SQLite) Path() string {
	return m.dbPath
}

func (m *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, m.wrap("get", key, err)
	}
	return value, true, nil
}

func (m *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return m.wrap("set", key, err)
	}
	return nil
}

func (m *SQLite) Close() error {
	return m.db.Close()
}

func (m *SQLite) wrap(op, key string, err error) error {
	if errors.Is(err, sql.ErrConnDone) || err.Error() == "sql: database is closed" {
		return fmt.Errorf("%s %s: %w", op, key, ErrClosed)
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}
