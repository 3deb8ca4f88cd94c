package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jrsteele09/go-storefront/sessions"
	_ "modernc.org/sqlite"
)

var _ sessions.Repo = (*SQLiteRepo)(nil)

// SQLiteRepo persists session slots in a single SQLite file so a session
// survives process restarts.
type SQLiteRepo struct {
	db      *sql.DB
	nowTime func() time.Time
}

// New opens (or creates) the session database at dbPath
func New(dbPath string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepo{db: db, nowTime: time.Now}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return repo, nil
}

func (r *SQLiteRepo) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS session_slots (
		slot TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create session_slots: %w", err)
	}
	return nil
}

const upsertSlot = `
	INSERT INTO session_slots (slot, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (r *SQLiteRepo) Write(ctx context.Context, slot sessions.Slot, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSlot, string(slot), value, r.nowTime().Unix()); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

func (r *SQLiteRepo) WriteAll(ctx context.Context, values map[sessions.Slot]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := r.nowTime().Unix()
	for slot, value := range values {
		if _, err := tx.ExecContext(ctx, upsertSlot, string(slot), value, now); err != nil {
			return fmt.Errorf("write slot %s: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Read(ctx context.Context, slot sessions.Slot) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_slots WHERE slot = ?`, string(slot)).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return value, true, nil
}

// ReadAll selects every slot in a single statement so the values come from
// one snapshot of the table
func (r *SQLiteRepo) ReadAll(ctx context.Context, slots ...sessions.Slot) (map[sessions.Slot]string, error) {
	values := make(map[sessions.Slot]string, len(slots))
	if len(slots) == 0 {
		return values, nil
	}

	placeholders, args := slotArgs(slots)
	rows, err := r.db.QueryContext(ctx, `SELECT slot, value FROM session_slots WHERE slot IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("read slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, value string
		if err := rows.Scan(&slot, &value); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		values[sessions.Slot(slot)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read slots: %w", err)
	}
	return values, nil
}

func (r *SQLiteRepo) Clear(ctx context.Context, slots ...sessions.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	placeholders, args := slotArgs(slots)
	query := `DELETE FROM session_slots WHERE slot IN (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}
	return nil
}

func slotArgs(slots []sessions.Slot) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(slots)), ",")
	args := make([]any, len(slots))
	for i, slot := range slots {
		args[i] = string(slot)
	}
	return placeholders, args
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}
