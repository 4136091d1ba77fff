package logstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transmissions (
	id TEXT PRIMARY KEY,
	zone TEXT NOT NULL,
	wind REAL NOT NULL,
	temperature REAL NOT NULL,
	radiation REAL NOT NULL,
	minerals_json TEXT NOT NULL,
	report TEXT NOT NULL,
	outcome TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	archive_key TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transmissions_created ON transmissions(created_at);
`

type sqliteRow struct {
	entryRow
	CreatedAtNanos int64 `db:"created_at"`
}

// SQLiteStore persists the mission log in a local SQLite file.
type SQLiteStore struct {
	conn *sqlx.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	store := &SQLiteStore{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.conn.Exec(sqliteSchema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, entry missionlog.Entry) error {
	row, err := toRow(entry)
	if err != nil {
		return err
	}
	_, err = s.conn.NamedExecContext(ctx, `INSERT INTO transmissions
		(id, zone, wind, temperature, radiation, minerals_json, report, outcome,
		 prompt_tokens, completion_tokens, archive_key, created_at)
		VALUES (:id, :zone, :wind, :temperature, :radiation, :minerals_json, :report, :outcome,
		 :prompt_tokens, :completion_tokens, :archive_key, :created_at)`,
		sqliteRow{entryRow: row, CreatedAtNanos: row.CreatedAt.UnixNano()})
	if err != nil {
		return fmt.Errorf("insert transmission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (missionlog.Entry, bool, error) {
	var row sqliteRow
	err := s.conn.GetContext(ctx, &row, `SELECT * FROM transmissions WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return missionlog.Entry{}, false, nil
	}
	if err != nil {
		return missionlog.Entry{}, false, fmt.Errorf("load transmission: %w", err)
	}
	entry, err := row.toEntry()
	if err != nil {
		return missionlog.Entry{}, false, err
	}
	return entry, true, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]missionlog.Entry, error) {
	var rows []sqliteRow
	if err := s.conn.SelectContext(ctx, &rows,
		`SELECT * FROM transmissions ORDER BY created_at DESC, id ASC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list transmissions: %w", err)
	}
	out := make([]missionlog.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r sqliteRow) toEntry() (missionlog.Entry, error) {
	base := r.entryRow
	base.CreatedAt = time.Unix(0, r.CreatedAtNanos)
	return base.toEntry()
}

var _ missionlog.Store = (*SQLiteStore)(nil)
