package logstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/pkg/metrics"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transmissions (
	id UUID PRIMARY KEY,
	zone TEXT NOT NULL,
	wind DOUBLE PRECISION NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	radiation DOUBLE PRECISION NOT NULL,
	minerals TEXT[] NOT NULL DEFAULT '{}',
	report TEXT NOT NULL,
	outcome TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	archive_key TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transmissions_created ON transmissions(created_at DESC);
`

const selectColumns = `id, zone, wind, temperature, radiation, minerals, report, outcome,
	prompt_tokens, completion_tokens, archive_key, created_at`

// PostgresStore implements missionlog.Store using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema creates the transmissions table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create transmissions schema: %w", err)
	}
	return nil
}

// Save inserts a transmission row.
func (s *PostgresStore) Save(ctx context.Context, entry missionlog.Entry) error {
	minerals := entry.Minerals
	if minerals == nil {
		minerals = []string{}
	}
	var prompt, completion int
	if entry.TokenUsage != nil {
		prompt = entry.TokenUsage.PromptTokens
		completion = entry.TokenUsage.CompletionTokens
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transmissions (id, zone, wind, temperature, radiation, minerals, report, outcome,
			prompt_tokens, completion_tokens, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, entry.ID, entry.Zone, entry.Weather.Wind, entry.Weather.Temperature, entry.Weather.Radiation,
		minerals, entry.Report, string(entry.Outcome), prompt, completion, entry.ArchiveKey, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transmission: %w", err)
	}
	return nil
}

// Get fetches a transmission by id.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (missionlog.Entry, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM transmissions WHERE id = $1`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return missionlog.Entry{}, false, nil
	}
	if err != nil {
		return missionlog.Entry{}, false, err
	}
	return entry, true, nil
}

// Recent lists the newest transmissions first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]missionlog.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM transmissions
		ORDER BY created_at DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []missionlog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (missionlog.Entry, error) {
	var (
		entry              missionlog.Entry
		outcome            string
		prompt, completion int
	)
	if err := row.Scan(
		&entry.ID,
		&entry.Zone,
		&entry.Weather.Wind,
		&entry.Weather.Temperature,
		&entry.Weather.Radiation,
		&entry.Minerals,
		&entry.Report,
		&outcome,
		&prompt,
		&completion,
		&entry.ArchiveKey,
		&entry.CreatedAt,
	); err != nil {
		return missionlog.Entry{}, err
	}
	entry.Outcome = missionreport.Outcome(outcome)
	if entry.Minerals == nil {
		entry.Minerals = []string{}
	}
	entry.TokenUsage = metrics.Usage(prompt, completion).OrNil()
	entry.CreatedAt = entry.CreatedAt.UTC()
	return entry, nil
}

var _ missionlog.Store = (*PostgresStore)(nil)
