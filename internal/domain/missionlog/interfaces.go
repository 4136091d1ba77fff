package missionlog

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
)

// Store persists log entries.
type Store interface {
	Save(ctx context.Context, entry Entry) error
	Get(ctx context.Context, id uuid.UUID) (Entry, bool, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// ErrObjectNotFound is returned by archives for unknown keys.
var ErrObjectNotFound = errors.New("archived object not found")

// Archive keeps a raw copy of each saved transmission.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// TokenCounter estimates how many tokens a text costs.
type TokenCounter interface {
	Count(text string) int
}

// ReportSource is the view state the log saves from.
type ReportSource interface {
	State() missionreport.State
	Acknowledge(version uint64) (missionreport.State, bool)
}
