package logstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

// ValkeyStore keeps each entry as a JSON string plus a newest-first id list.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "missionlog"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Close releases the client connections.
func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

func (s *ValkeyStore) Save(ctx context.Context, entry missionlog.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	results := s.client.DoMulti(ctx,
		s.client.B().Multi().Build(),
		s.client.B().Set().Key(s.entryKey(entry.ID)).Value(string(payload)).Build(),
		s.client.B().Lpush().Key(s.indexKey()).Element(entry.ID.String()).Build(),
		s.client.B().Exec().Build(),
	)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("save entry %s: %w", entry.ID, err)
		}
	}
	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return fmt.Errorf("save entry %s: %w", entry.ID, err)
	}
	for _, reply := range replies {
		if err := reply.Error(); err != nil {
			return fmt.Errorf("save entry %s: %w", entry.ID, err)
		}
	}
	return nil
}

func (s *ValkeyStore) Get(ctx context.Context, id uuid.UUID) (missionlog.Entry, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.entryKey(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return missionlog.Entry{}, false, nil
		}
		return missionlog.Entry{}, false, err
	}
	var entry missionlog.Entry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return missionlog.Entry{}, false, err
	}
	return entry, true, nil
}

func (s *ValkeyStore) Recent(ctx context.Context, limit int) ([]missionlog.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	ids, err := s.client.Do(ctx, s.client.B().Lrange().Key(s.indexKey()).Start(0).Stop(int64(limit-1)).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]missionlog.Entry, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		entry, found, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *ValkeyStore) entryKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:entry:%s", s.prefix, id)
}

func (s *ValkeyStore) indexKey() string {
	return fmt.Sprintf("%s:recent", s.prefix)
}

var _ missionlog.Store = (*ValkeyStore)(nil)
