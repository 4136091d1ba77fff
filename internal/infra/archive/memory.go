package archive

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"sync"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

// MemoryArchive keeps transmissions in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string][]byte)}
}

// Put stores the blob and returns metadata.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) (missionlog.StoredObject, error) {
	hash := md5.Sum(data)
	a.mu.Lock()
	a.blobs[key] = append([]byte(nil), data...)
	a.mu.Unlock()
	return missionlog.StoredObject{
		Key:      key,
		Size:     int64(len(data)),
		MimeType: mimeType,
		ETag:     hex.EncodeToString(hash[:]),
	}, nil
}

// Open returns a reader for the stored blob.
func (a *MemoryArchive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	blob, ok := a.blobs[key]
	if !ok {
		return nil, missionlog.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(blob)), nil
}

var _ missionlog.Archive = (*MemoryArchive)(nil)
