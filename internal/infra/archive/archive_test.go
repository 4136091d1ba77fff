package archive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

func TestMemoryArchiveRoundTrip(t *testing.T) {
	a := NewMemoryArchive()
	obj, err := a.Put(context.Background(), "transmissions/a.txt", []byte("All clear."), "text/plain")
	require.NoError(t, err)
	require.Equal(t, int64(10), obj.Size)
	require.NotEmpty(t, obj.ETag)

	rc, err := a.Open(context.Background(), "transmissions/a.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "All clear.", string(body))
}

func TestMemoryArchiveMissingKey(t *testing.T) {
	_, err := NewMemoryArchive().Open(context.Background(), "nope")
	require.True(t, errors.Is(err, missionlog.ErrObjectNotFound))
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestMinioArchiveRetriesBucketCheckAfterFailure(t *testing.T) {
	var heads, puts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			heads.Add(1)
		case http.MethodPut:
			puts.Add(1)
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("ETag", `"abc123"`)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := NewMinioArchive(srv.URL, "key", "secret", "cosmo", "us-east-1", nil)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Put(cancelled, "transmissions/a.txt", []byte("All clear."), "text/plain")
	require.Error(t, err)

	obj, err := a.Put(context.Background(), "transmissions/a.txt", []byte("All clear."), "text/plain")
	require.NoError(t, err)
	require.Equal(t, "transmissions/a.txt", obj.Key)

	_, err = a.Put(context.Background(), "transmissions/b.txt", []byte("Dust rising."), "text/plain")
	require.NoError(t, err)
	require.Equal(t, int32(1), heads.Load())
	require.Equal(t, int32(2), puts.Load())
}
