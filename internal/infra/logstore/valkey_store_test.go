package logstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

func TestValkeyStoreSaveIsOneTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStore(client, "cosmo")
	entry := valkeyEntry()
	payload, err := json.Marshal(entry)
	require.NoError(t, err)

	client.EXPECT().DoMulti(gomock.Any(),
		mock.Match("MULTI"),
		mock.Match("SET", "cosmo:entry:"+entry.ID.String(), string(payload)),
		mock.Match("LPUSH", "cosmo:recent", entry.ID.String()),
		mock.Match("EXEC"),
	).Return([]valkey.ValkeyResult{
		mock.Result(mock.ValkeyString("OK")),
		mock.Result(mock.ValkeyString("QUEUED")),
		mock.Result(mock.ValkeyString("QUEUED")),
		mock.Result(mock.ValkeyArray(mock.ValkeyString("OK"), mock.ValkeyInt64(1))),
	})

	require.NoError(t, store.Save(context.Background(), entry))
}

func TestValkeyStoreSaveSurfacesQueuedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStore(client, "cosmo")

	client.EXPECT().DoMulti(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]valkey.ValkeyResult{
		mock.Result(mock.ValkeyString("OK")),
		mock.Result(mock.ValkeyString("QUEUED")),
		mock.Result(mock.ValkeyString("QUEUED")),
		mock.Result(mock.ValkeyArray(mock.ValkeyString("OK"), mock.ValkeyError("WRONGTYPE index is not a list"))),
	})

	err := store.Save(context.Background(), valkeyEntry())
	require.ErrorContains(t, err, "WRONGTYPE")
}

func TestValkeyStoreGetMissingEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStore(client, "cosmo")
	id := uuid.New()

	client.EXPECT().Do(gomock.Any(), mock.Match("GET", "cosmo:entry:"+id.String())).
		Return(mock.Result(mock.ValkeyNil()))

	_, found, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.False(t, found)
}

func valkeyEntry() missionlog.Entry {
	return missionlog.Entry{
		ID:        uuid.MustParse("6f1c2b1e-5b7a-4a40-9d2e-2f0c1f6a9b01"),
		Zone:      "TERRA PRIME / SECTOR 7",
		Minerals:  []string{"Nitrogen"},
		Report:    "Sector stable.",
		Outcome:   "generated",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
