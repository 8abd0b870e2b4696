package checkpointimpl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	"tweet2sky/pkg/logger"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	cfg := &config.Config{}
	cfg.Archive.CheckpointPath = filepath.Join(t.TempDir(), "bluesky-import-log.json")
	return New(Opts{Config: cfg, Logger: logger.NewNop()})
}

func post(id string, migrated bool) *domain.Post {
	p := &domain.Post{
		ID:        id,
		CreatedAt: time.Date(2018, 10, 10, 0, 0, 0, 0, time.UTC),
		Raw:       json.RawMessage(`{"id_str": "` + id + `", "full_text": "body ` + id + `"}`),
	}
	if migrated {
		p.Publish = &domain.PublishResult{URI: "at://did:plc:x/app.bsky.feed.post/rk" + id, CID: "cid" + id}
	}
	return p
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save([]*domain.Post{
		post("1", true),
		post("2", false),
		post("3", true),
	}))

	results, err := store.Load()
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, "cid1", results["1"].CID)
	assert.NotContains(t, results, "2")
	assert.Equal(t, "at://did:plc:x/app.bsky.feed.post/rk3", results["3"].URI)
}

func TestSaveKeepsUnmigratedPosts(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save([]*domain.Post{post("1", false)}))

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	var entries []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "tweet")
	assert.NotContains(t, entries[0], "bsky")
}

func TestSaveIsStableAcrossRuns(t *testing.T) {
	store := newStore(t)
	posts := []*domain.Post{post("1", true), post("2", false)}

	require.NoError(t, store.Save(posts))
	first, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	require.NoError(t, store.Save(posts))
	second, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadMissingFileYieldsEmptyMap(t *testing.T) {
	store := newStore(t)

	results, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, results)
}
