package archiveimpl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	pkgerrors "tweet2sky/pkg/errors"
	"tweet2sky/pkg/logger"
)

type stubStore struct {
	results map[string]*domain.PublishResult
	saved   [][]*domain.Post
}

func (s *stubStore) Save(posts []*domain.Post) error {
	s.saved = append(s.saved, posts)
	return nil
}

func (s *stubStore) Load() (map[string]*domain.PublishResult, error) {
	if s.results == nil {
		return map[string]*domain.PublishResult{}, nil
	}
	return s.results, nil
}

func writeFragment(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", name), []byte(body), 0o644))
}

func newLoader(dir string, store *stubStore) *ArchiveImpl {
	cfg := &config.Config{}
	cfg.Archive.Dir = dir
	return New(Opts{
		Checkpoint: store,
		Config:     cfg,
		Logger:     logger.NewNop(),
	})
}

const fragmentOne = `window.YTD.tweets.part0 = [
  {"tweet": {"id_str": "2", "created_at": "Wed Oct 10 20:19:24 +0000 2018", "full_text": "second"}},
  {"tweet": {"id_str": "1", "created_at": "Tue Oct 09 08:00:00 +0000 2018", "full_text": "first"}}
]`

const fragmentTwo = `window.YTD.tweets.part1 = [
  {"tweet": {"id_str": "3", "created_at": "Thu Oct 11 12:00:00 +0000 2018", "full_text": "third"}},
  {"tweet": {"id_str": "1", "created_at": "Tue Oct 09 08:00:00 +0000 2018", "full_text": "first duplicate"}}
]`

func TestLoadSortsAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", fragmentOne)
	writeFragment(t, dir, "tweets-part1.js", fragmentTwo)

	posts, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "2", posts[1].ID)
	assert.Equal(t, "3", posts[2].ID)
	assert.Equal(t, "first", posts[0].FullText, "first occurrence wins on duplicate id")

	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.Before(posts[i-1].CreatedAt))
	}
}

func TestLoadStopsAtFirstFragmentGap(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", fragmentOne)
	// tweets-part1.js is missing; part2 must never be probed past the gap.
	writeFragment(t, dir, "tweets-part2.js", fragmentTwo)

	posts, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestLoadMissingFirstFragmentIsArchiveReadError(t *testing.T) {
	dir := t.TempDir()

	_, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsArchiveRead(err))
}

func TestLoadMalformedFragmentIsArchiveReadError(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", `window.YTD.tweets.part0 = [{"tweet": {`)

	_, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsArchiveRead(err))
}

func TestLoadMissingAssignmentPrefixIsArchiveReadError(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", `[{"tweet": {"id_str": "1"}}]`)

	_, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsArchiveRead(err))
}

func TestLoadMergesCheckpointResults(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", fragmentOne)

	store := &stubStore{results: map[string]*domain.PublishResult{
		"1": {URI: "at://did:plc:xyz/app.bsky.feed.post/3k1", CID: "bafy1"},
	}}

	posts, err := newLoader(dir, store).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 2)
	require.NotNil(t, posts[0].Publish)
	assert.Equal(t, "bafy1", posts[0].Publish.CID)
	assert.Nil(t, posts[1].Publish)
}

func TestLoadParsesEntitiesAndMedia(t *testing.T) {
	dir := t.TempDir()
	writeFragment(t, dir, "tweets.js", `window.YTD.tweets.part0 = [
  {"tweet": {
    "id_str": "10",
    "created_at": "Wed Oct 10 20:19:24 +0000 2018",
    "full_text": "hello https://t.co/a https://t.co/b",
    "in_reply_to_status_id_str": "9",
    "entities": {"urls": [{"url": "https://t.co/a", "expanded_url": "https://example.com/"}]},
    "extended_entities": {"media": [
      {"type": "photo", "url": "https://t.co/b", "expanded_url": "https://twitter.com/u/status/10/photo/1", "media_url_https": "https://pbs.twimg.com/media/pic.jpg"}
    ]}
  }}
]`)

	posts, err := newLoader(dir, &stubStore{}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.True(t, p.IsReply())
	assert.Equal(t, "9", p.InReplyToID)

	require.Len(t, p.Media, 1)
	assert.Equal(t, domain.MediaPhoto, p.Media[0].Type)
	assert.Equal(t, filepath.Join(dir, "data", "tweets_media", "10-pic.jpg"), p.Media[0].Source)
	assert.Equal(t, "image/jpeg", p.Media[0].MimeType)

	require.Len(t, p.URLs, 2)
	assert.Equal(t, "https://example.com/", p.URLs[0].Expanded)
	assert.Equal(t, "https://twitter.com/u/status/10/photo/1", p.URLs[1].Expanded)
}
