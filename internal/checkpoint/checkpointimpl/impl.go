package checkpointimpl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"tweet2sky/internal/checkpoint"
	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	"tweet2sky/pkg/logger"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type FileStore struct {
	Path   string
	Logger logger.Logger
}

func New(opts Opts) *FileStore {
	return &FileStore{
		Path:   opts.Config.Archive.CheckpointPath,
		Logger: opts.Logger.WithComponent("CheckpointStore"),
	}
}

var _ checkpoint.Store = (*FileStore)(nil)

// entry is one element of the checkpoint file. The tweet object is carried
// verbatim from the archive so a checkpoint round-trips byte-for-byte.
type entry struct {
	Tweet json.RawMessage `json:"tweet"`
	Bsky  *resultJSON     `json:"bsky,omitempty"`
}

type resultJSON struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// tweetID is the minimal projection needed to key the merge.
type tweetID struct {
	ID string `json:"id_str"`
}

func (s *FileStore) Save(posts []*domain.Post) error {
	entries := make([]entry, 0, len(posts))
	for _, p := range posts {
		e := entry{Tweet: p.Raw}
		if p.Publish != nil {
			e.Bsky = &resultJSON{URI: p.Publish.URI, CID: p.Publish.CID}
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	// Write to a sibling temp file first so a crash mid-write cannot
	// truncate the previous checkpoint.
	tmp := s.Path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}

	s.Logger.Info("Checkpoint written", "path", s.Path, "posts", len(entries))
	return nil
}

func (s *FileStore) Load() (map[string]*domain.PublishResult, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*domain.PublishResult{}, nil
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}

	results := make(map[string]*domain.PublishResult, len(entries))
	for _, e := range entries {
		if e.Bsky == nil {
			continue
		}
		var id tweetID
		if err := json.Unmarshal(e.Tweet, &id); err != nil || id.ID == "" {
			continue
		}
		results[id.ID] = &domain.PublishResult{URI: e.Bsky.URI, CID: e.Bsky.CID}
	}

	s.Logger.Info("Checkpoint loaded", "path", s.Path, "migrated", len(results))
	return results, nil
}
