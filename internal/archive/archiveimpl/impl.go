package archiveimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/fx"

	"tweet2sky/internal/archive"
	"tweet2sky/internal/checkpoint"
	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	pkgerrors "tweet2sky/pkg/errors"
	"tweet2sky/pkg/logger"
)

// createdAtLayout is the timestamp format used by the Twitter export.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

type Opts struct {
	fx.In

	Checkpoint checkpoint.Store
	Config     *config.Config
	Logger     logger.Logger
}

type ArchiveImpl struct {
	Checkpoint checkpoint.Store
	Config     *config.Config
	Logger     logger.Logger
}

func New(opts Opts) *ArchiveImpl {
	return &ArchiveImpl{
		Checkpoint: opts.Checkpoint,
		Config:     opts.Config,
		Logger:     opts.Logger.WithComponent("ArchiveLoader"),
	}
}

var _ archive.Loader = (*ArchiveImpl)(nil)

// wrapper matches the per-item envelope of the export file.
type wrapper struct {
	Tweet json.RawMessage `json:"tweet"`
}

type tweetJSON struct {
	ID          string `json:"id_str"`
	CreatedAt   string `json:"created_at"`
	FullText    string `json:"full_text"`
	InReplyToID string `json:"in_reply_to_status_id_str"`
	Entities    struct {
		URLs []struct {
			URL         string `json:"url"`
			ExpandedURL string `json:"expanded_url"`
		} `json:"urls"`
	} `json:"entities"`
	ExtendedEntities struct {
		Media []struct {
			Type          string `json:"type"`
			URL           string `json:"url"`
			ExpandedURL   string `json:"expanded_url"`
			MediaURLHTTPS string `json:"media_url_https"`
		} `json:"media"`
	} `json:"extended_entities"`
}

func (a *ArchiveImpl) Load(ctx context.Context) ([]*domain.Post, error) {
	results, err := a.Checkpoint.Load()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load prior checkpoint")
	}

	dataDir := filepath.Join(a.Config.Archive.Dir, "data")

	seen := make(map[string]bool)
	var posts []*domain.Post

	for i := 0; ; i++ {
		name := "tweets.js"
		if i > 0 {
			name = fmt.Sprintf("tweets-part%d.js", i)
		}
		fragment := filepath.Join(dataDir, name)

		raw, err := os.ReadFile(fragment)
		if err != nil {
			if i > 0 && os.IsNotExist(err) {
				// Fragment discovery stops at the first gap.
				break
			}
			return nil, fmt.Errorf("%w: %s: %v", pkgerrors.ErrArchiveRead, fragment, err)
		}

		parsed, err := a.parseFragment(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", pkgerrors.ErrArchiveRead, fragment, err)
		}

		added := 0
		for _, p := range parsed {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			if r, ok := results[p.ID]; ok {
				p.Publish = r
			}
			posts = append(posts, p)
			added++
		}
		a.Logger.Info("Parsed archive fragment", "fragment", name, "posts", added)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})

	a.Logger.Info("Archive loaded", "posts", len(posts))
	return posts, nil
}

// parseFragment strips the export's assignment prefix and decodes the post
// array behind it.
func (a *ArchiveImpl) parseFragment(raw []byte) ([]*domain.Post, error) {
	eq := bytes.IndexByte(raw, '=')
	if eq < 0 {
		return nil, fmt.Errorf("missing assignment prefix")
	}
	body := bytes.TrimSpace(raw[eq+1:])

	var wrappers []wrapper
	if err := json.Unmarshal(body, &wrappers); err != nil {
		return nil, fmt.Errorf("decode post array: %w", err)
	}

	posts := make([]*domain.Post, 0, len(wrappers))
	for _, w := range wrappers {
		p, err := a.toPost(w.Tweet)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (a *ArchiveImpl) toPost(raw json.RawMessage) (*domain.Post, error) {
	var t tweetJSON
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	if t.ID == "" {
		return nil, fmt.Errorf("post without id")
	}

	createdAt, err := time.Parse(createdAtLayout, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("post %s: bad created_at %q: %w", t.ID, t.CreatedAt, err)
	}

	post := &domain.Post{
		ID:          t.ID,
		CreatedAt:   createdAt,
		FullText:    t.FullText,
		InReplyToID: t.InReplyToID,
		Raw:         raw,
	}

	for _, u := range t.Entities.URLs {
		post.URLs = append(post.URLs, domain.URLEntity{Short: u.URL, Expanded: u.ExpandedURL})
	}

	mediaDir := filepath.Join(a.Config.Archive.Dir, "data", "tweets_media")
	for _, m := range t.ExtendedEntities.Media {
		base := path.Base(m.MediaURLHTTPS)
		item := domain.MediaItem{
			Type:     domain.MediaType(m.Type),
			Source:   filepath.Join(mediaDir, t.ID+"-"+base),
			MimeType: mimeForFile(base),
		}
		post.Media = append(post.Media, item)

		// Media shortlinks expand to the post's photo/video permalink; the
		// transformer needs that mapping to elide them from body text.
		if m.URL != "" && m.ExpandedURL != "" {
			post.URLs = append(post.URLs, domain.URLEntity{Short: m.URL, Expanded: m.ExpandedURL})
		}
	}

	return post, nil
}

func mimeForFile(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
