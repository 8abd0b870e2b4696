package checkpoint

import (
	"tweet2sky/internal/domain"
)

// Store persists the full post collection annotated with publish results.
// The saved file is the single source of resumability: it is rewritten after
// every run whether the run succeeded or failed.
type Store interface {
	// Save serializes every known post, migrated or not.
	Save(posts []*domain.Post) error

	// Load returns the publish results recorded by a previous run, keyed by
	// post ID. A missing checkpoint file yields an empty map.
	Load() (map[string]*domain.PublishResult, error)
}
