package archive

import (
	"context"

	"tweet2sky/internal/domain"
)

// Loader reads the source export and produces the ordered post collection,
// with publish results from a prior checkpoint already merged in.
type Loader interface {
	// Load parses every available archive fragment, merges the prior
	// checkpoint, deduplicates and sorts by creation time ascending.
	Load(ctx context.Context) ([]*domain.Post, error)
}
