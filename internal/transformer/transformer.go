package transformer

import (
	"context"

	"tweet2sky/internal/domain"
)

// MaxPostLength is the target platform's body length ceiling.
const MaxPostLength = 300

// Transformer rewrites post body text for the target platform: resolved and
// rewritten URLs, self-reference conversion, entity decoding and the length
// contract.
type Transformer interface {
	// Clean produces the final body text. profile is the identifier the
	// migrated account posts under; embeddedURL is the expanded URL already
	// represented as a quote embed, if any; index resolves self-references
	// against already-processed posts.
	Clean(ctx context.Context, post *domain.Post, embeddedURL, profile string, index domain.Index) string
}
