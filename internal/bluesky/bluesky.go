package bluesky

import (
	"context"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"

	"tweet2sky/internal/domain"
)

// Session identifies the authenticated account on the target platform.
type Session struct {
	Did    string
	Handle string
}

// Client is the narrow surface of the target platform this pipeline uses.
// All calls block until complete and are assumed fallible.
//
//go:generate go run go.uber.org/mock/mockgen -source=bluesky.go -destination=mocks/mock.go
type Client interface {
	// Login authenticates and pins the session used by all later calls.
	Login(ctx context.Context) (*Session, error)

	// UploadBlob stores one media payload and returns its blob reference.
	UploadBlob(ctx context.Context, b []byte) (*lexutil.LexBlob, error)

	// CreatePost submits a feed post record and returns its URI and CID.
	CreatePost(ctx context.Context, post *appbsky.FeedPost) (*domain.PublishResult, error)

	// GetPostRef fetches the strong reference of an existing target-platform
	// post identified by profile and record key, for quote embeds.
	GetPostRef(ctx context.Context, ident, rkey string) (*domain.PublishResult, error)

	// DetectFacets finds mention and link annotations in final post text.
	DetectFacets(ctx context.Context, text string) []*appbsky.RichtextFacet
}
