package blueskyimpl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	"go.uber.org/fx"

	"tweet2sky/internal/bluesky"
	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	pkgerrors "tweet2sky/pkg/errors"
	"tweet2sky/pkg/logger"
	"tweet2sky/pkg/retry"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type BlueskyImpl struct {
	XRPC   *xrpc.Client
	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) *BlueskyImpl {
	return &BlueskyImpl{
		XRPC: &xrpc.Client{
			Host:   opts.Config.Bluesky.Host,
			Client: &http.Client{Timeout: 5 * time.Minute},
		},
		Config: opts.Config,
		Logger: opts.Logger.WithComponent("BlueskyClient"),
	}
}

var _ bluesky.Client = (*BlueskyImpl)(nil)

// Login creates a session, retrying transient failures with backoff. The
// session token is pinned on the shared xrpc client.
func (b *BlueskyImpl) Login(ctx context.Context) (*bluesky.Session, error) {
	var out *comatproto.ServerCreateSession_Output

	err := retry.Do(ctx, b.Logger, "bluesky login", func() error {
		var err error
		out, err = comatproto.ServerCreateSession(ctx, b.XRPC, &comatproto.ServerCreateSession_Input{
			Identifier: b.Config.Bluesky.Identifier,
			Password:   b.Config.Bluesky.Password,
		})
		return err
	}, retry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	b.XRPC.Auth = &xrpc.AuthInfo{
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Handle:     out.Handle,
		Did:        out.Did,
	}

	b.Logger.Info("Logged in", "handle", out.Handle, "did", out.Did)
	return &bluesky.Session{Did: out.Did, Handle: out.Handle}, nil
}

// UploadBlob stores one media payload. Not retried: a failed upload is fatal
// to the run.
func (b *BlueskyImpl) UploadBlob(ctx context.Context, blob []byte) (*lexutil.LexBlob, error) {
	out, err := comatproto.RepoUploadBlob(ctx, b.XRPC, bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: upload blob: %v", pkgerrors.ErrSubmission, err)
	}
	return out.Blob, nil
}

// CreatePost submits a feed post record under the authenticated repo.
func (b *BlueskyImpl) CreatePost(ctx context.Context, post *appbsky.FeedPost) (*domain.PublishResult, error) {
	if b.XRPC.Auth == nil {
		return nil, fmt.Errorf("%w: not logged in", pkgerrors.ErrSubmission)
	}
	post.LexiconTypeID = "app.bsky.feed.post"

	out, err := comatproto.RepoCreateRecord(ctx, b.XRPC, &comatproto.RepoCreateRecord_Input{
		Collection: "app.bsky.feed.post",
		Repo:       b.XRPC.Auth.Did,
		Record:     &lexutil.LexiconTypeDecoder{Val: post},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create record: %v", pkgerrors.ErrSubmission, err)
	}

	return &domain.PublishResult{URI: out.Uri, CID: out.Cid}, nil
}

// GetPostRef looks up an existing post on the target platform so it can be
// quoted. ident may be a handle or a DID.
func (b *BlueskyImpl) GetPostRef(ctx context.Context, ident, rkey string) (*domain.PublishResult, error) {
	did := ident
	if !strings.HasPrefix(ident, "did:") {
		out, err := comatproto.IdentityResolveHandle(ctx, b.XRPC, ident)
		if err != nil {
			return nil, fmt.Errorf("resolve handle %q: %w", ident, err)
		}
		did = out.Did
	}

	out, err := comatproto.RepoGetRecord(ctx, b.XRPC, "", "app.bsky.feed.post", did, rkey)
	if err != nil {
		return nil, fmt.Errorf("get record %s/%s: %w", did, rkey, err)
	}

	ref := &domain.PublishResult{URI: out.Uri}
	if out.Cid != nil {
		ref.CID = *out.Cid
	}
	return ref, nil
}
