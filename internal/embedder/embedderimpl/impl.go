package embedderimpl

import (
	"context"

	"go.uber.org/fx"

	"tweet2sky/internal/bluesky"
	"tweet2sky/internal/domain"
	"tweet2sky/internal/embedder"
	"tweet2sky/internal/selflink"
	pkgerrors "tweet2sky/pkg/errors"
	"tweet2sky/pkg/logger"
)

type Opts struct {
	fx.In

	Bluesky    bluesky.Client
	Recognizer *selflink.Recognizer
	Logger     logger.Logger
}

type EmbedderImpl struct {
	Bluesky    bluesky.Client
	Recognizer *selflink.Recognizer
	Logger     logger.Logger
}

func New(opts Opts) *EmbedderImpl {
	return &EmbedderImpl{
		Bluesky:    opts.Bluesky,
		Recognizer: opts.Recognizer,
		Logger:     opts.Logger.WithComponent("EmbedResolver"),
	}
}

var _ embedder.Resolver = (*EmbedderImpl)(nil)

func (e *EmbedderImpl) ResolveQuote(ctx context.Context, post *domain.Post, index domain.Index) (string, *domain.PublishResult) {
	for _, u := range post.URLs {
		if u.Expanded == "" || e.Recognizer.IsMediaLink(u.Expanded) {
			continue
		}

		if id, ok := e.Recognizer.SelfStatusID(u.Expanded); ok {
			prior, found := index[id]
			if !found || !prior.Migrated() {
				e.Logger.Warn("Self-quote of unmigrated post, leaving as text link",
					"post", post.ID,
					"target", id,
					"error", pkgerrors.ErrOrderingViolation,
				)
				continue
			}
			return u.Expanded, prior.Publish
		}

		if ident, rkey, ok := e.Recognizer.TargetPostRef(u.Expanded); ok {
			ref, err := e.Bluesky.GetPostRef(ctx, ident, rkey)
			if err != nil {
				e.Logger.Warn("Failed to fetch quoted post, leaving as text link",
					"post", post.ID,
					"url", u.Expanded,
					"error", err,
				)
				continue
			}
			return u.Expanded, ref
		}
	}
	return "", nil
}

func (e *EmbedderImpl) ResolveReply(post *domain.Post, index domain.Index) *embedder.ReplyRefs {
	if !post.IsReply() {
		return nil
	}

	parent, found := index[post.InReplyToID]
	if !found || !parent.Migrated() {
		e.Logger.Warn("Reply parent has no migrated counterpart, posting without reply reference",
			"post", post.ID,
			"parent", post.InReplyToID,
			"error", pkgerrors.ErrOrderingViolation,
		)
		return nil
	}

	// The thread root is the topmost migrated ancestor.
	root := parent
	for root.InReplyToID != "" {
		next, ok := index[root.InReplyToID]
		if !ok || !next.Migrated() {
			break
		}
		root = next
	}

	return &embedder.ReplyRefs{
		Root:   root.Publish,
		Parent: parent.Publish,
	}
}

func (e *EmbedderImpl) Merge(images []embedder.UploadedImage, record *domain.PublishResult) *embedder.Descriptor {
	if len(images) == 0 && record == nil {
		return nil
	}
	if len(images) > 0 {
		// Image embeds take precedence over record embeds.
		return &embedder.Descriptor{Images: images}
	}
	return &embedder.Descriptor{Record: record}
}
