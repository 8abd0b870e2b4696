package embedder

import (
	"context"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"

	"tweet2sky/internal/domain"
)

// UploadedImage is one media blob already stored on the target platform.
type UploadedImage struct {
	Blob *lexutil.LexBlob
	Alt  string
}

// Descriptor carries at most one embed kind: an image set or a quoted post
// reference. Images take precedence when both would apply.
type Descriptor struct {
	Images []UploadedImage
	Record *domain.PublishResult
}

// AsEmbed renders the descriptor as a feed post embed, or nil when empty.
func (d *Descriptor) AsEmbed() *appbsky.FeedPost_Embed {
	if d == nil {
		return nil
	}
	if len(d.Images) > 0 {
		images := make([]*appbsky.EmbedImages_Image, 0, len(d.Images))
		for _, img := range d.Images {
			images = append(images, &appbsky.EmbedImages_Image{
				Alt:   img.Alt,
				Image: img.Blob,
			})
		}
		return &appbsky.FeedPost_Embed{
			EmbedImages: &appbsky.EmbedImages{
				LexiconTypeID: "app.bsky.embed.images",
				Images:        images,
			},
		}
	}
	if d.Record != nil {
		return &appbsky.FeedPost_Embed{
			EmbedRecord: &appbsky.EmbedRecord{
				LexiconTypeID: "app.bsky.embed.record",
				Record: &comatproto.RepoStrongRef{
					Uri: d.Record.URI,
					Cid: d.Record.CID,
				},
			},
		}
	}
	return nil
}

// ReplyRefs holds the resolved parent and thread-root references of a reply.
type ReplyRefs struct {
	Root   *domain.PublishResult
	Parent *domain.PublishResult
}

// AsReply renders the pair as a feed post reply reference.
func (r *ReplyRefs) AsReply() *appbsky.FeedPost_ReplyRef {
	if r == nil {
		return nil
	}
	return &appbsky.FeedPost_ReplyRef{
		Root:   &comatproto.RepoStrongRef{Uri: r.Root.URI, Cid: r.Root.CID},
		Parent: &comatproto.RepoStrongRef{Uri: r.Parent.URI, Cid: r.Parent.CID},
	}
}

// Resolver determines which quoted or replied-to post a post links to and
// merges uploaded images and record references into one embed descriptor.
type Resolver interface {
	// ResolveQuote inspects the post's URL entities for a quotable post:
	// either a self-quote resolvable to an already-migrated post, or a
	// recognized post link on the target platform. Returns the expanded URL
	// that produced the match so the transformer can elide it.
	ResolveQuote(ctx context.Context, post *domain.Post, index domain.Index) (string, *domain.PublishResult)

	// ResolveReply resolves a reply's parent and root against recorded
	// publish results. Returns nil when the post is not a reply or the
	// parent has no migrated counterpart.
	ResolveReply(post *domain.Post, index domain.Index) *ReplyRefs

	// Merge combines uploaded images and a record reference; images win.
	Merge(images []UploadedImage, record *domain.PublishResult) *Descriptor
}
