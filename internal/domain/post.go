package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// MediaType is the media classification carried by the source archive.
type MediaType string

const (
	MediaPhoto       MediaType = "photo"
	MediaVideo       MediaType = "video"
	MediaAnimatedGif MediaType = "animated_gif"
)

// MediaItem is one attachment of a source post.
type MediaItem struct {
	Type     MediaType
	Source   string // path of the media file inside the archive
	MimeType string
}

// URLEntity pairs a shortened link found in the post body with the expansion
// the source platform recorded for it.
type URLEntity struct {
	Short    string
	Expanded string
}

// PublishResult is attached to a post once it has been submitted to the
// target platform. Its presence is the sole idempotence signal: a post
// carrying one is never resubmitted.
type PublishResult struct {
	URI string
	CID string
}

// Rkey extracts the record key from the at:// URI.
func (r *PublishResult) Rkey() string {
	parts := strings.Split(r.URI, "/")
	return parts[len(parts)-1]
}

// WebURL renders the public link of the migrated post under the given
// profile identifier.
func (r *PublishResult) WebURL(profile string) string {
	return "https://bsky.app/profile/" + profile + "/post/" + r.Rkey()
}

// RewriteEntry pairs a literal substring of the body text with what it must
// become in final text. An empty Replacement elides the literal because the
// link is already represented by an embed.
type RewriteEntry struct {
	Literal     string
	Replacement string
}

// Post is one exported item. Everything except Publish is read-only after
// loading.
type Post struct {
	ID          string
	CreatedAt   time.Time
	FullText    string
	InReplyToID string
	Media       []MediaItem
	URLs        []URLEntity

	// Raw is the original exported object, kept verbatim so the checkpoint
	// can write back exactly what the archive contained.
	Raw json.RawMessage

	Publish *PublishResult
}

// IsReply reports whether the post replies to another post.
func (p *Post) IsReply() bool {
	return p.InReplyToID != ""
}

// Migrated reports whether the post already carries a publish result.
func (p *Post) Migrated() bool {
	return p.Publish != nil
}

// HasVideo reports whether any attachment disqualifies the post downstream.
func (p *Post) HasVideo() bool {
	for _, m := range p.Media {
		if m.Type == MediaVideo || m.Type == MediaAnimatedGif {
			return true
		}
	}
	return false
}

// Photos returns the photo attachments in original order.
func (p *Post) Photos() []MediaItem {
	var photos []MediaItem
	for _, m := range p.Media {
		if m.Type == MediaPhoto {
			photos = append(photos, m)
		}
	}
	return photos
}

// StartsWithMention reports whether the body begins with an at-mention or a
// repost marker.
func (p *Post) StartsWithMention() bool {
	return strings.HasPrefix(p.FullText, "@") || strings.HasPrefix(p.FullText, "RT ")
}

// Index is a post-ID keyed lookup over an already-loaded collection, used to
// resolve cross-references against earlier posts.
type Index map[string]*Post

// NewIndex builds an Index from a post collection.
func NewIndex(posts []*Post) Index {
	idx := make(Index, len(posts))
	for _, p := range posts {
		idx[p.ID] = p
	}
	return idx
}
