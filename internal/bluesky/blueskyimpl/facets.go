package blueskyimpl

import (
	"context"
	"regexp"
	"strings"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
)

var (
	mentionPattern = regexp.MustCompile(`(?:^|\s)(@[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,})`)
	linkPattern    = regexp.MustCompile(`https?://[^\s]+`)
)

// DetectFacets scans final post text for mentions and links and returns the
// byte-indexed annotations the platform renders as rich text. Mentions whose
// handle cannot be resolved to a DID are left as plain text.
func (b *BlueskyImpl) DetectFacets(ctx context.Context, text string) []*appbsky.RichtextFacet {
	var facets []*appbsky.RichtextFacet

	for _, loc := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		handle := strings.TrimPrefix(text[start:end], "@")

		out, err := comatproto.IdentityResolveHandle(ctx, b.XRPC, handle)
		if err != nil {
			b.Logger.Debug("Unresolvable mention left as text", "handle", handle, "error", err)
			continue
		}

		facets = append(facets, &appbsky.RichtextFacet{
			Index: &appbsky.RichtextFacet_ByteSlice{
				ByteStart: int64(start),
				ByteEnd:   int64(end),
			},
			Features: []*appbsky.RichtextFacet_Features_Elem{
				{RichtextFacet_Mention: &appbsky.RichtextFacet_Mention{Did: out.Did}},
			},
		})
	}

	for _, loc := range linkPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		uri := strings.TrimRight(text[start:end], ".,;:!?)")
		end = start + len(uri)

		facets = append(facets, &appbsky.RichtextFacet{
			Index: &appbsky.RichtextFacet_ByteSlice{
				ByteStart: int64(start),
				ByteEnd:   int64(end),
			},
			Features: []*appbsky.RichtextFacet_Features_Elem{
				{RichtextFacet_Link: &appbsky.RichtextFacet_Link{Uri: uri}},
			},
		})
	}

	return facets
}
