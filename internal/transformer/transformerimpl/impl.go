package transformerimpl

import (
	"context"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/fx"

	"tweet2sky/internal/domain"
	"tweet2sky/internal/resolver"
	"tweet2sky/internal/selflink"
	"tweet2sky/internal/transformer"
	pkgerrors "tweet2sky/pkg/errors"
	"tweet2sky/pkg/logger"
)

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
	spacePattern = regexp.MustCompile(`[ \t]{2,}`)
)

type Opts struct {
	fx.In

	Resolver   resolver.Resolver
	Recognizer *selflink.Recognizer
	Logger     logger.Logger
}

type TransformerImpl struct {
	Resolver   resolver.Resolver
	Recognizer *selflink.Recognizer
	Logger     logger.Logger
}

func New(opts Opts) *TransformerImpl {
	return &TransformerImpl{
		Resolver:   opts.Resolver,
		Recognizer: opts.Recognizer,
		Logger:     opts.Logger.WithComponent("TextTransformer"),
	}
}

var _ transformer.Transformer = (*TransformerImpl)(nil)

func (t *TransformerImpl) Clean(ctx context.Context, post *domain.Post, embeddedURL, profile string, index domain.Index) string {
	text := post.FullText
	for _, e := range t.rewrites(ctx, post, embeddedURL, profile, index) {
		text = strings.Replace(text, e.Literal, e.Replacement, 1)
	}

	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	text = html.UnescapeString(text)

	if utf8.RuneCountInString(text) <= transformer.MaxPostLength {
		return text
	}

	// Transformed text blew the ceiling; fall back to the untouched body.
	raw := post.FullText
	if utf8.RuneCountInString(raw) <= transformer.MaxPostLength {
		t.Logger.Warn("Transformed text too long, falling back to raw body", "post", post.ID)
		return raw
	}

	t.Logger.Warn("Body text exceeds ceiling, truncating", "post", post.ID)
	runes := []rune(raw)
	return string(runes[:transformer.MaxPostLength-1]) + "…"
}

// rewrites scans the body left to right for URL-shaped substrings and decides
// what each becomes.
func (t *TransformerImpl) rewrites(ctx context.Context, post *domain.Post, embeddedURL, profile string, index domain.Index) []domain.RewriteEntry {
	var entries []domain.RewriteEntry

	for _, found := range urlPattern.FindAllString(post.FullText, -1) {
		literal := strings.TrimRight(found, ".,;:!?)")
		expanded := t.expand(ctx, post, literal)

		// Links already carried by an embed are elided from text.
		if t.Recognizer.IsMediaLink(expanded) && len(post.Photos()) > 0 {
			entries = append(entries, domain.RewriteEntry{Literal: literal})
			continue
		}
		if embeddedURL != "" && expanded == embeddedURL {
			entries = append(entries, domain.RewriteEntry{Literal: literal})
			continue
		}

		replacement := expanded
		if id, ok := t.Recognizer.SelfStatusID(expanded); ok && !t.Recognizer.IsMediaLink(expanded) {
			if prior, found := index[id]; found && prior.Migrated() {
				replacement = prior.Publish.WebURL(profile)
			} else {
				t.Logger.Warn("Self-reference to unmigrated post, keeping expanded URL",
					"post", post.ID,
					"target", id,
					"error", pkgerrors.ErrOrderingViolation,
				)
			}
		}

		entries = append(entries, domain.RewriteEntry{Literal: literal, Replacement: replacement})
	}

	return entries
}

// expand prefers the author-declared mapping over live resolution so output
// matches the archive's own record of expansion when available.
func (t *TransformerImpl) expand(ctx context.Context, post *domain.Post, literal string) string {
	for _, u := range post.URLs {
		if u.Short == literal {
			return u.Expanded
		}
	}
	return t.Resolver.Resolve(ctx, literal)
}
