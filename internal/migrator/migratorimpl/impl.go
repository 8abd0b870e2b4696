package migratorimpl

import (
	"context"
	"fmt"
	"os"
	"time"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"

	"tweet2sky/internal/archive"
	"tweet2sky/internal/bluesky"
	"tweet2sky/internal/checkpoint"
	"tweet2sky/internal/config"
	"tweet2sky/internal/domain"
	"tweet2sky/internal/embedder"
	"tweet2sky/internal/media"
	"tweet2sky/internal/migrator"
	"tweet2sky/internal/ratelimit"
	"tweet2sky/internal/transformer"
	"tweet2sky/pkg/formatter"
	"tweet2sky/pkg/logger"
)

const (
	// postInterval is the fixed delay awaited after each submission.
	postInterval = 2500 * time.Millisecond

	// resolveMargin is the overhead added per post in the simulate-mode time
	// estimate, covering URL resolution calls of a real run.
	resolveMargin = time.Second

	// maxImages is the target platform's per-post image limit.
	maxImages = 4
)

type Opts struct {
	fx.In

	Archive     archive.Loader
	Checkpoint  checkpoint.Store
	Bluesky     bluesky.Client
	Transformer transformer.Transformer
	Embedder    embedder.Resolver
	Media       media.Normalizer
	Config      *config.Config
	Logger      logger.Logger
}

type MigratorImpl struct {
	Archive     archive.Loader
	Checkpoint  checkpoint.Store
	Bluesky     bluesky.Client
	Transformer transformer.Transformer
	Embedder    embedder.Resolver
	Media       media.Normalizer
	Config      *config.Config
	Logger      logger.Logger

	// Interval between submissions, overridable in tests.
	Interval time.Duration

	Scheduler gocron.Scheduler
}

func New(opts Opts) *MigratorImpl {
	return &MigratorImpl{
		Archive:     opts.Archive,
		Checkpoint:  opts.Checkpoint,
		Bluesky:     opts.Bluesky,
		Transformer: opts.Transformer,
		Embedder:    opts.Embedder,
		Media:       opts.Media,
		Config:      opts.Config,
		Logger:      opts.Logger.WithComponent("Migrator"),
		Interval:    postInterval,
	}
}

var _ migrator.Client = (*MigratorImpl)(nil)

// Run executes one migration pass. Posts are processed strictly in ascending
// creation-time order; the checkpoint is rewritten on every exit path once
// the archive has been loaded.
func (m *MigratorImpl) Run(ctx context.Context) (err error) {
	posts, err := m.Archive.Load(ctx)
	if err != nil {
		// Nothing was processed, there is nothing to checkpoint.
		return err
	}

	defer func() {
		if serr := m.Checkpoint.Save(posts); serr != nil {
			m.Logger.Error("Checkpoint write failed", "error", serr)
			if err == nil {
				err = serr
			}
		}
	}()

	minDate, maxDate, err := m.Config.DateWindow()
	if err != nil {
		return err
	}

	simulate := m.Config.Import.Simulate
	profile := m.Config.Bluesky.Identifier
	if !simulate {
		session, lerr := m.Bluesky.Login(ctx)
		if lerr != nil {
			return lerr
		}
		profile = session.Handle
	}

	index := domain.NewIndex(posts)
	pacer := ratelimit.NewIntervalPacer(m.Interval)

	imported := 0
loop:
	for _, post := range posts {
		verdict, reason := m.filter(post, minDate, maxDate)
		switch verdict {
		case verdictSkip:
			m.Logger.Info("Discarded post", "post", post.ID, "reason", reason)
			continue
		case verdictHalt:
			// The collection is time-ordered, so everything after this post
			// is out of the window too.
			m.Logger.Info("Reached end of date window, stopping", "post", post.ID)
			break loop
		}

		if !simulate {
			if werr := pacer.Wait(ctx); werr != nil {
				return werr
			}
		}

		if serr := m.submit(ctx, post, index, profile); serr != nil {
			return serr
		}
		imported++
	}

	if simulate {
		estimate := time.Duration(imported) * (postInterval + resolveMargin)
		m.Logger.Info("Simulation complete",
			"would_import", formatter.FormatNumber(imported),
			"estimated_runtime", formatter.FormatDuration(estimate),
		)
		return nil
	}

	m.Logger.Info("Import complete", "imported", formatter.FormatNumber(imported))
	return nil
}

type verdict int

const (
	verdictInclude verdict = iota
	verdictSkip
	verdictHalt
)

// filter applies the pre-submission discard rules in order. A skip verdict
// moves to the next post; a halt verdict ends the run.
func (m *MigratorImpl) filter(post *domain.Post, minDate, maxDate time.Time) (verdict, string) {
	if post.Migrated() {
		return verdictSkip, "already migrated"
	}
	if post.IsReply() && !m.Config.Import.Replies {
		return verdictSkip, "reply import disabled"
	}
	if post.StartsWithMention() {
		return verdictSkip, "starts with mention or repost marker"
	}
	if post.HasVideo() {
		return verdictSkip, "contains unsupported video media"
	}
	if !minDate.IsZero() && post.CreatedAt.Before(minDate) {
		return verdictSkip, "before date window"
	}
	if !maxDate.IsZero() && post.CreatedAt.After(maxDate) {
		return verdictHalt, "after date window"
	}
	return verdictInclude, ""
}

// submit transforms and publishes a single post, attaching the publish
// result on success. In simulate mode all transformation runs but nothing is
// uploaded or submitted.
func (m *MigratorImpl) submit(ctx context.Context, post *domain.Post, index domain.Index, profile string) error {
	m.Logger.Info("Processing post", "post", post.ID, "created_at", post.CreatedAt.Format(time.RFC3339))

	images, err := m.uploadImages(ctx, post)
	if err != nil {
		return err
	}

	embeddedURL, record := m.Embedder.ResolveQuote(ctx, post, index)
	text := m.Transformer.Clean(ctx, post, embeddedURL, profile, index)

	var reply *embedder.ReplyRefs
	if m.Config.Import.Replies {
		reply = m.Embedder.ResolveReply(post, index)
	}

	feedPost := &appbsky.FeedPost{
		Text:      text,
		CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
		Embed:     m.Embedder.Merge(images, record).AsEmbed(),
		Reply:     reply.AsReply(),
	}

	if m.Config.Import.Simulate {
		m.Logger.Info("Simulated post", "post", post.ID, "text", text)
		return nil
	}

	feedPost.Facets = m.Bluesky.DetectFacets(ctx, text)

	result, err := m.Bluesky.CreatePost(ctx, feedPost)
	if err != nil {
		return fmt.Errorf("post %s: %w", post.ID, err)
	}

	post.Publish = result
	m.Logger.Info("Posted", "post", post.ID, "url", result.WebURL(profile))
	return nil
}

// uploadImages normalizes and uploads the qualifying photos, one call per
// image, in original order. Unreadable or undecodable items are skipped with
// a warning; a failed upload is fatal.
func (m *MigratorImpl) uploadImages(ctx context.Context, post *domain.Post) ([]embedder.UploadedImage, error) {
	photos := post.Photos()
	if len(photos) > maxImages {
		m.Logger.Warn("Too many images, excess discarded",
			"post", post.ID,
			"count", len(photos),
			"kept", maxImages,
		)
		photos = photos[:maxImages]
	}

	if m.Config.Import.Simulate {
		// Transformation needs to know images exist so elision rules apply,
		// but nothing is uploaded. Photos() already told the transformer.
		return nil, nil
	}

	var images []embedder.UploadedImage
	for _, ph := range photos {
		b, err := os.ReadFile(ph.Source)
		if err != nil {
			m.Logger.Warn("Unreadable media item skipped", "post", post.ID, "file", ph.Source, "error", err)
			continue
		}

		normalized, err := m.Media.Normalize(b, media.MaxBlobSize)
		if err != nil {
			m.Logger.Warn("Media item could not be normalized, skipped", "post", post.ID, "file", ph.Source, "error", err)
			continue
		}

		blob, err := m.Bluesky.UploadBlob(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", post.ID, err)
		}
		images = append(images, embedder.UploadedImage{Blob: blob})
	}
	return images, nil
}
