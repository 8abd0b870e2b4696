package app

import (
	"context"

	"go.uber.org/fx"

	"tweet2sky/internal/archive"
	"tweet2sky/internal/archive/archiveimpl"
	"tweet2sky/internal/bluesky"
	"tweet2sky/internal/bluesky/blueskyimpl"
	"tweet2sky/internal/checkpoint"
	"tweet2sky/internal/checkpoint/checkpointimpl"
	"tweet2sky/internal/config"
	"tweet2sky/internal/embedder"
	"tweet2sky/internal/embedder/embedderimpl"
	"tweet2sky/internal/media"
	"tweet2sky/internal/migrator"
	"tweet2sky/internal/migrator/migratorimpl"
	"tweet2sky/internal/resolver"
	"tweet2sky/internal/selflink"
	"tweet2sky/internal/transformer"
	"tweet2sky/internal/transformer/transformerimpl"
	"tweet2sky/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		selflink.New,
	),
	fx.Provide(
		fx.Annotate(
			blueskyimpl.New,
			fx.As(new(bluesky.Client)),
		), fx.Annotate(
			checkpointimpl.New,
			fx.As(new(checkpoint.Store)),
		), fx.Annotate(
			archiveimpl.New,
			fx.As(new(archive.Loader)),
		), fx.Annotate(
			resolver.New,
			fx.As(new(resolver.Resolver)),
		), fx.Annotate(
			transformerimpl.New,
			fx.As(new(transformer.Transformer)),
		), fx.Annotate(
			embedderimpl.New,
			fx.As(new(embedder.Resolver)),
		), fx.Annotate(
			media.New,
			fx.As(new(media.Normalizer)),
		), fx.Annotate(
			migratorimpl.New,
			fx.As(new(migrator.Client)),
		),
	),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, log logger.Logger, cfg *config.Config, m migrator.Client) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx := context.Background()

			// A configured schedule keeps the process alive between passes;
			// otherwise one pass runs and the process exits.
			if cfg.Import.Schedule != "" {
				return m.ScheduleRuns(ctx)
			}

			go func() {
				if err := m.Run(ctx); err != nil {
					log.Error("Migration failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()

			return nil
		},
	})
}
