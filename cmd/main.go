package main

import (
	"context"
	"os"

	"go.uber.org/fx"

	"tweet2sky/internal/app"
	"tweet2sky/pkg/logger"
)

func main() {
	log := logger.New(logger.Opts{})

	application := fx.New(
		fx.Logger(log),
		app.Module,
	)

	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Blocks until the run finishes, a scheduled pass is interrupted, or an
	// OS signal arrives.
	sig := <-application.Wait()

	if err := application.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}

	os.Exit(sig.ExitCode)
}
