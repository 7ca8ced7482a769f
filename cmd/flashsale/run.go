package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String("service", "flashsale"))

	if err := app.Start(ctx); err != nil {
		log.Error("application start failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		log.Error("application stop failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
