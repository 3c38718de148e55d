package cli

import (
	"context"
	"log/slog"

	"github.com/HartBrook/sharpen/internal/config"
	"github.com/HartBrook/sharpen/internal/history"
	"github.com/HartBrook/sharpen/internal/optimize"
	"github.com/HartBrook/sharpen/internal/session"
	"github.com/HartBrook/sharpen/internal/settings"
	"github.com/HartBrook/sharpen/internal/storage"
	"github.com/HartBrook/sharpen/internal/template"
)

// Replaced in tests.
var (
	defaultPaths = config.NewPaths
	newBackend   = func(cfg *config.Config, logger *slog.Logger) session.Backend {
		return optimize.FromConfig(cfg, logger)
	}
)

// app is everything a command needs, loaded from the user's config and
// state directories.
type app struct {
	cfg      *config.Config
	paths    *config.Paths
	kv       storage.KV
	history  *history.Store
	settings *settings.Store
	library  *template.Library
	logger   *slog.Logger
}

func openApp(ctx context.Context) (*app, error) {
	paths := defaultPaths()
	logger := slog.Default()

	if err := config.LoadEnv(paths.EnvFile); err != nil {
		logger.Warn("failed to load .env", "path", paths.EnvFile, "error", err)
	}

	cfg, err := config.LoadFrom(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened state", "driver", cfg.Storage.Driver, "dir", paths.StateDir)

	return &app{
		cfg:      cfg,
		paths:    paths,
		kv:       kv,
		history:  history.Load(ctx, kv, history.WithLogger(logger)),
		settings: settings.Load(ctx, kv, logger),
		library:  template.NewLibrary(cfg.Templates),
		logger:   logger,
	}, nil
}

func (a *app) session(opts ...session.Option) *session.Session {
	opts = append([]session.Option{session.WithLogger(a.logger), session.WithTarget(a.cfg.Target())}, opts...)
	return session.New(newBackend(a.cfg, a.logger), a.history, a.settings, opts...)
}

func (a *app) Close() error {
	return a.kv.Close()
}
