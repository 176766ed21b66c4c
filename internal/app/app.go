// Package app assembles the document engine and its collaborators from the
// configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/lvillar/immodoc/assets"
	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/export"
	"github.com/lvillar/immodoc/internal/config"
	"github.com/lvillar/immodoc/settings"
)

// App holds the wired components. Close releases them.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Templates lists and serves local templates.
	Templates doctpl.Catalog
	// Settings is nil when no settings database is configured.
	Settings *settings.SQLStore
	Engine   *documents.Engine

	db      *sql.DB
	closers []func()
}

// New wires an App. The template watcher, when enabled, lives until ctx is
// done or Close is called.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	store, err := a.templates(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	loader, err := a.settings(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	s3c, err := a.s3Client(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	exporter, err := a.exporter(s3c)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetchOpts := []assets.Option{
		assets.WithHTTPClient(&http.Client{Timeout: cfg.Assets.Timeout}),
		assets.WithMaxSize(cfg.Assets.MaxSize),
	}
	if cfg.Assets.S3 && s3c != nil {
		fetchOpts = append(fetchOpts, assets.WithS3(s3c))
	}

	opts := []documents.Option{
		documents.WithTemplates(store),
		documents.WithSettings(settings.NewFallback(loader, logger.Named("settings"))),
		documents.WithAssets(assets.NewFetcher(fetchOpts...)),
		documents.WithLogger(logger.Named("documents")),
	}
	if exporter != nil {
		opts = append(opts, documents.WithExporter(exporter))
	}
	a.Engine = documents.NewEngine(opts...)
	return a, nil
}

// templates builds the local catalog and the store used for generation.
func (a *App) templates(ctx context.Context) (doctpl.Store, error) {
	cfg := a.Config.Templates
	local := doctpl.NewFSStore(cfg.Dir)
	a.Templates = local

	var store doctpl.Store = local
	if cfg.BaseURL != "" {
		store = doctpl.NewHTTPStore(cfg.BaseURL, nil)
	}
	if !cfg.Cache {
		return store, nil
	}

	cached := doctpl.NewCachedStore(store, a.Logger.Named("templates"))
	if cfg.BaseURL == "" {
		a.Templates = cached
	}
	if cfg.Watch {
		stop, err := cached.Watch(ctx, cfg.Dir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, stop)
	}
	return cached, nil
}

// settings opens the settings database, or returns nil when none is set.
func (a *App) settings(ctx context.Context) (settings.Loader, error) {
	cfg := a.Config.Settings
	if cfg.Driver == "" {
		return nil, nil
	}
	dialect := settings.Dialect(cfg.Driver)
	db, err := settings.Open(dialect, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("app: settings database: %w", err)
	}
	a.db = db
	if dialect == settings.Postgres {
		if err := settings.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("app: settings migrations: %w", err)
		}
	}
	a.Settings = settings.NewSQLStore(db, dialect)
	return a.Settings, nil
}

func (a *App) s3Client(ctx context.Context) (*s3.Client, error) {
	if a.Config.Export.Driver != "s3" && !a.Config.Assets.S3 {
		return nil, nil
	}
	return export.NewS3Client(ctx, a.s3Config())
}

func (a *App) s3Config() export.S3Config {
	c := a.Config.Export.S3
	return export.S3Config{
		Bucket:       c.Bucket,
		Region:       c.Region,
		Endpoint:     c.Endpoint,
		AccessKey:    c.AccessKey,
		SecretKey:    c.SecretKey,
		UsePathStyle: c.UsePathStyle,
		Prefix:       c.Prefix,
	}
}

func (a *App) exporter(s3c *s3.Client) (export.Exporter, error) {
	cfg := a.Config.Export
	switch cfg.Driver {
	case "":
		return nil, nil
	case "file":
		return export.NewFileSystem(cfg.Dir, cfg.BaseURL, a.Logger.Named("export"))
	case "s3":
		if s3c == nil {
			return nil, errors.New("app: s3 client unavailable")
		}
		return export.NewS3(s3c, cfg.S3.Bucket, cfg.S3.Prefix, export.WithLogger(a.Logger.Named("export")))
	}
	return nil, fmt.Errorf("app: unknown export driver %q", cfg.Driver)
}

// Close stops the template watcher and closes the settings database.
func (a *App) Close() error {
	for _, stop := range a.closers {
		stop()
	}
	a.closers = nil
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}
