// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/archive"
	archiveGCS "github.com/fransm/boe-watcher/internal/archive/gcs"
	archiveLocal "github.com/fransm/boe-watcher/internal/archive/local"
	"github.com/fransm/boe-watcher/internal/clock/system"
	"github.com/fransm/boe-watcher/internal/config"
	"github.com/fransm/boe-watcher/internal/gazette"
	"github.com/fransm/boe-watcher/internal/hash/sha256"
	"github.com/fransm/boe-watcher/internal/id/uuid"
	"github.com/fransm/boe-watcher/internal/logging"
	notifyPubSub "github.com/fransm/boe-watcher/internal/notify/pubsub"
	notifySMTP "github.com/fransm/boe-watcher/internal/notify/smtp"
	"github.com/fransm/boe-watcher/internal/pipeline"
	storeMemory "github.com/fransm/boe-watcher/internal/store/memory"
	storePostgres "github.com/fransm/boe-watcher/internal/store/postgres"
	"github.com/fransm/boe-watcher/internal/sumario"
)

// App holds all the shared, long-lived services for the application. It is
// initialized once at startup and handed to the commands that need it.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	store    gazette.Store
	pipeline *pipeline.Pipeline
	closers  []io.Closer
}

// New creates and initializes an App from the loaded configuration. It is
// designed to fail fast when any critical service cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logging.Init(cfg.Logging.Development)
	logger := logging.L
	logger.Info("initializing application services")

	a := &App{cfg: cfg, logger: logger}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	notifier, err := a.buildNotifier(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}

	blobStore, err := a.buildArchive(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}

	fetcher := sumario.NewFetcher(sumario.FetcherConfig{
		BaseURL:   cfg.BOE.BaseURL,
		UserAgent: cfg.BOE.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, logger)
	locator := sumario.NewLocator(fetcher, logger)
	normalizer := sumario.NewNormalizer(gazette.NewRegionMatcher(cfg.Regions))

	a.pipeline = pipeline.New(
		locator,
		normalizer,
		store,
		notifier,
		blobStore,
		sha256.New(),
		system.New(),
		uuid.New(),
		pipeline.Config{
			SectionCode:   cfg.BOE.SectionCode,
			LookbackDays:  cfg.BOE.LookbackDays,
			Recipients:    cfg.Notify.Recipients,
			ArchivePrefix: cfg.Archive.Prefix,
		},
		logger,
	)

	logger.Info("application services initialized")
	return a, nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store exposes the announcement store consumed by the read API.
func (a *App) Store() gazette.Store { return a.store }

// Pipeline returns the ingestion pipeline.
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

// Close gracefully shuts down all services in the container.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	if a.store != nil {
		a.store.Close()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("error closing service", zap.Error(err))
		}
	}
	// Flush buffered log entries; best effort on shutdown.
	_ = a.logger.Sync()
}

func (a *App) buildStore(ctx context.Context) (gazette.Store, error) {
	switch a.cfg.DB.Provider {
	case "postgres":
		a.logger.Info("connecting to postgres store")
		store, err := storePostgres.New(ctx, storePostgres.Config{
			DSN:      a.cfg.DB.DSN,
			MaxConns: a.cfg.DB.MaxConns,
			MinConns: a.cfg.DB.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		return store, nil
	case "memory":
		a.logger.Info("using in-memory store; rows are lost on exit")
		return storeMemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown db provider: %s", a.cfg.DB.Provider)
	}
}

func (a *App) buildNotifier(ctx context.Context) (gazette.Notifier, error) {
	switch a.cfg.Notify.Provider {
	case "none":
		return nil, nil
	case "smtp":
		a.logger.Info("using smtp notifier", zap.String("host", a.cfg.Notify.SMTP.Host))
		n, err := notifySMTP.New(notifySMTP.Config{
			Host:     a.cfg.Notify.SMTP.Host,
			Port:     a.cfg.Notify.SMTP.Port,
			Username: a.cfg.Notify.SMTP.Username,
			Password: a.cfg.Notify.SMTP.Password,
			From:     a.cfg.Notify.SMTP.From,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("initialize smtp notifier: %w", err)
		}
		return n, nil
	case "pubsub":
		a.logger.Info("using pubsub notifier", zap.String("topic", a.cfg.Notify.PubSub.TopicID))
		n, err := notifyPubSub.New(ctx, a.cfg.Notify.PubSub.ProjectID, a.cfg.Notify.PubSub.TopicID)
		if err != nil {
			return nil, fmt.Errorf("initialize pubsub notifier: %w", err)
		}
		a.closers = append(a.closers, n)
		return n, nil
	default:
		return nil, fmt.Errorf("unknown notify provider: %s", a.cfg.Notify.Provider)
	}
}

func (a *App) buildArchive(ctx context.Context) (gazette.BlobStore, error) {
	switch a.cfg.Archive.Provider {
	case "none":
		return archive.NoOp{}, nil
	case "local":
		a.logger.Info("archiving summaries locally", zap.String("dir", a.cfg.Archive.BaseDir))
		store, err := archiveLocal.New(archiveLocal.Config{BaseDir: a.cfg.Archive.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("initialize local archive: %w", err)
		}
		return store, nil
	case "gcs":
		a.logger.Info("archiving summaries to GCS", zap.String("bucket", a.cfg.Archive.Bucket))
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create GCS client: %w", err)
		}
		store, err := archiveGCS.New(client, archiveGCS.Config{Bucket: a.cfg.Archive.Bucket})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("initialize GCS archive: %w", err)
		}
		a.closers = append(a.closers, client)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", a.cfg.Archive.Provider)
	}
}
