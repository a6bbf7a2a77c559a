package cmd

import (
	"context"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub"
	gcpstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	archivegcs "github.com/petrolmate/crawler/internal/archive/gcs"
	archivelocal "github.com/petrolmate/crawler/internal/archive/local"
	"github.com/petrolmate/crawler/internal/browse"
	"github.com/petrolmate/crawler/internal/catalog"
	"github.com/petrolmate/crawler/internal/clock/system"
	"github.com/petrolmate/crawler/internal/config"
	"github.com/petrolmate/crawler/internal/extract"
	"github.com/petrolmate/crawler/internal/fuel"
	"github.com/petrolmate/crawler/internal/geocode"
	"github.com/petrolmate/crawler/internal/id/uuid"
	"github.com/petrolmate/crawler/internal/orchestrator"
	pubsubpublisher "github.com/petrolmate/crawler/internal/publisher/pubsub"
	storefirebase "github.com/petrolmate/crawler/internal/store/firebase"
	storememory "github.com/petrolmate/crawler/internal/store/memory"
	"github.com/petrolmate/crawler/internal/writer"
)

// buildOrchestrator wires every collaborator from configuration. The
// returned cleanup closes browser and cloud clients.
func buildOrchestrator(ctx context.Context, cfg config.Config, logger *zap.Logger) (*orchestrator.Orchestrator, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	factory, err := browse.NewFactory(browse.Config{
		BaseURL:           cfg.Browser.BaseURL,
		UserAgent:         cfg.Browser.UserAgent,
		NavigationTimeout: cfg.NavigationTimeout(),
		ZoomOutSteps:      cfg.Browser.ZoomOutSteps,
		ZoomSettle:        cfg.ZoomSettle(),
	}, logger.Named("browse"))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init browser factory: %w", err)
	}
	closers = append(closers, factory.Close)

	enricher := geocode.NewEnricher(geocode.NewClient(geocode.Config{
		BaseURL:      cfg.Geocode.BaseURL,
		CountryCodes: cfg.Geocode.CountryCodes,
		UserAgent:    cfg.Geocode.UserAgent,
		Timeout:      cfg.GeocodeTimeout(),
	}), logger.Named("geocode"))

	archive, archiveClosers, err := buildArchive(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, archiveClosers...)

	publisher, publisherClosers, err := buildPublisher(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, publisherClosers...)

	orch := orchestrator.New(
		catalog.Default(),
		factory,
		enricher,
		writer.New(store, writer.Mode(cfg.Store.WriteMode), logger.Named("writer")),
		archive,
		publisher,
		system.New(),
		uuid.NewUUIDGenerator(),
		extract.Options{Intersections: extract.IntersectionMode(cfg.Address.IntersectionMode)},
		orchestrator.Config{
			Concurrent:    cfg.Crawler.Concurrent,
			StartStagger:  cfg.StartStagger(),
			ArchivePrefix: cfg.Archive.Prefix,
			Topic:         cfg.PubSub.TopicName,
		},
		logger.Named("orchestrator"),
	)
	return orch, cleanup, nil
}

func buildStore(ctx context.Context, cfg config.Config) (fuel.DocumentStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return storememory.New(), nil
	default:
		store, err := storefirebase.New(ctx, storefirebase.Config{
			DatabaseURL:     cfg.Store.DatabaseURL,
			CredentialsFile: cfg.Store.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("init firebase store: %w", err)
		}
		return store, nil
	}
}

func buildArchive(ctx context.Context, cfg config.Config) (fuel.ArchiveStore, []func(), error) {
	if !cfg.Archive.Enabled {
		return nil, nil, nil
	}
	if cfg.Archive.Backend == "gcs" {
		client, err := gcpstorage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs client: %w", err)
		}
		store, err := archivegcs.New(client, archivegcs.Config{Bucket: cfg.Archive.GCSBucket})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("init gcs archive: %w", err)
		}
		return store, []func(){func() { _ = client.Close() }}, nil
	}
	store, err := archivelocal.New(archivelocal.Config{BaseDir: cfg.Archive.LocalDir})
	if err != nil {
		return nil, nil, fmt.Errorf("init local archive: %w", err)
	}
	return store, nil, nil
}

func buildPublisher(ctx context.Context, cfg config.Config) (fuel.Publisher, []func(), error) {
	if cfg.PubSub.ProjectID == "" || cfg.PubSub.TopicName == "" {
		return nil, nil, nil
	}
	client, err := gcppubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub client: %w", err)
	}
	return pubsubpublisher.New(client), []func(){func() { _ = client.Close() }}, nil
}
