package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/geosync/internal/adapter"
	"github.com/MKhiriev/geosync/internal/config"
	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/internal/service"
	"github.com/MKhiriev/geosync/internal/store"
	"github.com/MKhiriev/geosync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("geosync")
	cfg, err := config.GetEngineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	registry, err := store.NewBookmarkRegistry(cfg.Registry.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open bookmark registry")
	}
	defer registry.Close()

	remote := adapter.NewHTTPRemoteClient(adapter.HTTPClientConfig{
		Timeout:          cfg.Adapter.RequestTimeout,
		RetryCount:       cfg.Adapter.RetryCount,
		RetryWaitTime:    cfg.Adapter.RetryWaitTime,
		RetryMaxWaitTime: cfg.Adapter.RetryMaxWaitTime,
	}, log)

	engine := service.NewEngine(remote, registry, models.NopEvents{}, log)
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bookmarks, err := registry.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list bookmarks")
	}
	if len(bookmarks) == 0 {
		log.Info().Msg("no saved bookmarks, nothing to synchronize")
		return
	}

	activated := 0
	for _, bookmark := range bookmarks {
		if bookmark.RefreshInterval <= 0 {
			log.Info().Str("layer", bookmark.Name).Msg("periodic refresh disabled, skipping")
			continue
		}
		if err = engine.ActivateBookmark(ctx, bookmark); err != nil {
			log.Error().Err(err).Str("layer", bookmark.Name).Msg("initial sync failed")
		}
		activated++
	}
	if activated == 0 {
		log.Info().Msg("no layers activated")
		return
	}

	log.Info().Int("layers", activated).Msg("synchronization running")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
