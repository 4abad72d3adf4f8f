package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/repositories"
	"github.com/GustavoTessaro/myplaylist/internal/services"
	"github.com/GustavoTessaro/myplaylist/internal/session"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/GustavoTessaro/myplaylist/internal/store"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.Catalog = services.NewAudioDBService(services.AudioDBOpts{
		BaseURL: config.Catalog.BaseURL,
		APIKey:  config.Catalog.APIKey,
		Limit:   config.Catalog.ResultLimit,
	})

	// The cache is best effort: a missing or unreadable database falls back
	// to direct catalog access.
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("failed to migrate search cache, caching disabled", "error", err)
		} else {
			ttl := time.Duration(config.Database.CacheTTLMin) * time.Minute
			cache := repositories.NewSearchCacheRepository(db, ttl)
			catalog = services.NewCachedCatalog(catalog, cache, logger)
		}
	} else {
		logger.Warn("failed to open search cache database, caching disabled", "error", err)
	}

	playlists, err := store.NewPlaylistStore(store.NewFilePort(config.Storage.PlaylistsPath), logger)
	if err != nil {
		logger.Fatalf("failed to load playlists: %v", err)
	}

	sessions, err := session.NewStore(config.Storage.SessionPath, config.Auth.Email, config.Auth.Password)
	if err != nil {
		logger.Fatalf("failed to load session: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Catalog:  catalog,
		Store:    playlists,
		Sessions: sessions,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:    "myplaylist",
		Usage:   "Search TheAudioDB and manage local playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Warn("not logged in")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
