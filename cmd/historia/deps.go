package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/infrastructure/archive"
	"github.com/ersonp/historia/internal/infrastructure/config"
	"github.com/ersonp/historia/internal/infrastructure/store/postgres"
)

// Deps holds high-level dependencies for commands. Commands see the store
// through its port; the Postgres repository stays internal to withDeps.
type Deps struct {
	Config *config.Config
	Store  ports.Store
	Logger *slog.Logger
}

// withDeps loads config, connects the store and ensures the schema, then
// calls the provided function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cfg, err := config.Load(globalConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if globalDataDir != "" {
		cfg.Data.Dir = globalDataDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := postgres.NewRepository(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating postgres repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	return fn(&Deps{
		Config: cfg,
		Store:  store,
		Logger: logger,
	})
}

// catalogClient builds the digitized-book catalog client from config.
func (d *Deps) catalogClient() (ports.CatalogSearcher, error) {
	client, err := archive.NewClient(d.Config.Archive)
	if err != nil {
		return nil, fmt.Errorf("creating archive client: %w", err)
	}
	return client, nil
}
