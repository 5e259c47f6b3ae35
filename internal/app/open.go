package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"duelist/internal/backend/googletasks"
	"duelist/internal/config"
	"duelist/internal/logging"
	"duelist/internal/seed"
	"duelist/internal/source"
	"duelist/internal/source/placeholder"
	"duelist/internal/storage"
	"duelist/internal/store"
)

// Open wires an App from cfg: storage slot, task store and seeder.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	slot, err := storage.Open(ctx, cfg.Storage.Backend, cfg.Dir, cfg.Storage.Key)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	adapter := storage.NewAdapter(slot, logger)
	st := store.New(ctx, adapter, store.WithRequireDueDate(cfg.Tasks.RequireDueDate))

	var seeder *seed.Seeder
	if cfg.Seed.Enabled {
		seeder = seed.New(NewSource(ctx, cfg, logger),
			seed.WithTarget(cfg.Seed.Target),
			seed.WithTimeout(cfg.SeedTimeout()),
			seed.WithLogger(logger),
		)
	}

	return New(st, seeder, slot, logger), nil
}

// NewSource returns the configured seed source, or nil when seeding should
// always use samples.
func NewSource(ctx context.Context, cfg *config.Config, logger *log.Logger) source.Source {
	switch cfg.Seed.Source {
	case config.SourcePlaceholder:
		return placeholder.New(cfg.Seed.URL, nil)
	case config.SourceGoogleTasks:
		if !cfg.HasOAuthClient() || !cfg.HasToken() {
			logger.Debug("google tasks source not logged in, using samples")
			return nil
		}
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			logger.Warn("google tasks source unavailable", "err", err)
			return nil
		}
		return c
	default:
		return nil
	}
}
