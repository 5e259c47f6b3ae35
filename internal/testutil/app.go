package testutil

import (
	"context"
	"time"

	"duelist/internal/app"
	"duelist/internal/seed"
	"duelist/internal/storage"
	"duelist/internal/store"
)

// AppOptions configures NewApp.
type AppOptions struct {
	// Slot backs the store; nil means a fresh empty MemSlot.
	Slot *MemSlot

	// Source enables seeding when set.
	Source *FakeSource

	// RequireDueDate mirrors tasks.require_due_date.
	RequireDueDate bool

	// Now fixes "today" for seeding; zero means time.Now.
	Now time.Time
}

// NewApp builds an App over in-memory storage.
func NewApp(opts AppOptions) (*app.App, *MemSlot) {
	slot := opts.Slot
	if slot == nil {
		slot = NewMemSlot(nil)
	}
	st := store.New(context.Background(), storage.NewAdapter(slot, nil),
		store.WithRequireDueDate(opts.RequireDueDate))

	var seeder *seed.Seeder
	if opts.Source != nil {
		seedOpts := []seed.Option{}
		if !opts.Now.IsZero() {
			now := opts.Now
			seedOpts = append(seedOpts, seed.WithClock(func() time.Time { return now }))
		}
		seeder = seed.New(opts.Source, seedOpts...)
	}
	return app.New(st, seeder, slot, nil), slot
}
