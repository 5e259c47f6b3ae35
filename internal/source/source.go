// Package source defines the backend-agnostic interface for external sample
// task sources used to seed an empty list.
package source

import "context"

// Item is one sample task as exposed by an external source.
type Item struct {
	ID        string
	Title     string
	Completed bool
}

// Source fetches sample items. Seeding never imports a concrete backend; it
// only sees this interface.
type Source interface {
	// Name identifies the source. It namespaces ids derived from Item.ID.
	Name() string

	// Fetch returns up to n items in source order.
	// Any transport or decoding failure is returned as an error.
	Fetch(ctx context.Context, n int) ([]Item, error)
}
