// Package storage persists the task collection in a durable key-value slot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrSlotEmpty is returned by Slot.Read when nothing has been stored yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single named entry in a durable key-value store.
// Write replaces the entry wholesale; a failed Write leaves the previous
// value readable.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the slot named key inside dir for the given backend.
func Open(ctx context.Context, backend, dir, key string) (Slot, error) {
	if key == "" {
		return nil, fmt.Errorf("storage key is empty")
	}
	switch backend {
	case "", BackendFile:
		return NewFileSlot(filepath.Join(dir, key+".json")), nil
	case BackendSQLite:
		return OpenSQLiteSlot(ctx, filepath.Join(dir, "duelist.db"), key)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
