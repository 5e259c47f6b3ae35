// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"duelist/internal/source"
	"duelist/internal/storage"
)

// MemSlot is an in-memory storage.Slot for testing.
type MemSlot struct {
	mu     sync.Mutex
	data   []byte
	set    bool
	writes int

	// Error injection for testing
	ReadErr  error
	WriteErr error
}

// NewMemSlot creates a slot holding data. A nil data leaves the slot empty.
func NewMemSlot(data []byte) *MemSlot {
	m := &MemSlot{}
	if data != nil {
		m.data = append([]byte(nil), data...)
		m.set = true
	}
	return m
}

// Read implements storage.Slot.
func (m *MemSlot) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if !m.set {
		return nil, storage.ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

// Write implements storage.Slot. A failed write keeps the previous value.
func (m *MemSlot) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	m.writes++
	return nil
}

// Close implements storage.Slot.
func (m *MemSlot) Close() error { return nil }

// Data returns the stored bytes.
func (m *MemSlot) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Writes returns the number of successful writes.
func (m *MemSlot) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FakeSource is an in-memory source.Source for testing.
type FakeSource struct {
	mu sync.Mutex

	// SourceName is returned by Name; empty means "fake".
	SourceName string

	// Items are returned by Fetch, truncated to n.
	Items []source.Item

	// Err, if set, is returned by Fetch.
	Err error

	// Block, if set, makes Fetch wait until it is closed or ctx is done.
	Block chan struct{}

	calls    int
	lastSize int
}

// Name implements source.Source.
func (f *FakeSource) Name() string {
	if f.SourceName == "" {
		return "fake"
	}
	return f.SourceName
}

// Fetch implements source.Source.
func (f *FakeSource) Fetch(ctx context.Context, n int) ([]source.Item, error) {
	f.mu.Lock()
	f.calls++
	f.lastSize = n
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	items := f.Items
	if len(items) > n {
		items = items[:n]
	}
	return append([]source.Item(nil), items...), nil
}

// Calls returns how many times Fetch was called.
func (f *FakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastSize returns the n passed to the last Fetch.
func (f *FakeSource) LastSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSize
}
