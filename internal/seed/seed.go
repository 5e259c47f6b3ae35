// Package seed tops an under-filled task collection up to a target size from
// an external source, falling back to synthetic placeholders.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"duelist/internal/logging"
	"duelist/internal/source"
	"duelist/internal/task"
)

// DefaultTarget is the collection size seeding aims for.
const DefaultTarget = 5

// ErrInProgress is returned when Run is called while another run is active.
var ErrInProgress = errors.New("seeding already in progress")

// Collection is the part of the task store seeding needs.
type Collection interface {
	All() []task.Task
	ReplaceAll(ctx context.Context, tasks []task.Task) error
}

// Result describes one seeding run.
type Result struct {
	// Added is the number of tasks appended.
	Added int
	// Fetched is how many of those came from the source.
	Fetched int
	// Fallback is set when the source failed or returned too few items.
	Fallback bool
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithTarget sets the target collection size.
func WithTarget(n int) Option {
	return func(s *Seeder) { s.target = n }
}

// WithClock sets the function used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

// WithTimeout bounds a single fetch. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Seeder) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Seeder) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces the generator used for synthetic and colliding ids.
func WithIDGenerator(fn func() task.ID) Option {
	return func(s *Seeder) { s.newID = fn }
}

// Seeder runs the seeding procedure. A nil source always falls back.
type Seeder struct {
	src     source.Source
	target  int
	now     func() time.Time
	timeout time.Duration
	log     *log.Logger
	newID   func() task.ID

	running atomic.Bool
}

// New returns a Seeder reading from src.
func New(src source.Source, opts ...Option) *Seeder {
	s := &Seeder{
		src:    src,
		target: DefaultTarget,
		now:    time.Now,
		log:    logging.Discard(),
		newID:  task.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run appends max(0, target-len) tasks to c and persists through ReplaceAll.
// Existing tasks are never dropped or reordered. Source failures are logged
// and replaced by synthetic tasks; only persistence errors are returned.
func (s *Seeder) Run(ctx context.Context, c Collection) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrInProgress
	}
	defer s.running.Store(false)

	current := c.All()
	deficit := s.target - len(current)
	if deficit <= 0 {
		s.log.Debug("seeding skipped", "size", len(current), "target", s.target)
		return Result{}, nil
	}

	today := s.now()
	var res Result

	items, err := s.fetch(ctx, deficit)
	if err != nil {
		s.log.Warn("seed source unavailable, using samples", "err", err)
		items = nil
	}
	if len(items) > deficit {
		items = items[:deficit]
	}

	taken := make(map[task.ID]bool, len(current)+deficit)
	for _, t := range current {
		taken[t.ID] = true
	}

	next := task.Clone(current)
	for i, it := range items {
		t := task.Task{
			ID:        s.sourceID(it.ID, taken),
			Text:      title(it.Title, i),
			DueDate:   task.FormatDate(today, i),
			Completed: it.Completed,
		}
		taken[t.ID] = true
		next = append(next, t)
	}
	res.Fetched = len(items)

	for i := len(items); i < deficit; i++ {
		id := s.freshID(taken)
		taken[id] = true
		next = append(next, task.Task{
			ID:      id,
			Text:    fmt.Sprintf("Sample %d", i+1),
			DueDate: task.FormatDate(today, i),
		})
	}
	res.Added = deficit
	res.Fallback = res.Fetched < deficit

	if res.Fallback && err == nil {
		s.log.Debug("seed source returned too few items", "want", deficit, "got", res.Fetched)
	}

	if err := c.ReplaceAll(ctx, next); err != nil {
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	s.log.Debug("seeded tasks", "added", res.Added, "fetched", res.Fetched)
	return res, nil
}

func (s *Seeder) fetch(ctx context.Context, n int) ([]source.Item, error) {
	if s.src == nil {
		return nil, errors.New("no seed source configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.src.Fetch(ctx, n)
}

// sourceID namespaces a source id. Missing or already used ids get a fresh one.
func (s *Seeder) sourceID(raw string, taken map[task.ID]bool) task.ID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.freshID(taken)
	}
	id := task.ID(s.src.Name() + "-" + raw)
	if taken[id] {
		return s.freshID(taken)
	}
	return id
}

func (s *Seeder) freshID(taken map[task.ID]bool) task.ID {
	for {
		id := s.newID()
		if !taken[id] {
			return id
		}
	}
}

func title(t string, i int) string {
	if t = strings.TrimSpace(t); t != "" {
		return t
	}
	return fmt.Sprintf("Task #%d", i+1)
}
