// Package store owns the ordered task collection. Every successful mutation
// is persisted before it becomes visible.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"duelist/internal/task"
)

// Validation errors returned by Create and ReplaceAll.
var (
	ErrTextRequired      = errors.New("task description is required")
	ErrDueDateRequired   = errors.New("due date is required")
	ErrInvalidDueDate    = errors.New("invalid due date (want YYYY-MM-DD)")
	ErrInvalidCollection = errors.New("invalid task collection")
)

// Persister loads and saves the whole collection.
type Persister interface {
	Load(ctx context.Context) []task.Task
	Save(ctx context.Context, tasks []task.Task) error
}

// Option configures a Store.
type Option func(*Store)

// WithRequireDueDate sets whether Create rejects an empty due date.
// The default is true.
func WithRequireDueDate(required bool) Option {
	return func(s *Store) { s.requireDue = required }
}

// WithIDGenerator replaces the id generator used by Create.
func WithIDGenerator(fn func() task.ID) Option {
	return func(s *Store) { s.newID = fn }
}

// Store is the in-memory collection backed by a Persister.
type Store struct {
	mu         sync.RWMutex
	p          Persister
	tasks      []task.Task
	requireDue bool
	newID      func() task.ID
}

// New loads the collection from p.
func New(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		p:          p,
		requireDue: true,
		newID:      task.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load(ctx)
	if s.tasks == nil {
		s.tasks = []task.Task{}
	}
	return s
}

// RequireDueDate reports whether Create needs a due date.
func (s *Store) RequireDueDate() bool { return s.requireDue }

// All returns a snapshot in insertion order.
func (s *Store) All() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return task.Clone(s.tasks)
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Create validates text and dueDate, appends a new active task and persists.
// Surrounding whitespace is trimmed from both. A rejected task leaves the
// collection and the stored document untouched.
func (s *Store) Create(ctx context.Context, text, dueDate string) (task.Task, error) {
	text = strings.TrimSpace(text)
	dueDate = strings.TrimSpace(dueDate)

	if text == "" {
		return task.Task{}, ErrTextRequired
	}
	if dueDate == "" && s.requireDue {
		return task.Task{}, ErrDueDateRequired
	}
	if dueDate != "" {
		if _, err := task.ParseDate(dueDate); err != nil {
			return task.Task{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, dueDate)
		}
	}

	t := task.Task{ID: s.newID(), Text: text, DueDate: dueDate}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(task.Clone(s.tasks), t)
	if err := s.commit(ctx, next); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// ToggleComplete flips the completed flag of the task with id.
// An unknown id returns false and persists nothing.
func (s *Store) ToggleComplete(ctx context.Context, id task.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return false, nil
	}
	next := task.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the task with id. It reports whether a task was removed.
func (s *Store) Delete(ctx context.Context, id task.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return false, nil
	}
	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceAll swaps the whole collection and persists it. Replacing the
// collection with an equal one is a no-op. A collection with a blank or
// repeated id, or a blank text, is rejected with ErrInvalidCollection and
// nothing changes.
func (s *Store) ReplaceAll(ctx context.Context, tasks []task.Task) error {
	if err := validate(tasks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := task.Clone(tasks)
	if task.Equal(s.tasks, next) {
		return nil
	}
	return s.commit(ctx, next)
}

func validate(tasks []task.Task) error {
	seen := make(map[task.ID]bool, len(tasks))
	for i, t := range tasks {
		switch {
		case t.ID.IsZero():
			return fmt.Errorf("%w: task %d has no id", ErrInvalidCollection, i+1)
		case seen[t.ID]:
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCollection, t.ID)
		case strings.TrimSpace(t.Text) == "":
			return fmt.Errorf("%w: task %q has no description", ErrInvalidCollection, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// commit persists next and then installs it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []task.Task) error {
	if err := s.p.Save(ctx, next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}
