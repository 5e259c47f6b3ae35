// Package app is the application context. It owns the task store, runs
// seeding at startup, and routes named user actions to store operations.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"duelist/internal/logging"
	"duelist/internal/seed"
	"duelist/internal/store"
	"duelist/internal/task"
	"duelist/internal/view"
)

// Action names.
const (
	ActionSubmitTask    = "submit-task"
	ActionFilterChanged = "filter-changed"
	ActionSortRequested = "sort-requested"
	ActionTaskAction    = "task-action"
)

// Task action kinds.
const (
	KindComplete = "complete"
	KindDelete   = "delete"
)

// ErrUnknownAction is returned by Dispatch for an unregistered action or an
// unknown task action kind.
var ErrUnknownAction = errors.New("unknown action")

// Event is one user gesture.
type Event struct {
	Action string

	// submit-task
	Text    string
	DueDate string

	// filter-changed
	Status string

	// task-action
	Kind string
	ID   task.ID
}

// Result reports what a handler did.
type Result struct {
	// Task is the created or affected task, when there is one.
	Task task.Task
	// Changed is false when the action matched nothing.
	Changed bool
}

// HandlerFunc handles one action.
type HandlerFunc func(ctx context.Context, ev Event) (Result, error)

// Snapshot is what a view renders.
type Snapshot struct {
	Status    task.Status
	Visible   []task.Task
	Total     int
	Completed int
}

// App is the application context.
type App struct {
	store  *store.Store
	seeder *seed.Seeder
	closer io.Closer
	log    *log.Logger

	mu       sync.Mutex
	status   task.Status
	handlers map[string]HandlerFunc
	render   func(Snapshot)
	seedOnce sync.Once
}

// New builds an App around st. seeder may be nil to disable seeding and
// closer, when set, is closed by Close.
func New(st *store.Store, seeder *seed.Seeder, closer io.Closer, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		store:    st,
		seeder:   seeder,
		closer:   closer,
		log:      logger,
		status:   task.StatusAll,
		handlers: make(map[string]HandlerFunc),
	}
	a.Handle(ActionSubmitTask, a.submitTask)
	a.Handle(ActionFilterChanged, a.filterChanged)
	a.Handle(ActionSortRequested, a.sortRequested)
	a.Handle(ActionTaskAction, a.taskAction)
	return a
}

// Store returns the underlying task store.
func (a *App) Store() *store.Store { return a.store }

// Logger returns the application logger.
func (a *App) Logger() *log.Logger { return a.log }

// Handle registers fn for action, replacing any previous handler.
func (a *App) Handle(action string, fn HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[action] = fn
}

// OnRender sets the function called with a fresh snapshot after every
// successful action.
func (a *App) OnRender(fn func(Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.render = fn
}

// Start runs seeding once. Failures are logged; the app stays usable.
func (a *App) Start(ctx context.Context) {
	a.seedOnce.Do(func() {
		if a.seeder == nil {
			return
		}
		res, err := a.seeder.Run(ctx, a.store)
		if err != nil {
			a.log.Warn("seeding failed", "err", err)
			return
		}
		if res.Added > 0 {
			a.log.Info("seeded tasks", "added", res.Added, "fallback", res.Fallback)
		}
	})
}

// Dispatch runs the handler for ev.Action and then re-renders.
func (a *App) Dispatch(ctx context.Context, ev Event) (Result, error) {
	a.mu.Lock()
	fn, ok := a.handlers[ev.Action]
	a.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, ev.Action)
	}

	res, err := fn(ctx, ev)
	if err != nil {
		return res, err
	}
	a.log.Debug("dispatched", "action", ev.Action, "kind", ev.Kind, "changed", res.Changed)

	a.mu.Lock()
	render := a.render
	a.mu.Unlock()
	if render != nil {
		render(a.Snapshot())
	}
	return res, nil
}

// Status returns the current filter.
func (a *App) Status() task.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Visible returns the filtered, date-sorted sequence for the current filter.
func (a *App) Visible() []task.Task {
	return view.Project(a.store.All(), a.Status())
}

// Snapshot returns the current view state.
func (a *App) Snapshot() Snapshot {
	all := a.store.All()
	status := a.Status()
	snap := Snapshot{
		Status:  status,
		Visible: view.Project(all, status),
		Total:   len(all),
	}
	for _, t := range all {
		if t.Completed {
			snap.Completed++
		}
	}
	return snap
}

// Close releases the storage slot.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) submitTask(ctx context.Context, ev Event) (Result, error) {
	t, err := a.store.Create(ctx, ev.Text, ev.DueDate)
	if err != nil {
		return Result{}, err
	}
	return Result{Task: t, Changed: true}, nil
}

func (a *App) filterChanged(ctx context.Context, ev Event) (Result, error) {
	status := task.ParseStatus(ev.Status)
	a.mu.Lock()
	changed := a.status != status
	a.status = status
	a.mu.Unlock()
	return Result{Changed: changed}, nil
}

// sortRequested rewrites the stored order by due date.
func (a *App) sortRequested(ctx context.Context, ev Event) (Result, error) {
	before := a.store.All()
	sorted := view.SortByDueDate(before)
	if err := a.store.ReplaceAll(ctx, sorted); err != nil {
		return Result{}, err
	}
	return Result{Changed: !task.Equal(before, sorted)}, nil
}

func (a *App) taskAction(ctx context.Context, ev Event) (Result, error) {
	var (
		ok  bool
		err error
	)
	before := a.store.All()
	switch ev.Kind {
	case KindComplete:
		ok, err = a.store.ToggleComplete(ctx, ev.ID)
	case KindDelete:
		ok, err = a.store.Delete(ctx, ev.ID)
	default:
		return Result{}, fmt.Errorf("%w: task-action kind %q", ErrUnknownAction, ev.Kind)
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Changed: ok}
	if i := task.IndexOf(before, ev.ID); i >= 0 {
		res.Task = before[i]
		if ev.Kind == KindComplete {
			res.Task.Completed = !res.Task.Completed
		}
	}
	return res, nil
}
