package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"duelist/internal/logging"
	"duelist/internal/task"
)

// documentSchema describes the stored collection. Ids may be missing or
// numeric on records written by older versions; Load repairs those.
const documentSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text"],
		"properties": {
			"id":        {"type": ["string", "number", "null"]},
			"text":      {"type": "string"},
			"dueDate":   {"type": ["string", "null"]},
			"completed": {"type": "boolean"}
		}
	}
}`

var schema = jsonschema.MustCompileString("tasks.schema.json", documentSchema)

// Adapter serializes the task collection into a Slot.
type Adapter struct {
	slot  Slot
	log   *log.Logger
	newID func() task.ID
}

// NewAdapter returns an adapter over slot. A nil logger discards output.
func NewAdapter(slot Slot, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Adapter{slot: slot, log: logger, newID: task.NewID}
}

// Load reads the stored collection. An absent, unreadable or malformed
// document yields an empty collection; Load never fails.
//
// Records without an id (or sharing an id with an earlier record) get a fresh
// one, and records with blank text are dropped. When anything was repaired
// the collection is written back before Load returns.
func (a *Adapter) Load(ctx context.Context) []task.Task {
	data, err := a.slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			a.log.Warn("task store unreadable, starting empty", "err", err)
		}
		return []task.Task{}
	}

	tasks, numeric, err := decode(data)
	if err != nil {
		a.log.Warn("task store corrupt, starting empty", "err", err)
		return []task.Task{}
	}

	tasks, repaired := a.normalize(tasks)
	if repaired+numeric > 0 {
		a.log.Info("repaired stored tasks", "count", repaired, "numeric_ids", numeric)
		if err := a.Save(ctx, tasks); err != nil {
			a.log.Warn("could not persist repaired tasks", "err", err)
		}
	}
	return tasks
}

// Save replaces the stored document with tasks.
func (a *Adapter) Save(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')
	if err := a.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	a.log.Debug("saved tasks", "count", len(tasks))
	return nil
}

// decode validates and parses the document. It also returns how many records
// carried a numeric id, which the caller rewrites as text.
func decode(data []byte) ([]task.Task, int, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parse document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, 0, fmt.Errorf("validate document: %w", err)
	}

	numeric := 0
	for _, rec := range doc.([]any) {
		if _, ok := rec.(map[string]any)["id"].(float64); ok {
			numeric++
		}
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, numeric, nil
}

// normalize drops blank records and assigns ids where missing or duplicated.
// It returns the number of records it changed or removed.
func (a *Adapter) normalize(tasks []task.Task) ([]task.Task, int) {
	out := make([]task.Task, 0, len(tasks))
	seen := make(map[task.ID]bool, len(tasks))
	repaired := 0
	for _, t := range tasks {
		if strings.TrimSpace(t.Text) == "" {
			repaired++
			continue
		}
		if t.ID.IsZero() || seen[t.ID] {
			t.ID = a.newID()
			repaired++
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, repaired
}
