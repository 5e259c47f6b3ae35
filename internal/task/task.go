// Package task defines the task record shared by the store, the view engine
// and the seeding procedure.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for due dates.
const DateLayout = "2006-01-02"

// ID is an opaque task identifier. Ids are compared by value only.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty or blank.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Short returns the first eight characters of the id for display.
func (id ID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// UnmarshalJSON accepts a string, a number or null. Numbers keep their
// literal decimal text so legacy timestamp ids compare equal to their string
// form.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Task is one to-do item.
type Task struct {
	ID        ID     `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	DueDate   string `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return strings.TrimSpace(t.DueDate) != ""
}

// Due parses the due date. ok is false when the task has no due date or the
// stored value is not a calendar date.
func (t Task) Due() (time.Time, bool) {
	if !t.HasDueDate() {
		return time.Time{}, false
	}
	d, err := ParseDate(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// FormatDate formats the calendar day of t, offset by days, in t's location.
func FormatDate(t time.Time, days int) string {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, t.Location()).Format(DateLayout)
}

// Clone returns a copy of tasks that shares no backing array with the input.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Equal reports whether two collections hold the same tasks in the same order.
func Equal(a, b []Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id ID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
