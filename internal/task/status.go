package task

import "strings"

// Status selects which tasks a view shows.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusActive    Status = "active"
)

// ParseStatus maps a user-facing label to a Status. "pending" is an alias for
// active. Unknown labels fall back to StatusAll.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "done":
		return StatusCompleted
	case "active", "pending":
		return StatusActive
	default:
		return StatusAll
	}
}

// Matches reports whether t belongs to the status.
func (s Status) Matches(t Task) bool {
	switch s {
	case StatusCompleted:
		return t.Completed
	case StatusActive:
		return !t.Completed
	default:
		return true
	}
}
