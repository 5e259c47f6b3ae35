// Package view derives the display order of a task collection. Every function
// here is pure: inputs are never modified and nothing touches storage.
package view

import (
	"sort"

	"duelist/internal/task"
)

// Filter returns the tasks matching status. StatusAll (and any unknown
// status) returns the input unchanged.
func Filter(tasks []task.Task, status task.Status) []task.Task {
	if status != task.StatusCompleted && status != task.StatusActive {
		return tasks
	}
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if status.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDueDate returns a copy of tasks ordered by ascending due date. Tasks
// without a parseable due date come after every dated task. Ties keep their
// input order.
func SortByDueDate(tasks []task.Task) []task.Task {
	out := task.Clone(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		di, okI := out[i].Due()
		dj, okJ := out[j].Due()
		switch {
		case okI && okJ:
			return di.Before(dj)
		case okI:
			return true
		default:
			return false
		}
	})
	return out
}

// Project is the display pipeline: filter, then sort.
func Project(tasks []task.Task, status task.Status) []task.Task {
	return SortByDueDate(Filter(tasks, status))
}
